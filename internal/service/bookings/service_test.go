package bookings

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/StayFinder-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings/models"
	"github.com/m04kA/StayFinder-BookingService/pkg/logger"
	"github.com/m04kA/StayFinder-BookingService/pkg/ptr"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type mockRepo struct {
	byID     map[int64]*domain.Booking
	list     []*domain.Booking
	total    int
	stats    *domain.RenterStats
	err      error
	listCall int

	lastFilter domain.RenterBookingsFilter
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (m *mockRepo) ListByRenter(_ context.Context, f domain.RenterBookingsFilter) ([]*domain.Booking, error) {
	m.listCall++
	m.lastFilter = f
	return m.list, m.err
}

func (m *mockRepo) CountByRenter(_ context.Context, f domain.RenterBookingsFilter) (int, error) {
	m.lastFilter = f
	return m.total, m.err
}

func (m *mockRepo) StatsByRenter(_ context.Context, _ string, _ time.Time) (*domain.RenterStats, error) {
	return m.stats, m.err
}

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func newTestService(t *testing.T, repo *mockRepo) *Service {
	t.Helper()
	log, err := logger.NewWithWriter(io.Discard, "info")
	require.NoError(t, err)

	svc := NewService(repo, log)
	svc.timeProvider = fixedTime{t: time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)}
	return svc
}

func stay(id int64, renter, checkIn, checkOut string) *domain.Booking {
	return &domain.Booking{
		ID:               id,
		PaymentSessionID: fmt.Sprintf("cs_%d", id),
		RenterID:         ptr.Of(renter),
		ListingID:        "L1",
		AmountMinor:      150000,
		Currency:         "inr",
		StayWindow:       domain.StayWindow{CheckIn: day(checkIn), CheckOut: day(checkOut)},
		GuestCount:       2,
	}
}

func TestGetByID_OwnBooking(t *testing.T) {
	repo := &mockRepo{byID: map[int64]*domain.Booking{1: stay(1, "u1", "2024-06-01", "2024-06-05")}}
	svc := newTestService(t, repo)

	resp, err := svc.GetByID(context.Background(), 1, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, resp.Amount)
	assert.Equal(t, "active", resp.ComputedStatus)
	assert.Equal(t, "2024-06-01", resp.CheckInDate)
	assert.Equal(t, 4, resp.Nights)
}

func TestGetByID_ForeignOrMissingIsNotFound(t *testing.T) {
	repo := &mockRepo{byID: map[int64]*domain.Booking{1: stay(1, "u1", "2024-06-01", "2024-06-05")}}
	svc := newTestService(t, repo)

	_, err := svc.GetByID(context.Background(), 1, "u2")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.GetByID(context.Background(), 99, "u1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_RepositoryError(t *testing.T) {
	svc := newTestService(t, &mockRepo{err: bookingRepo.ErrExecQuery})

	_, err := svc.GetByID(context.Background(), 1, "u1")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserBookings_PaginationAndStatus(t *testing.T) {
	repo := &mockRepo{
		list: []*domain.Booking{
			stay(3, "u1", "2024-07-01", "2024-07-03"),
			stay(2, "u1", "2024-06-01", "2024-06-05"),
		},
		total: 5,
	}
	svc := newTestService(t, repo)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RenterID: "u1",
		Page:     2,
		Limit:    2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.lastFilter.Offset)
	assert.Equal(t, 2, repo.lastFilter.Limit)
	assert.Equal(t, day("2024-06-03"), repo.lastFilter.Today)

	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, "upcoming", resp.Bookings[0].ComputedStatus)
	assert.Equal(t, "active", resp.Bookings[1].ComputedStatus)
	assert.Equal(t, models.PaginationResponse{
		CurrentPage:   2,
		TotalPages:    3,
		TotalBookings: 5,
		HasNextPage:   true,
		HasPrevPage:   true,
		Limit:         2,
	}, resp.Pagination)
}

func TestGetUserBookings_PageBeyondTotalSkipsQuery(t *testing.T) {
	repo := &mockRepo{total: 1}
	svc := newTestService(t, repo)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{RenterID: "u1", Page: 5, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)
	assert.NotNil(t, resp.Bookings)
	assert.Zero(t, repo.listCall)
	assert.False(t, resp.Pagination.HasNextPage)
}

func TestGetUserBookings_InvalidInput(t *testing.T) {
	svc := newTestService(t, &mockRepo{})

	tests := []*models.GetUserBookingsRequest{
		{RenterID: "u1", Page: 0, Limit: 10},
		{RenterID: "u1", Page: domain.MaxPage + 1, Limit: 10},
		{RenterID: "u1", Page: math.MaxInt / 50, Limit: 100},
		{RenterID: "u1", Page: 1, Limit: 0},
		{RenterID: "u1", Page: 1, Limit: 101},
		{RenterID: "u1", Page: 1, Limit: 10, Status: ptr.Of("cancelled")},
	}

	for _, req := range tests {
		_, err := svc.GetUserBookings(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestToDomainFilter_LastAllowedPageKeepsOffsetPositive(t *testing.T) {
	req := &models.GetUserBookingsRequest{RenterID: "u1", Page: domain.MaxPage, Limit: domain.MaxPageLimit}

	filter, err := req.ToDomainFilter(time.Now())
	require.NoError(t, err)
	assert.Positive(t, filter.Offset)
	assert.LessOrEqual(t, filter.Offset, math.MaxInt32)
}

func TestGetUserBookings_StatusFilterPassedToRepository(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		RenterID: "u1", Page: 1, Limit: 10, Status: ptr.Of("completed"),
	})
	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StayCompleted, *repo.lastFilter.Status)
}

func TestGetStats(t *testing.T) {
	repo := &mockRepo{stats: &domain.RenterStats{
		TotalBookings:     3,
		TotalSpentMinor:   451999,
		UpcomingBookings:  1,
		ActiveBookings:    1,
		CompletedBookings: 1,
	}}
	svc := newTestService(t, repo)

	resp, err := svc.GetStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4519.99, resp.TotalSpent)
	assert.Equal(t, 3, resp.TotalBookings)
}
