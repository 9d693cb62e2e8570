package booking

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/internal/infra/storage/migrations"
	"github.com/m04kA/StayFinder-BookingService/pkg/ptr"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	if testing.Short() {
		t.Skip("integration test: requires docker")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	require.NoError(t, migrations.Up(db))
	// повторный прогон не должен падать
	require.NoError(t, migrations.Up(db))

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewRepository(db), cleanup
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(domain.DateFormat, s)
	require.NoError(t, err)
	return d
}

func newTestBooking(t *testing.T, sessionID, renterID, checkIn, checkOut string) *domain.Booking {
	return &domain.Booking{
		PaymentSessionID: sessionID,
		RenterID:         ptr.NonEmpty(renterID),
		RenterEmail:      "renter@example.com",
		ListingID:        "L1",
		AmountMinor:      150000,
		Currency:         "inr",
		StayWindow:       domain.StayWindow{CheckIn: mustDate(t, checkIn), CheckOut: mustDate(t, checkOut)},
		GuestCount:       2,
	}
}

func TestCreate_AndGetByPaymentSessionID(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	b := newTestBooking(t, "cs_test_1", "u1", "2024-06-01", "2024-06-05")
	b.SpecialRequests = ptr.Of("late check-in")

	created, err := repo.Create(ctx, b)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByPaymentSessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(150000), got.AmountMinor)
	assert.Equal(t, 1500.0, got.Amount())
	assert.Equal(t, "u1", *got.RenterID)
	assert.Equal(t, "late check-in", *got.SpecialRequests)
	assert.Equal(t, "2024-06-01", got.StayWindow.CheckIn.Format(domain.DateFormat))
	assert.Equal(t, "2024-06-05", got.StayWindow.CheckOut.Format(domain.DateFormat))
	assert.Equal(t, 2, got.GuestCount)
}

func TestCreate_GuestBookingHasNullRenter(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	created, err := repo.Create(ctx, newTestBooking(t, "cs_guest", "", "2024-06-01", "2024-06-02"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.RenterID)
	assert.Nil(t, got.SpecialRequests)
}

func TestCreate_DuplicateSessionReturnsSentinel(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestBooking(t, "cs_dup", "u1", "2024-06-01", "2024-06-05"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTestBooking(t, "cs_dup", "u1", "2024-06-01", "2024-06-05"))
	assert.ErrorIs(t, err, ErrDuplicatePaymentSession)
}

func TestCreate_ConcurrentDuplicatesStoreOneRow(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	const workers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)

	for i := 0; i < workers; i++ {
		b := newTestBooking(t, "cs_race", "u1", "2024-06-01", "2024-06-05")
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, b)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case assert.ErrorIs(t, err, ErrDuplicatePaymentSession):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, duplicates)

	total, err := repo.CountByRenter(ctx, domain.RenterBookingsFilter{RenterID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestGetByPaymentSessionID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByPaymentSessionID(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListByRenter_StatusFilterAndPaging(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	stays := [][2]string{
		{"2024-05-01", "2024-05-03"}, // completed
		{"2024-06-09", "2024-06-12"}, // active
		{"2024-07-01", "2024-07-04"}, // upcoming
		{"2024-08-01", "2024-08-02"}, // upcoming
	}
	for i, s := range stays {
		_, err := repo.Create(ctx, newTestBooking(t, fmt.Sprintf("cs_%d", i), "u1", s[0], s[1]))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, newTestBooking(t, "cs_other", "u2", "2024-07-01", "2024-07-04"))
	require.NoError(t, err)

	today := mustDate(t, "2024-06-10")

	all, err := repo.ListByRenter(ctx, domain.RenterBookingsFilter{RenterID: "u1", Today: today})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "cs_3", all[0].PaymentSessionID, "newest first")

	upcoming := domain.StayUpcoming
	filter := domain.RenterBookingsFilter{RenterID: "u1", Status: &upcoming, Today: today, Limit: 1}
	page, err := repo.ListByRenter(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, page, 1)

	total, err := repo.CountByRenter(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	active := domain.StayActive
	activeList, err := repo.ListByRenter(ctx, domain.RenterBookingsFilter{RenterID: "u1", Status: &active, Today: today})
	require.NoError(t, err)
	require.Len(t, activeList, 1)
	assert.Equal(t, "cs_1", activeList[0].PaymentSessionID)

	stats, err := repo.StatsByRenter(ctx, "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalBookings)
	assert.Equal(t, int64(600000), stats.TotalSpentMinor)
	assert.Equal(t, 2, stats.UpcomingBookings)
	assert.Equal(t, 1, stats.ActiveBookings)
	assert.Equal(t, 1, stats.CompletedBookings)
}

func TestStatsByRenter_NoBookings(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	stats, err := repo.StatsByRenter(context.Background(), "nobody", time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.RenterStats{}, *stats)
}
