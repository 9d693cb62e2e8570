package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/pkg/money"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPagination возвращается при некорректных параметрах страницы
	ErrInvalidPagination = errors.New("invalid pagination")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований арендатора
type GetUserBookingsRequest struct {
	RenterID string
	Status   *string // upcoming | active | completed
	Page     int
	Limit    int
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter(now time.Time) (domain.RenterBookingsFilter, error) {
	if r.Page < 1 || r.Page > domain.MaxPage {
		return domain.RenterBookingsFilter{}, fmt.Errorf("%w: page must be between 1 and %d", ErrInvalidPagination, domain.MaxPage)
	}
	if r.Limit < 1 || r.Limit > domain.MaxPageLimit {
		return domain.RenterBookingsFilter{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidPagination, domain.MaxPageLimit)
	}

	filter := domain.RenterBookingsFilter{
		RenterID: r.RenterID,
		Today:    domain.TruncateToDate(now),
		Limit:    r.Limit,
		Offset:   (r.Page - 1) * r.Limit,
	}

	if r.Status != nil {
		status, err := ToDomainStayStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64     `json:"id"`
	PaymentSessionID string    `json:"paymentSessionId"`
	RenterID         *string   `json:"userId,omitempty"`
	RenterEmail      string    `json:"email"`
	ListingID        string    `json:"listingId"`
	Amount           float64   `json:"amount"`
	Currency         string    `json:"currency"`
	CheckInDate      string    `json:"checkInDate"`  // "2024-06-01"
	CheckOutDate     string    `json:"checkOutDate"` // "2024-06-05"
	Nights           int       `json:"nights"`
	Guests           int       `json:"guests"`
	SpecialRequests  *string   `json:"specialRequests,omitempty"`
	ComputedStatus   string    `json:"computedStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PaginationResponse блок пагинации
type PaginationResponse struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalBookings int  `json:"totalBookings"`
	HasNextPage   bool `json:"hasNextPage"`
	HasPrevPage   bool `json:"hasPrevPage"`
	Limit         int  `json:"limit"`
}

// BookingListResponse страница бронирований
type BookingListResponse struct {
	Bookings   []BookingResponse  `json:"bookings"`
	Pagination PaginationResponse `json:"pagination"`
}

// StatsResponse сводка по бронированиям арендатора
type StatsResponse struct {
	TotalBookings     int     `json:"totalBookings"`
	TotalSpent        float64 `json:"totalSpent"`
	UpcomingBookings  int     `json:"upcomingBookings"`
	ActiveBookings    int     `json:"activeBookings"`
	CompletedBookings int     `json:"completedBookings"`
}

// Конвертеры

// FromDomainBooking конвертирует domain бронирование в response, вычисляя статус на дату now
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID,
		PaymentSessionID: b.PaymentSessionID,
		RenterID:         b.RenterID,
		RenterEmail:      b.RenterEmail,
		ListingID:        b.ListingID,
		Amount:           b.Amount(),
		Currency:         b.Currency,
		CheckInDate:      b.StayWindow.CheckIn.Format(domain.DateFormat),
		CheckOutDate:     b.StayWindow.CheckOut.Format(domain.DateFormat),
		Nights:           b.StayWindow.Nights(),
		Guests:           b.GuestCount,
		SpecialRequests:  b.SpecialRequests,
		ComputedStatus:   string(b.StayWindow.StatusAt(now)),
		CreatedAt:        b.CreatedAt,
	}
}

// FromDomainBookingPage собирает страницу с блоком пагинации
func FromDomainBookingPage(bookings []*domain.Booking, now time.Time, page, limit, total int) *BookingListResponse {
	items := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, *FromDomainBooking(b, now))
	}

	totalPages := (total + limit - 1) / limit

	return &BookingListResponse{
		Bookings: items,
		Pagination: PaginationResponse{
			CurrentPage:   page,
			TotalPages:    totalPages,
			TotalBookings: total,
			HasNextPage:   page < totalPages,
			HasPrevPage:   page > 1,
			Limit:         limit,
		},
	}
}

// FromDomainStats конвертирует агрегаты в response
func FromDomainStats(s *domain.RenterStats) *StatsResponse {
	return &StatsResponse{
		TotalBookings:     s.TotalBookings,
		TotalSpent:        money.FromMinor(s.TotalSpentMinor),
		UpcomingBookings:  s.UpcomingBookings,
		ActiveBookings:    s.ActiveBookings,
		CompletedBookings: s.CompletedBookings,
	}
}

// ToDomainStayStatus конвертирует строку в domain.StayStatus
func ToDomainStayStatus(s string) (domain.StayStatus, error) {
	status := domain.StayStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}
