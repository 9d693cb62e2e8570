package domain

import (
	"time"

	"github.com/m04kA/StayFinder-BookingService/pkg/money"
)

// StayStatus computed position of a stay relative to the current date
type StayStatus string

const (
	StayUpcoming  StayStatus = "upcoming"
	StayActive    StayStatus = "active"
	StayCompleted StayStatus = "completed"
)

// IsValid returns true if the status is one of the known values
func (s StayStatus) IsValid() bool {
	switch s {
	case StayUpcoming, StayActive, StayCompleted:
		return true
	}
	return false
}

// StayWindow is a check-in/check-out pair of calendar dates
type StayWindow struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// IsValid returns true if check-out is strictly after check-in
func (w StayWindow) IsValid() bool {
	return w.CheckOut.After(w.CheckIn)
}

// Nights returns the number of nights in the window
func (w StayWindow) Nights() int {
	return int(w.CheckOut.Sub(w.CheckIn).Hours() / 24)
}

// StatusAt вычисляет статус проживания относительно даты today (учитывается только дата)
func (w StayWindow) StatusAt(today time.Time) StayStatus {
	day := TruncateToDate(today)
	switch {
	case day.Before(TruncateToDate(w.CheckIn)):
		return StayUpcoming
	case day.After(TruncateToDate(w.CheckOut)):
		return StayCompleted
	default:
		return StayActive
	}
}

// BookingIntent is a renter's request to book a listing, before payment
type BookingIntent struct {
	Amount          float64
	RenterID        *string // nil для гостевого бронирования
	RenterEmail     string
	ListingID       string
	StayWindow      StayWindow
	GuestCount      int
	SpecialRequests *string
}

// Booking represents a paid stay reservation recorded from a completed payment session
type Booking struct {
	ID               int64
	PaymentSessionID string // ключ идемпотентности, уникален
	RenterID         *string
	RenterEmail      string
	ListingID        string
	AmountMinor      int64
	Currency         string
	StayWindow       StayWindow
	GuestCount       int
	SpecialRequests  *string
	CreatedAt        time.Time
}

// Amount returns the paid amount in display units
func (b *Booking) Amount() float64 {
	return money.FromMinor(b.AmountMinor)
}

// IsOwnedBy returns true if the booking belongs to the renter
func (b *Booking) IsOwnedBy(renterID string) bool {
	return b.RenterID != nil && *b.RenterID == renterID
}

// RenterBookingsFilter фильтр списка бронирований арендатора
type RenterBookingsFilter struct {
	RenterID string
	Status   *StayStatus // nil - все бронирования
	Today    time.Time   // дата, относительно которой считается статус
	Limit    int
	Offset   int
}

// RenterStats aggregated booking figures for one renter
type RenterStats struct {
	TotalBookings     int
	TotalSpentMinor   int64
	UpcomingBookings  int
	ActiveBookings    int
	CompletedBookings int
}

// TruncateToDate отбрасывает время суток, сохраняя календарную дату в UTC
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
