package bookings

import (
	"context"
	"time"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByRenter(ctx context.Context, filter domain.RenterBookingsFilter) ([]*domain.Booking, error)
	CountByRenter(ctx context.Context, filter domain.RenterBookingsFilter) (int, error)
	StatsByRenter(ctx context.Context, renterID string, today time.Time) (*domain.RenterStats, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
