package record_payment

import (
	"context"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
)

// EventVerifier проверяет подпись доставки и разбирает событие платёжного процессора
type EventVerifier interface {
	ConstructEvent(payload []byte, signatureHeader string) (*stripeclient.Event, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByPaymentSessionID(ctx context.Context, sessionID string) (*domain.Booking, error)
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// Notifier отправляет арендатору подтверждение бронирования
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking *domain.Booking) error
}

// MetricsRecorder интерфейс для учёта исходов обработки вебхуков
type MetricsRecorder interface {
	ObserveWebhookEvent(outcome string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
