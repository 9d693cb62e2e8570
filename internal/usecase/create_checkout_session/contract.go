package create_checkout_session

import (
	"context"

	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
)

// PaymentGateway интерфейс клиента платёжного процессора
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req *stripeclient.CheckoutSessionRequest) (*stripeclient.CheckoutSession, error)
}

// MetricsRecorder интерфейс для учёта созданных сессий
type MetricsRecorder interface {
	ObserveCheckoutSession(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
