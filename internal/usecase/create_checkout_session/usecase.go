package create_checkout_session

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
	"github.com/m04kA/StayFinder-BookingService/pkg/money"
)

// UseCase use case для создания платёжной сессии.
// Локально ничего не сохраняет: бронирование появится только после вебхука об оплате.
type UseCase struct {
	gateway  PaymentGateway
	settings Settings
	validate *validator.Validate
	metrics  MetricsRecorder
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(gateway PaymentGateway, settings Settings, metrics MetricsRecorder, logger Logger) *UseCase {
	if settings.Currency == "" {
		settings.Currency = domain.DefaultCurrency
	}
	if settings.ProductName == "" {
		settings.ProductName = domain.DefaultProductName
	}

	return &UseCase{
		gateway:  gateway,
		settings: settings,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
	}
}

// Execute выполняет use case создания платёжной сессии
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCheckoutSession: listing=%s, checkIn=%s, checkOut=%s, guests=%d, guest_checkout=%t",
		req.ListingID, req.CheckInDate, req.CheckOutDate, req.GuestCount, req.RenterID == nil)

	// 1. Валидация входных данных
	intent, err := validateRequest(uc.validate, req)
	if err != nil {
		uc.logger.Warn("CreateCheckoutSession: validation failed: %v", err)
		uc.metrics.ObserveCheckoutSession(ResultRejected)
		return nil, err
	}

	// 2. Сумма уходит в процессор в минорных единицах, остальное - в метаданных сессии
	sessionReq := &stripeclient.CheckoutSessionRequest{
		AmountMinor:   money.ToMinor(intent.Amount),
		Currency:      uc.settings.Currency,
		ProductName:   uc.settings.ProductName,
		CustomerEmail: intent.RenterEmail,
		SuccessURL:    uc.settings.SuccessURL,
		CancelURL:     uc.settings.CancelURL,
		Metadata:      intent.Metadata(),
	}

	// 3. Создаём сессию
	session, err := uc.gateway.CreateCheckoutSession(ctx, sessionReq)
	if err != nil {
		uc.logger.Error("CreateCheckoutSession: payment processor error for listing=%s: %v", intent.ListingID, err)
		uc.metrics.ObserveCheckoutSession(ResultFailed)
		return nil, fmt.Errorf("%w: %v", ErrUpstreamPayment, err)
	}

	uc.metrics.ObserveCheckoutSession(ResultCreated)
	uc.logger.Info("CreateCheckoutSession: session=%s created, amount_minor=%d %s",
		session.ID, sessionReq.AmountMinor, sessionReq.Currency)

	return &Response{SessionID: session.ID, URL: session.URL}, nil
}
