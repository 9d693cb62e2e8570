package stripeclient

const (
	// EventCheckoutSessionCompleted сессия завершена покупателем
	EventCheckoutSessionCompleted = "checkout.session.completed"

	// EventCheckoutSessionAsyncPaymentSucceeded отложенная оплата сессии прошла
	EventCheckoutSessionAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"

	// PaymentStatusPaid деньги по сессии получены
	PaymentStatusPaid = "paid"
)

// CheckoutSessionRequest параметры hosted checkout с одной позицией
type CheckoutSessionRequest struct {
	AmountMinor   int64
	Currency      string
	ProductName   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession созданная платёжная сессия
type CheckoutSession struct {
	ID  string
	URL string
}

// Event проверенное событие вебхука
type Event struct {
	ID   string
	Type string
	// Session заполняется для checkout.session.completed и checkout.session.async_payment_succeeded
	Session *CompletedSession
}

// CompletedSession данные завершённой сессии, нужные для записи бронирования
type CompletedSession struct {
	ID            string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	PaymentStatus string
	Metadata      map[string]string
}

// IsPaid сообщает, получены ли деньги по сессии
func (s *CompletedSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}
