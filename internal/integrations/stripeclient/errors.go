package stripeclient

import "errors"

var (
	// ErrInvalidSignature возвращается, если подпись вебхука не прошла проверку
	ErrInvalidSignature = errors.New("stripe client: invalid webhook signature")

	// ErrMalformedEvent возвращается, если подписанное тело не является событием Stripe
	ErrMalformedEvent = errors.New("stripe client: malformed webhook event")

	// ErrRejected возвращается, когда Stripe отклонил запрос (ошибка 4xx)
	ErrRejected = errors.New("stripe client: request rejected")

	// ErrUnavailable возвращается при сетевых ошибках, 5xx или открытом circuit breaker
	ErrUnavailable = errors.New("stripe client: service unavailable")
)
