package record_payment

import "errors"

var (
	// ErrInvalidSignature возвращается, если доставка не прошла проверку подписи
	ErrInvalidSignature = errors.New("record_payment: invalid webhook signature")

	// ErrStoreUnavailable возвращается при ошибке хранилища, если такие ошибки не подтверждаются процессору
	ErrStoreUnavailable = errors.New("record_payment: booking store unavailable")
)
