package booking

import "errors"

// uniqueViolationCode код ошибки PostgreSQL unique_violation
const uniqueViolationCode = "23505"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrDuplicatePaymentSession возвращается, когда бронирование для платёжной сессии уже записано
	ErrDuplicatePaymentSession = errors.New("booking.repository: booking for payment session already exists")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
