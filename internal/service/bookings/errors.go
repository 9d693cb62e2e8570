package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено или принадлежит другому арендатору
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
