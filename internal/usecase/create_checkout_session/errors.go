package create_checkout_session

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout_session: invalid input data")

	// ErrInvalidStayWindow возвращается, когда дата выезда не позже даты заезда
	ErrInvalidStayWindow = errors.New("create_checkout_session: check-out date must be after check-in date")

	// ErrUpstreamPayment возвращается, когда платёжный процессор не создал сессию
	ErrUpstreamPayment = errors.New("create_checkout_session: payment processor failed to create session")
)
