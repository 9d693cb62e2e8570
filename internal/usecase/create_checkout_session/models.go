package create_checkout_session

// Результаты для метрики создания сессий
const (
	ResultCreated  = "created"
	ResultRejected = "invalid_input"
	ResultFailed   = "upstream_error"
)

// Request запрос на создание платёжной сессии
type Request struct {
	Amount          float64 `validate:"gt=0"`
	RenterID        *string `validate:"omitempty,max=128"`
	RenterEmail     string  `validate:"required,email"`
	ListingID       string  `validate:"required,max=64"`
	CheckInDate     string  `validate:"required,datetime=2006-01-02"`
	CheckOutDate    string  `validate:"required,datetime=2006-01-02"`
	GuestCount      int     `validate:"gt=0"`
	SpecialRequests *string `validate:"omitempty,max=500"`
}

// Response созданная сессия
type Response struct {
	SessionID string
	URL       string
}

// Settings параметры hosted checkout, общие для всех сессий
type Settings struct {
	Currency    string
	ProductName string
	SuccessURL  string
	CancelURL   string
}
