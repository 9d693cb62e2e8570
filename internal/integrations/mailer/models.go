package mailer

// Config настройки SMTP
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	FrontendURL string
}

// confirmationData данные шаблона письма о подтверждении бронирования
type confirmationData struct {
	BookingID       int64
	ListingID       string
	CheckIn         string
	CheckOut        string
	Nights          int
	Guests          int
	Amount          string
	Currency        string
	SpecialRequests string
	BookingsURL     string
}
