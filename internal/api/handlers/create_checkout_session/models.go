package create_checkout_session

import (
	createCheckoutSession "github.com/m04kA/StayFinder-BookingService/internal/usecase/create_checkout_session"
)

// CreateCheckoutSessionRequest HTTP запрос на создание платёжной сессии
type CreateCheckoutSessionRequest struct {
	Amount          float64 `json:"amount"`
	Email           string  `json:"email"`
	ListingID       string  `json:"listingId"`
	CheckInDate     string  `json:"checkInDate"`  // "2024-06-01"
	CheckOutDate    string  `json:"checkOutDate"` // "2024-06-05"
	Guests          int     `json:"guests"`
	SpecialRequests *string `json:"specialRequests,omitempty"`
}

// CreateCheckoutSessionResponse HTTP ответ с идентификатором сессии
type CreateCheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// renterID берётся из токена, nil - гостевое бронирование.
func (r *CreateCheckoutSessionRequest) ToUseCaseRequest(renterID *string) *createCheckoutSession.Request {
	return &createCheckoutSession.Request{
		Amount:          r.Amount,
		RenterID:        renterID,
		RenterEmail:     r.Email,
		ListingID:       r.ListingID,
		CheckInDate:     r.CheckInDate,
		CheckOutDate:    r.CheckOutDate,
		GuestCount:      r.Guests,
		SpecialRequests: r.SpecialRequests,
	}
}

// FromUseCaseResponse конвертирует результат use case в HTTP ответ
func FromUseCaseResponse(resp *createCheckoutSession.Response) *CreateCheckoutSessionResponse {
	return &CreateCheckoutSessionResponse{ID: resp.SessionID, URL: resp.URL}
}
