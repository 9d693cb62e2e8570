package record_payment

import (
	"fmt"
	"strings"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/internal/integrations/stripeclient"
)

// materializeBooking собирает бронирование из оплаченной сессии.
// Сумма берётся из amount_total как есть (минорные единицы), детали - из метаданных.
func materializeBooking(session *stripeclient.CompletedSession) (*domain.Booking, error) {
	details, err := domain.DecodeBookingDetails(session.Metadata)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(session.CustomerEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: customer email is missing", domain.ErrInvalidMetadata)
	}

	if session.AmountTotal < 0 {
		return nil, fmt.Errorf("%w: negative amount_total %d", domain.ErrInvalidMetadata, session.AmountTotal)
	}

	currency := strings.ToLower(session.Currency)
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	return &domain.Booking{
		PaymentSessionID: session.ID,
		RenterID:         details.RenterID,
		RenterEmail:      email,
		ListingID:        details.ListingID,
		AmountMinor:      session.AmountTotal,
		Currency:         currency,
		StayWindow:       details.StayWindow,
		GuestCount:       details.GuestCount,
		SpecialRequests:  details.SpecialRequests,
	}, nil
}
