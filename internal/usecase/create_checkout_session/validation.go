package create_checkout_session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/pkg/money"
)

// validateRequest валидирует запрос и собирает из него намерение бронирования
func validateRequest(v *validator.Validate, req *Request) (domain.BookingIntent, error) {
	if err := v.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return domain.BookingIntent{}, fmt.Errorf("%w: %s", ErrInvalidInput, describeFieldErrors(fieldErrs))
		}
		return domain.BookingIntent{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// сумма меньше минорной единицы после округления превращается в ноль
	if money.ToMinor(req.Amount) <= 0 {
		return domain.BookingIntent{}, fmt.Errorf("%w: amount is below the smallest currency unit", ErrInvalidInput)
	}

	checkIn, _ := time.Parse(domain.DateFormat, req.CheckInDate)
	checkOut, _ := time.Parse(domain.DateFormat, req.CheckOutDate)
	window := domain.StayWindow{CheckIn: checkIn, CheckOut: checkOut}
	if !window.IsValid() {
		return domain.BookingIntent{}, fmt.Errorf("%w: checkIn=%s, checkOut=%s", ErrInvalidStayWindow, req.CheckInDate, req.CheckOutDate)
	}

	var specialRequests *string
	if req.SpecialRequests != nil {
		if trimmed := strings.TrimSpace(*req.SpecialRequests); trimmed != "" {
			specialRequests = &trimmed
		}
	}

	return domain.BookingIntent{
		Amount:          req.Amount,
		RenterID:        req.RenterID,
		RenterEmail:     strings.TrimSpace(req.RenterEmail),
		ListingID:       strings.TrimSpace(req.ListingID),
		StayWindow:      window,
		GuestCount:      req.GuestCount,
		SpecialRequests: specialRequests,
	}, nil
}

func describeFieldErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			parts = append(parts, fmt.Sprintf("%s must be a valid email address", fe.Field()))
		case "datetime":
			parts = append(parts, fmt.Sprintf("%s must be a %s date", fe.Field(), domain.DateFormat))
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
