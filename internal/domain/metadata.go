package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/StayFinder-BookingService/pkg/ptr"
)

// Ключи метаданных платёжной сессии. Все значения передаются строками.
const (
	MetadataUserID          = "userId"
	MetadataListingID       = "listingId"
	MetadataCheckInDate     = "checkInDate"
	MetadataCheckOutDate    = "checkOutDate"
	MetadataGuests          = "guests"
	MetadataSpecialRequests = "specialRequests"
)

// ErrInvalidMetadata метаданные сессии не соответствуют схеме
var ErrInvalidMetadata = errors.New("domain: invalid booking metadata")

// BookingDetails typed view of the metadata bag carried by a payment session
type BookingDetails struct {
	RenterID        *string
	ListingID       string
	StayWindow      StayWindow
	GuestCount      int
	SpecialRequests *string
}

// Metadata кодирует всё, кроме суммы и email, в строковые метаданные сессии.
// Пустые необязательные поля не передаются.
func (i BookingIntent) Metadata() map[string]string {
	meta := map[string]string{
		MetadataListingID:    i.ListingID,
		MetadataCheckInDate:  i.StayWindow.CheckIn.Format(DateFormat),
		MetadataCheckOutDate: i.StayWindow.CheckOut.Format(DateFormat),
		MetadataGuests:       strconv.Itoa(i.GuestCount),
	}
	if i.RenterID != nil && *i.RenterID != "" {
		meta[MetadataUserID] = *i.RenterID
	}
	if i.SpecialRequests != nil && *i.SpecialRequests != "" {
		meta[MetadataSpecialRequests] = *i.SpecialRequests
	}
	return meta
}

// DecodeBookingDetails разбирает метаданные сессии по схеме.
// Любое поле, которое не удалось разобрать, приводит к ошибке ErrInvalidMetadata.
func DecodeBookingDetails(meta map[string]string) (BookingDetails, error) {
	var details BookingDetails

	details.ListingID = strings.TrimSpace(meta[MetadataListingID])
	if details.ListingID == "" {
		return BookingDetails{}, fmt.Errorf("%w: %s is missing", ErrInvalidMetadata, MetadataListingID)
	}

	checkIn, err := parseMetadataDate(meta, MetadataCheckInDate)
	if err != nil {
		return BookingDetails{}, err
	}
	checkOut, err := parseMetadataDate(meta, MetadataCheckOutDate)
	if err != nil {
		return BookingDetails{}, err
	}
	details.StayWindow = StayWindow{CheckIn: checkIn, CheckOut: checkOut}

	rawGuests, ok := meta[MetadataGuests]
	if !ok {
		return BookingDetails{}, fmt.Errorf("%w: %s is missing", ErrInvalidMetadata, MetadataGuests)
	}
	guests, err := strconv.Atoi(strings.TrimSpace(rawGuests))
	if err != nil || guests <= 0 {
		return BookingDetails{}, fmt.Errorf("%w: %s %q is not a positive integer", ErrInvalidMetadata, MetadataGuests, rawGuests)
	}
	details.GuestCount = guests

	details.RenterID = ptr.NonEmpty(meta[MetadataUserID])
	details.SpecialRequests = ptr.NonEmpty(meta[MetadataSpecialRequests])

	return details, nil
}

func parseMetadataDate(meta map[string]string, key string) (time.Time, error) {
	raw, ok := meta[key]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s is missing", ErrInvalidMetadata, key)
	}
	date, err := time.Parse(DateFormat, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q is not a %s date", ErrInvalidMetadata, key, raw, DateFormat)
	}
	return date, nil
}
