package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_EncodeDecodeRoundTrip(t *testing.T) {
	renter := "u1"
	requests := "late check-in"
	intent := BookingIntent{
		Amount:          1500,
		RenterID:        &renter,
		RenterEmail:     "a@b.c",
		ListingID:       "L1",
		StayWindow:      StayWindow{CheckIn: date("2024-06-01"), CheckOut: date("2024-06-05")},
		GuestCount:      2,
		SpecialRequests: &requests,
	}

	meta := intent.Metadata()
	assert.Equal(t, map[string]string{
		"userId":          "u1",
		"listingId":       "L1",
		"checkInDate":     "2024-06-01",
		"checkOutDate":    "2024-06-05",
		"guests":          "2",
		"specialRequests": "late check-in",
	}, meta)

	details, err := DecodeBookingDetails(meta)
	require.NoError(t, err)
	assert.Equal(t, intent.RenterID, details.RenterID)
	assert.Equal(t, intent.ListingID, details.ListingID)
	assert.Equal(t, intent.StayWindow, details.StayWindow)
	assert.Equal(t, intent.GuestCount, details.GuestCount)
	assert.Equal(t, intent.SpecialRequests, details.SpecialRequests)
}

func TestMetadata_GuestCheckoutOmitsOptionalKeys(t *testing.T) {
	intent := BookingIntent{
		ListingID:  "L1",
		StayWindow: StayWindow{CheckIn: date("2024-06-01"), CheckOut: date("2024-06-02")},
		GuestCount: 1,
	}

	meta := intent.Metadata()
	assert.NotContains(t, meta, MetadataUserID)
	assert.NotContains(t, meta, MetadataSpecialRequests)

	details, err := DecodeBookingDetails(meta)
	require.NoError(t, err)
	assert.Nil(t, details.RenterID)
	assert.Nil(t, details.SpecialRequests)
}

func TestDecodeBookingDetails_Failures(t *testing.T) {
	valid := func() map[string]string {
		return map[string]string{
			"listingId":    "L1",
			"checkInDate":  "2024-06-01",
			"checkOutDate": "2024-06-05",
			"guests":       "2",
		}
	}

	tests := []struct {
		name   string
		mutate func(m map[string]string)
	}{
		{"missing listing", func(m map[string]string) { delete(m, "listingId") }},
		{"blank listing", func(m map[string]string) { m["listingId"] = "  " }},
		{"missing check-in", func(m map[string]string) { delete(m, "checkInDate") }},
		{"bad check-out", func(m map[string]string) { m["checkOutDate"] = "06/05/2024" }},
		{"missing guests", func(m map[string]string) { delete(m, "guests") }},
		{"guests not a number", func(m map[string]string) { m["guests"] = "two" }},
		{"zero guests", func(m map[string]string) { m["guests"] = "0" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(m)

			_, err := DecodeBookingDetails(m)
			assert.ErrorIs(t, err, ErrInvalidMetadata)
		})
	}
}
