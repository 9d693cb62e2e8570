package domain

import "math"

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxSpecialRequestsLength = 500
	MaxListingIDLength       = 64
)

// Pagination defaults
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	// MaxPage держит OFFSET в пределах int32 при любом допустимом limit
	MaxPage = math.MaxInt32 / MaxPageLimit
)

// Checkout defaults
const (
	DefaultCurrency    = "inr"
	DefaultProductName = "StayFinder Booking"
)
