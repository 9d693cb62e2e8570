package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"whole", 1500, 150000},
		{"two decimals", 19.99, 1999},
		{"one paisa", 0.01, 1},
		{"float noise", 0.1 + 0.2, 30},
		{"rounds half away from zero", 0.125, 13},
		{"large", 1234567.89, 123456789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMinor(tt.amount))
		})
	}
}

func TestRoundTripIsExactForTwoDecimals(t *testing.T) {
	for _, amount := range []float64{1500, 19.99, 0.01, 999.5, 4321.07, 1234567.89} {
		assert.Equal(t, amount, FromMinor(ToMinor(amount)), "amount %v", amount)
	}
}
