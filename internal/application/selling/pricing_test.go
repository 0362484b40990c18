package selling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSellingPrice(t *testing.T) {
	tests := []struct {
		name   string
		cost   string
		profit string
		want   float64
	}{
		{name: "cost plus markup plus profit", cost: "100", profit: "20", want: 127.5},
		{name: "zero profit", cost: "40", profit: "0", want: 43},
		{name: "fractional cost", cost: "19.99", profit: "5", want: 19.99 + 0.075*19.99 + 5},
		{name: "zero cost", cost: "0", profit: "12", want: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SellingPrice(tt.cost, tt.profit), 1e-9)
		})
	}
}

// Non-numeric cost or profit strings are not rejected; the price comes
// out NaN and flows through unchanged.
func TestSellingPriceNonNumeric(t *testing.T) {
	assert.True(t, math.IsNaN(SellingPrice("free", "20")))
	assert.True(t, math.IsNaN(SellingPrice("100", "lots")))
	assert.True(t, math.IsNaN(SellingPrice("", "")))
}
