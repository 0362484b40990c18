package selling

import (
	"math"
	"strconv"
)

// markupRate is the fixed markup applied on top of cost.
const markupRate = 0.075

// SellingPrice computes cost + 7.5% of cost + profit from the raw string
// fields on the product document. Non-numeric input is not rejected: it
// parses to NaN and the NaN propagates into the computed price, which is
// then recorded as-is in the ledger.
func SellingPrice(cost, profit string) float64 {
	c := parseDecimal(cost)
	p := parseDecimal(profit)
	return c + markupRate*c + p
}

func parseDecimal(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
