package sqlstore

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/apperr"
)

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// toMinor converts an amount to integer cents, rounding half away from zero.
// Amounts whose cents do not fit an int64 column are rejected.
func toMinor(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2).Round(0)
	if cents.LessThan(minMinor) || cents.GreaterThan(maxMinor) {
		return 0, apperr.BadRequest("amount %s is out of range", d)
	}
	return cents.IntPart(), nil
}

// fromMinor converts integer cents back to an amount.
func fromMinor(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}
