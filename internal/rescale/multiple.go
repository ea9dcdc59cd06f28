package rescale

import (
	"time"

	"github.com/shopspring/decimal"
)

// IsIntegerMultiple reports whether numerator is an exact integer multiple
// of denominator. Zero or negative values on either side never commute.
func IsIntegerMultiple(numerator, denominator time.Duration) bool {
	if numerator <= 0 || denominator <= 0 {
		return false
	}
	return seconds(numerator).Mod(seconds(denominator)).IsZero()
}

// seconds expresses d as an exact decimal number of seconds.
func seconds(d time.Duration) decimal.Decimal {
	return decimal.New(int64(d), -9)
}
