package managed

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var centsPerDollar = decimal.NewFromInt(100)

// ParseAmount converts a decimal dollar string such as "12.34" into the cent
// amount the service works with. Sub-cent precision is rejected, not rounded.
func ParseAmount(s string) (int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	cents := d.Mul(centsPerDollar)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return int(cents.IntPart()), nil
}

// FormatAmount renders a cent amount as a dollar string with two decimal
// places.
func FormatAmount(cents int) string {
	return decimal.NewFromInt(int64(cents)).Div(centsPerDollar).StringFixed(2)
}
