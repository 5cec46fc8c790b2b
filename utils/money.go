package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount as a dollar string with comma-grouped
// thousands, e.g. 5000 -> "$5,000" and 5000.50 -> "$5,000.50".
func FormatUSD(amount decimal.Decimal) string {
	// round to cents up front so a carry propagates into the whole part,
	// e.g. 5000.995 -> 5001.00
	amount = amount.Round(2)
	neg := amount.IsNegative()
	abs := amount.Abs()

	whole := abs.Truncate(0)
	frac := abs.Sub(whole)

	digits := whole.String()
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ",")
	if !frac.IsZero() {
		out += frac.StringFixed(2)[1:] // ".xx" without the leading zero
	}
	if neg {
		out = "-" + out
	}
	return out
}
