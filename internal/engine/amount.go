package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a statement token like "1,234.56" or ".16" into its
// numeric value. Malformed input yields zero rather than an error: text
// extraction noise must never abort a parse, and callers treat zero as
// "no usable amount".
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
