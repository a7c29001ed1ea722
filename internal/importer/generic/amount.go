package generic

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a statement amount that may use either a decimal point
// ("1,234.56") or a decimal comma ("1.234,56"). Whichever separator appears
// last is taken as the decimal separator; the other is stripped as a
// thousands grouping.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	lastComma := strings.LastIndex(clean, ",")
	lastDot := strings.LastIndex(clean, ".")

	if lastComma > lastDot {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
