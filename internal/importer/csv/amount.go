package csv

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses s according to the profile's decimal convention.
// European examples: "1.234,56", "-588,74". Plain examples: "1234.56", "-25".
func (p Profile) parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, " ", "")

	if p.DecimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	return decimal.NewFromString(clean)
}
