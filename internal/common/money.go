package common

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount as "$" followed by the thousands-grouped
// value with exactly two decimals, e.g. "$1,234.56" or "$-980.00".
// The output never varies with locale.
func FormatMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "$n/a"
	}

	s := decimal.NewFromFloat(v).Round(2).StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")

	return "$" + sign + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a percentage with two decimals, e.g. "8.00%".
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
