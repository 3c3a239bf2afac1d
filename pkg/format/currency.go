// Package format renders monetary amounts for display.
package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a pound sign and thousands separators (e.g., "-£1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-£" + formatted
	}
	return "£" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Percent renders a percentage with two decimals (e.g., "5.44%").
func Percent(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
