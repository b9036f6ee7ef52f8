package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrency renders v as US dollars with two decimals and thousands
// separators, e.g. $1,234.56 or -$5.00.
func FormatCurrency(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := int64(math.Round(v * 100))
	whole := strconv.FormatInt(cents/100, 10)
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(whole), cents%100)
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

// Percent returns part as a percentage of total, 0 when total is 0
func Percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

// FormatPercent renders Percent(part, total) with one decimal, e.g. 12.5%
func FormatPercent(part, total float64) string {
	return fmt.Sprintf("%.1f%%", Percent(part, total))
}

// FormatRate renders a rate already expressed in percent, e.g. 14%
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64) + "%"
}
