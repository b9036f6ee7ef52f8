package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a user-entered or backend currency value, ignoring "$",
// thousands separators and surrounding spaces.
func ParseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount: %q", s)
	}
	return v, nil
}

// ParsePositiveAmount parses s and requires a value greater than zero
func ParsePositiveAmount(s string) (float64, error) {
	v, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("amount must be positive: %.2f", v)
	}
	return v, nil
}

// Blank reports whether any of values is empty after trimming
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// CleanText trims free text typed into a form and drops control characters,
// keeping line breaks and tabs.
func CleanText(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return -1
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
