package core

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount converts a decimal string such as "1950.5" into cents.
// At most two fractional digits are accepted; parsing is pure integer
// arithmetic so values like 0.1 never pick up binary rounding noise.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if whole == "" {
		whole = "0"
	}
	for frac != "" && len(frac) < 2 {
		frac += "0"
	}
	if frac == "" {
		frac = "00"
	}

	units, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents64, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	total := int64(units)*100 + int64(cents64)
	if neg {
		total = -total
	}
	return total, nil
}

// FormatAmount renders cents as a decimal string with two places, e.g. 195000 -> "1950.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
