package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var nonCurrency = regexp.MustCompile(`[^\d.]`)

// ParseCurrency turns "$1,234.56" into 1234.56. Raw extracted values
// often carry markup or labels around the amount, so everything that
// is not a digit or a dot is discarded first. Unparseable input
// yields 0.
func ParseCurrency(s string) float64 {
	v, ok := ParseOptionalCurrency(s)
	if !ok {
		return 0
	}
	return v
}

// ParseOptionalCurrency is ParseCurrency with an explicit ok flag for
// callers that need to distinguish zero from absent.
func ParseOptionalCurrency(s string) (float64, bool) {
	s = nonCurrency.ReplaceAllString(s, "")
	// dots left over from surrounding text, e.g. "Est. $500"
	s = strings.Trim(s, ".")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
