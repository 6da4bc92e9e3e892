package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9 ]+`)

// NormalizeName lowercases, strips punctuation and collapses
// whitespace so names from different sources compare fairly.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// Similarity scores how alike two names are on a 0..1 scale.
func Similarity(a, b string) float64 {
	a = NormalizeName(a)
	b = NormalizeName(b)
	if a == "" || b == "" {
		return 0
	}
	return matchr.JaroWinkler(a, b, true)
}
