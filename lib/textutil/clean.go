package textutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	markupNoise = regexp.MustCompile(`(tabindex="\d+")|(<[^>]+>)|(@[A-Z_]+(?:">| |")?)|(@[A-Z]@?)`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// Clean strips html tags, entity escapes and the auction site's @-code
// markup artifacts from a raw extracted value.
func Clean(s string) string {
	s = html.UnescapeString(s)
	s = markupNoise.ReplaceAllString(s, " ")
	s = strings.NewReplacer(`"`, "", "<", "", ">", "").Replace(s)
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
