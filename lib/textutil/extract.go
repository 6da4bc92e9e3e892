package textutil

import (
	"strings"
)

// LabelRule describes how to pull one labeled value out of a blob of
// markup. Labels are tried in order, the first one present wins.
// StartDelim is searched from the label onward; an empty StartDelim
// means the value begins right after the label text. EndDelim is
// searched from there; when missing the rest of the input is taken.
type LabelRule struct {
	Labels     []string
	StartDelim string
	EndDelim   string
}

// ExtractLabeled applies rule to input starting at startIndex. The
// second return is the index just past the label match, -1 when no
// label was found.
func ExtractLabeled(input string, rule LabelRule, startIndex int) (string, int) {
	if startIndex < 0 || startIndex >= len(input) {
		return "", -1
	}
	lower := strings.ToLower(input)
	for _, label := range rule.Labels {
		idx := strings.Index(lower[startIndex:], strings.ToLower(label))
		if idx < 0 {
			continue
		}
		labelIdx := startIndex + idx
		value := ExtractDelimited(input, rule.StartDelim, rule.EndDelim, labelIdx+len(label))
		// a label that matched but produced nothing falls through to
		// the next label
		if value == "" {
			continue
		}
		return value, labelIdx + len(label)
	}
	return "", -1
}

// ExtractDelimited returns the text between startDelim and endDelim,
// searching from startIndex. An empty startDelim means the value
// begins at startIndex itself.
func ExtractDelimited(input, startDelim, endDelim string, startIndex int) string {
	if startIndex < 0 || startIndex > len(input) {
		return ""
	}
	valueStart := startIndex
	if startDelim != "" {
		idx := strings.Index(input[startIndex:], startDelim)
		if idx < 0 {
			return ""
		}
		valueStart = startIndex + idx + len(startDelim)
	}
	rest := input[valueStart:]
	if endDelim != "" {
		if end := strings.Index(rest, endDelim); end >= 0 {
			rest = rest[:end]
		}
	}
	return strings.TrimSpace(rest)
}
