package normalize

import (
	"regexp"
	"strings"
)

var reInteriorWhitespace = regexp.MustCompile(`\s+`)

// NormalizeText collapses interior whitespace runs to a single space and
// trims the result, preserving all other Unicode content untouched.
func NormalizeText(s string) string {
	return strings.TrimSpace(reInteriorWhitespace.ReplaceAllString(s, " "))
}
