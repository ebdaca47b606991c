package chat

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxMessageChars bounds a user-authored message after trimming.
const MaxMessageChars = 4000

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize trims the input and collapses internal whitespace runs to single
// spaces. Casing, punctuation and Unicode content are left alone. Idempotent.
func Sanitize(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

// IsValidMessage reports whether the trimmed input is between 1 and
// MaxMessageChars characters long.
func IsValidMessage(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= 1 && n <= MaxMessageChars
}
