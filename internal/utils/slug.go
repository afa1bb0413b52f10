package utils

import (
	"strings"
	"unicode"
)

// Slugify converts an arbitrary title into a URL slug: lowercased, with
// every run of non-alphanumeric characters collapsed into a single hyphen
// and no leading or trailing hyphens. Applying it twice yields the same
// result.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))

	var b strings.Builder
	b.Grow(len(value))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
