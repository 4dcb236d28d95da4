package shared

import (
	"strings"
	"unicode"
)

// ValidText reports whether text contains at least one non-whitespace character.
func ValidText(text string) bool {
	return strings.TrimSpace(text) != ""
}

// ValidEntry reports whether both fields of a catalog entry are usable text.
func ValidEntry(name, artist string) bool {
	return ValidText(name) && ValidText(artist)
}

// Alphanumeric reports whether s is non-empty and consists solely of letters and digits.
func Alphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
