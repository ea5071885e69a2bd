package util

import (
	"path"
	"strings"
	"unicode"
)

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeFilename reduces an uploaded file name to a safe base name:
// directory parts are dropped and anything other than letters, digits,
// '.', '-' and '_' becomes '_'. An empty result yields fallback.
func SanitizeFilename(name, fallback string) string {
	name = path.Base(strings.ReplaceAll(SanitizeString(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return fallback
	}
	return name
}
