package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeGuestName collapses whitespace in a guest display name.
func NormalizeGuestName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeAmenity lowercases an amenity label so the set stays deduplicated.
func NormalizeAmenity(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
