package geo

import (
	"strings"
	"unicode"
)

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false

	for _, r := range s {
		// letters and digits only, everything else collapses to one space
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// NormalizeRegion trims s and upper-cases it when it looks like a geo code
// ("us", "us-ca", "gb-eng"). Anything else is returned trimmed. The empty
// string means worldwide.
func NormalizeRegion(s string) string {
	s = strings.TrimSpace(s)
	if IsRegionCode(s) {
		return strings.ToUpper(s)
	}
	return s
}

// IsRegionCode reports whether s has the shape of a Trends geo code: two
// ASCII letters, optionally followed by "-" and one to three letters or
// digits.
func IsRegionCode(s string) bool {
	country, sub, hasSub := strings.Cut(s, "-")
	if len(country) != 2 || !asciiAlnum(country, true) {
		return false
	}
	if !hasSub {
		return true
	}
	return len(sub) >= 1 && len(sub) <= 3 && asciiAlnum(sub, false)
}

func asciiAlnum(s string, lettersOnly bool) bool {
	for i := 0; i < len(s); i++ {
		c := s[i] | 0x20
		isLetter := c >= 'a' && c <= 'z'
		isDigit := s[i] >= '0' && s[i] <= '9'
		if !isLetter && (lettersOnly || !isDigit) {
			return false
		}
	}
	return true
}
