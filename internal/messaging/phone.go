package messaging

import "strings"

const DefaultCountryCode = "234"

// PhoneNormalizer turns local numbers into E.164 for one home country.
type PhoneNormalizer struct {
	CountryCode string
}

func (n PhoneNormalizer) code() string {
	if n.CountryCode == "" {
		return DefaultCountryCode
	}
	return strings.TrimPrefix(n.CountryCode, "+")
}

// Normalize strips spaces and punctuation, then:
//
//	+2348012345678 -> unchanged
//	08012345678    -> +2348012345678 (11 digits with trunk 0)
//	2348012345678  -> +2348012345678
//	anything else  -> "+" prefixed
func (n PhoneNormalizer) Normalize(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, raw)

	switch {
	case strings.HasPrefix(cleaned, "+"):
		return cleaned
	case len(cleaned) == 11 && cleaned[0] == '0':
		return "+" + n.code() + cleaned[1:]
	default:
		return "+" + cleaned
	}
}
