package model

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultPhoneCountry is assumed when a number carries no prefix.
const DefaultPhoneCountry = "+33"

// PhoneCountries are the dialing prefixes offered on the profile form.
var PhoneCountries = []string{"+33", "+32", "+41", "+39", "+34", "+44", "+49", "+1"}

var namePartSeparators = regexp.MustCompile(`[-\s']+`)

// ShortName derives the initials-based label shown on planning grids from
// a first name: "Jean-Pierre" becomes "J-P.", "Anne Sophie" becomes
// "A-S.".
func ShortName(firstName string) string {
	parts := namePartSeparators.Split(strings.TrimSpace(firstName), -1)

	initials := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		initials = append(initials, strings.ToUpper(string([]rune(part)[0])))
	}
	if len(initials) == 0 {
		return ""
	}
	return strings.Join(initials, "-") + "."
}

// SplitPhone separates a stored phone value into dialing prefix and
// national number. Values without a prefix default to France.
func SplitPhone(phone string) (country, number string) {
	value := strings.TrimSpace(phone)
	if value == "" {
		return DefaultPhoneCountry, ""
	}
	if strings.HasPrefix(value, "+") {
		pieces := strings.Fields(value)
		if len(pieces) >= 2 {
			return pieces[0], strings.Join(pieces[1:], "")
		}
	}
	return DefaultPhoneCountry, strings.ReplaceAll(value, " ", "")
}

// NormalizePhoneNumber strips every whitespace character from a number.
func NormalizePhoneNumber(number string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, number)
}

// FormatPhone renders a prefix and number back into the stored form.
func FormatPhone(country, number string) string {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultPhoneCountry
	}
	number = NormalizePhoneNumber(number)
	return strings.TrimSpace(country + " " + number)
}
