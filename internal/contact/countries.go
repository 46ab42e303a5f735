// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package contact

import "strings"

// Country describes how phone numbers are written in one country.
// Digit counts exclude the dial code.
type Country struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	DialCode  string `json:"dial_code"`
	MinDigits int    `json:"min_digits"`
	MaxDigits int    `json:"max_digits"`
}

// Countries is the selectable list of the contact form, in display order.
var Countries = []Country{
	{"US", "United States", "1", 10, 10},
	{"CA", "Canada", "1", 10, 10},
	{"GB", "United Kingdom", "44", 10, 10},
	{"IE", "Ireland", "353", 7, 9},
	{"DE", "Germany", "49", 6, 11},
	{"FR", "France", "33", 9, 9},
	{"ES", "Spain", "34", 9, 9},
	{"IT", "Italy", "39", 6, 11},
	{"PT", "Portugal", "351", 9, 9},
	{"NL", "Netherlands", "31", 9, 9},
	{"BE", "Belgium", "32", 8, 9},
	{"CH", "Switzerland", "41", 9, 9},
	{"AT", "Austria", "43", 4, 13},
	{"SE", "Sweden", "46", 7, 9},
	{"NO", "Norway", "47", 8, 8},
	{"DK", "Denmark", "45", 8, 8},
	{"FI", "Finland", "358", 5, 12},
	{"PL", "Poland", "48", 9, 9},
	{"RO", "Romania", "40", 9, 9},
	{"MD", "Moldova", "373", 8, 8},
	{"UA", "Ukraine", "380", 9, 9},
	{"GR", "Greece", "30", 10, 10},
	{"TR", "Turkey", "90", 10, 10},
	{"IL", "Israel", "972", 8, 9},
	{"AE", "United Arab Emirates", "971", 8, 9},
	{"IN", "India", "91", 10, 10},
	{"PK", "Pakistan", "92", 10, 10},
	{"CN", "China", "86", 11, 11},
	{"JP", "Japan", "81", 9, 10},
	{"KR", "South Korea", "82", 9, 10},
	{"SG", "Singapore", "65", 8, 8},
	{"AU", "Australia", "61", 9, 9},
	{"NZ", "New Zealand", "64", 8, 10},
	{"BR", "Brazil", "55", 10, 11},
	{"MX", "Mexico", "52", 10, 10},
	{"AR", "Argentina", "54", 10, 10},
	{"ZA", "South Africa", "27", 9, 9},
	{"NG", "Nigeria", "234", 10, 10},
	{"EG", "Egypt", "20", 10, 10},
}

var countryByCode = func() map[string]Country {
	m := make(map[string]Country, len(Countries))
	for _, c := range Countries {
		m[c.Code] = c
	}
	return m
}()

// LookupCountry finds a country by its ISO code, ignoring case.
func LookupCountry(code string) (Country, bool) {
	c, ok := countryByCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// ValidPhone reports whether phone is a plausible number for c. Spaces,
// dashes, dots and parentheses are ignored. A leading "+" must be followed
// by the country's dial code; a single leading trunk zero is dropped.
func (c Country) ValidPhone(phone string) bool {
	digits, intl, ok := phoneDigits(phone)
	if !ok {
		return false
	}
	if intl {
		if !strings.HasPrefix(digits, c.DialCode) {
			return false
		}
		digits = digits[len(c.DialCode):]
	} else if strings.HasPrefix(digits, "0") && len(digits) > c.MinDigits {
		digits = digits[1:]
	}
	return len(digits) >= c.MinDigits && len(digits) <= c.MaxDigits
}

// phoneDigits strips formatting from phone. It fails on letters and on a
// "+" anywhere but the front.
func phoneDigits(phone string) (digits string, intl bool, ok bool) {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		intl = true
		phone = phone[1:]
	}
	var b strings.Builder
	for _, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", false, false
		}
	}
	return b.String(), intl, b.Len() > 0
}
