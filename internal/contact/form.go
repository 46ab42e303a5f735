// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contact validates submissions of the public contact form and
// verifies their CAPTCHA token.
package contact

import (
	"sort"
	"strings"

	"folio/internal/models"
	"folio/internal/newsletter"
)

// Length limits of the form fields.
const (
	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

// Form is a contact form submission as posted by the browser.
type Form struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Country      string `json:"country"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	CaptchaToken string `json:"captcha_token"`
	Subscribe    bool   `json:"subscribe"`
}

// ValidationErrors maps form fields to the message shown next to them.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("invalid contact form:")
	for _, k := range keys {
		b.WriteString(" " + k + " (" + v[k] + ")")
	}
	return b.String()
}

// Validate checks the submission without any network call. The captcha
// token is only required to be present here; Verifier checks it.
func (f Form) Validate(requireCaptcha bool) error {
	errs := ValidationErrors{}

	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case len(name) > MaxNameLength:
		errs["name"] = "Name is too long"
	}

	if strings.TrimSpace(f.Email) == "" {
		errs["email"] = "Email is required"
	} else if _, err := newsletter.NormalizeEmail(f.Email); err != nil {
		errs["email"] = "Enter a valid email address"
	}

	if phone := strings.TrimSpace(f.Phone); phone != "" {
		country, ok := LookupCountry(f.Country)
		switch {
		case !ok:
			errs["country"] = "Select the country of the phone number"
		case !country.ValidPhone(phone):
			errs["phone"] = "Enter a valid phone number for " + country.Name
		}
	}

	if len(strings.TrimSpace(f.Subject)) > MaxSubjectLength {
		errs["subject"] = "Subject is too long"
	}

	msg := strings.TrimSpace(f.Message)
	switch {
	case msg == "":
		errs["message"] = "Message is required"
	case len(msg) > MaxMessageLength:
		errs["message"] = "Message is too long"
	}

	if requireCaptcha && strings.TrimSpace(f.CaptchaToken) == "" {
		errs["captcha"] = "Please complete the CAPTCHA"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToMessage converts a validated form into the stored record.
func (f Form) ToMessage() *models.ContactMessage {
	m := &models.ContactMessage{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.ToLower(strings.TrimSpace(f.Email)),
		Subject: strings.TrimSpace(f.Subject),
		Body:    strings.TrimSpace(f.Message),
	}
	if p := strings.TrimSpace(f.Phone); p != "" {
		m.Phone = &p
		if c, ok := LookupCountry(f.Country); ok {
			m.Country = &c.Code
		}
	}
	return m
}
