// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// SiteSetting represents a single configuration key-value pair.
type SiteSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SiteSettings is a convenience map for accessing settings by key.
type SiteSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SiteSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Keys of the singleton settings records stored as JSON values.
const (
	SettingAbout   = "about"
	SettingContact = "contact_info"
)

// SocialLink is one profile link shown in the about and contact sections.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Experience is one entry of the about page timeline.
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description"`
}

// About is the site owner's profile, edited as a single record.
type About struct {
	Name        string       `json:"name"`
	Headline    string       `json:"headline"`
	Bio         string       `json:"bio"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	ResumeURL   string       `json:"resume_url,omitempty"`
	Location    string       `json:"location,omitempty"`
	YearsActive int          `json:"years_active"`
	Available   bool         `json:"available"`
	Experience  []Experience `json:"experience"`
	Socials     []SocialLink `json:"socials"`
}

// ContactInfo holds the public contact details.
type ContactInfo struct {
	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	Address      string       `json:"address,omitempty"`
	Availability string       `json:"availability,omitempty"`
	ResponseTime string       `json:"response_time,omitempty"`
	Socials      []SocialLink `json:"socials"`
}
