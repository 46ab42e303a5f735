// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaPurpose records what an uploaded image is used for.
type MediaPurpose string

const (
	PurposeSkillIcon MediaPurpose = "skill-icon"
	PurposeCover     MediaPurpose = "cover"
	PurposeGallery   MediaPurpose = "gallery"
	PurposeCampaign  MediaPurpose = "campaign"
	PurposeAvatar    MediaPurpose = "avatar"
)

// Valid reports whether p is a known purpose.
func (p MediaPurpose) Valid() bool {
	switch p {
	case PurposeSkillIcon, PurposeCover, PurposeGallery, PurposeCampaign, PurposeAvatar:
		return true
	}
	return false
}

// Media is an image uploaded to object storage. Metadata is stored in
// PostgreSQL; the file itself lives in the bucket.
type Media struct {
	ID           uuid.UUID    `json:"id"`
	Filename     string       `json:"filename"`
	OriginalName string       `json:"original_name"`
	ContentType  string       `json:"content_type"`
	SizeBytes    int64        `json:"size_bytes"`
	Purpose      MediaPurpose `json:"purpose"`
	S3Key        string       `json:"s3_key"`
	ThumbS3Key   *string      `json:"thumb_s3_key,omitempty"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	UploaderID   uuid.UUID    `json:"uploader_id"`
	CreatedAt    time.Time    `json:"created_at"`

	// Filled in by the upload handler from the storage public URL.
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url,omitempty"`
}

// HumanSize returns a human-readable file size string.
func (m *Media) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}
