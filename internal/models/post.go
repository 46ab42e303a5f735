// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publication state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog article written in markdown.
type Post struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Body          string     `json:"body"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Tags          []string   `json:"tags"`
	Status        PostStatus `json:"status"`
	Featured      bool       `json:"featured"`
	Priority      int        `json:"priority"`
	ViewCount     int        `json:"view_count"`
	LikeCount     int        `json:"like_count"`
	ReadingTime   int        `json:"reading_time"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (p Post) CreatedTime() time.Time { return p.CreatedAt }

func (p Post) Engagement() int { return p.ViewCount + p.LikeCount }

func (p Post) PriorityValue() int { return p.Priority }

// IsPublished returns true if the post is visible on the public blog.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// HasTag reports whether the post carries tag, ignoring case.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
