// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"folio/internal/models"
)

// CampaignStore manages newsletter campaigns. Delivery counters are owned
// by the sending pipeline and never written here.
type CampaignStore struct {
	db *sql.DB
}

// NewCampaignStore returns a new CampaignStore.
func NewCampaignStore(db *sql.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

const campaignColumns = `id, name, subject, preview_text, body, status, featured_image_url,
	scheduled_at, sent_at, total_recipients, total_opened, total_clicked, total_bounced,
	total_complained, total_unsubscribed, created_at, updated_at`

func scanCampaign(row scanner) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.Subject, &c.PreviewText, &c.Body, &c.Status, &c.FeaturedImageURL,
		&c.ScheduledAt, &c.SentAt, &c.TotalRecipients, &c.TotalOpened, &c.TotalClicked,
		&c.TotalBounced, &c.TotalComplained, &c.TotalUnsubscribed, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all campaigns, newest first.
func (s *CampaignStore) List(ctx context.Context) ([]models.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+campaignColumns+` FROM newsletter_campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	return collect(rows, scanCampaign)
}

// FindByID retrieves a campaign. Returns nil if not found.
func (s *CampaignStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	c, err := scanCampaign(s.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM newsletter_campaigns WHERE id = $1`, id))
	return notFound(c, err, "find campaign by id")
}

// Create inserts a new campaign.
func (s *CampaignStore) Create(ctx context.Context, c *models.Campaign) (*models.Campaign, error) {
	out, err := scanCampaign(s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_campaigns (name, subject, preview_text, body, status, featured_image_url, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+campaignColumns,
		c.Name, c.Subject, c.PreviewText, c.Body, c.Status, c.FeaturedImageURL, c.ScheduledAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return out, nil
}

// Update modifies the editable fields of a campaign.
func (s *CampaignStore) Update(ctx context.Context, c *models.Campaign) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE newsletter_campaigns SET
			name = $1, subject = $2, preview_text = $3, body = $4, status = $5,
			featured_image_url = $6, scheduled_at = $7, updated_at = NOW()
		WHERE id = $8
	`, c.Name, c.Subject, c.PreviewText, c.Body, c.Status, c.FeaturedImageURL, c.ScheduledAt, c.ID)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	return nil
}

// Delete removes a campaign by ID.
func (s *CampaignStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM newsletter_campaigns WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}
