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

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, filename, original_name, content_type, size_bytes,
	purpose, s3_key, thumb_s3_key, width, height, uploader_id, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(row scanner) (*models.Media, error) {
	var m models.Media
	var uploader uuid.NullUUID
	err := row.Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.Purpose, &m.S3Key, &m.ThumbS3Key, &m.Width, &m.Height, &uploader, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.UploaderID = uploader.UUID
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	out, err := scanMedia(s.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, content_type, size_bytes,
			purpose, s3_key, thumb_s3_key, width, height, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+mediaColumns,
		m.Filename, m.OriginalName, m.ContentType, m.SizeBytes,
		m.Purpose, m.S3Key, m.ThumbS3Key, m.Width, m.Height, nullUUID(m.UploaderID),
	))
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return out, nil
}

// FindByID retrieves a single media record by its UUID.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id))
	return notFound(m, err, "find media by id")
}

// FindByKey retrieves a media record by its object key.
func (s *MediaStore) FindByKey(ctx context.Context, key string) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE s3_key = $1`, key))
	return notFound(m, err, "find media by key")
}

// List returns media items ordered by creation date, with pagination. An
// empty purpose lists everything.
func (s *MediaStore) List(ctx context.Context, purpose models.MediaPurpose, limit, offset int) ([]models.Media, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE $1 = '' OR purpose = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, string(purpose), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	return collect(rows, scanMedia)
}

// Delete removes a media record and returns it so the caller can clean
// up the corresponding objects.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `
		DELETE FROM media WHERE id = $1
		RETURNING `+mediaColumns, id))
	return notFound(m, err, "delete media")
}

// DeleteByKey removes the record of an object key, if any.
func (s *MediaStore) DeleteByKey(ctx context.Context, key string) (*models.Media, error) {
	m, err := scanMedia(s.db.QueryRowContext(ctx, `
		DELETE FROM media WHERE s3_key = $1
		RETURNING `+mediaColumns, key))
	return notFound(m, err, "delete media by key")
}

// Count returns the total number of media items.
func (s *MediaStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count media: %w", err)
	}
	return count, nil
}
