// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"folio/internal/derive"
	"folio/internal/models"
)

// ViewStore records daily view counts. Only days with at least one view
// have a row; dense series are derived by the caller.
type ViewStore struct {
	db *sql.DB
}

// NewViewStore returns a new ViewStore.
func NewViewStore(db *sql.DB) *ViewStore {
	return &ViewStore{db: db}
}

var viewCounters = map[models.ContentKind]string{
	models.KindProject: `UPDATE projects SET view_count = view_count + 1 WHERE id = $1`,
	models.KindPost:    `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`,
}

// Record counts one view of a content item on the day of at, bumping both
// the daily row and the item's total.
func (s *ViewStore) Record(ctx context.Context, kind models.ContentKind, id uuid.UUID, at time.Time) error {
	counter, ok := viewCounters[kind]
	if !ok {
		return fmt.Errorf("record view: unknown content kind %q", kind)
	}
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_views (content_id, content_kind, day, count)
			VALUES ($1, $2, $3, 1)
			ON CONFLICT (content_id, day) DO UPDATE SET count = content_views.count + 1
		`, id, kind, derive.DayKey(at))
		if err != nil {
			return fmt.Errorf("record view: %w", err)
		}
		if _, err := tx.ExecContext(ctx, counter, id); err != nil {
			return fmt.Errorf("bump view count: %w", err)
		}
		return nil
	})
}

// Range returns the sparse rows of every content item between from and to
// inclusive, oldest first.
func (s *ViewStore) Range(ctx context.Context, from, to time.Time) ([]models.ViewRow, error) {
	return s.query(ctx, `
		SELECT content_id, content_kind, day, count FROM content_views
		WHERE day BETWEEN $1 AND $2
		ORDER BY day`, derive.DayKey(from), derive.DayKey(to))
}

// ForContent returns the sparse rows of one content item.
func (s *ViewStore) ForContent(ctx context.Context, id uuid.UUID, from, to time.Time) ([]models.ViewRow, error) {
	return s.query(ctx, `
		SELECT content_id, content_kind, day, count FROM content_views
		WHERE content_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day`, id, derive.DayKey(from), derive.DayKey(to))
}

func (s *ViewStore) query(ctx context.Context, query string, args ...any) ([]models.ViewRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list views: %w", err)
	}
	return collect(rows, func(row scanner) (*models.ViewRow, error) {
		var v models.ViewRow
		if err := row.Scan(&v.ContentID, &v.Kind, &v.Day, &v.Count); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		v.Day = v.Day.UTC()
		return &v, nil
	})
}
