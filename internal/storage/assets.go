// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/models"
)

// Index is the metadata side of stored images.
type Index interface {
	DeleteByKey(ctx context.Context, key string) (*models.Media, error)
}

// Assets deletes images by the public URL records point at, removing the
// object, its thumbnail and its metadata row.
type Assets struct {
	client *Client
	index  Index
}

// NewAssets returns an Assets over client and index. A nil client makes
// every delete a no-op.
func NewAssets(client *Client, index Index) *Assets {
	return &Assets{client: client, index: index}
}

// DeleteByURL removes the image behind url. URLs that do not point into
// this storage are ignored.
func (a *Assets) DeleteByURL(ctx context.Context, url string) error {
	if a.client == nil || url == "" {
		return nil
	}
	key, ok := a.client.ExtractKey(url)
	if !ok {
		slog.Debug("asset url outside storage, skipping delete", "url", url)
		return nil
	}

	if err := a.client.Delete(ctx, key); err != nil {
		return err
	}

	m, err := a.index.DeleteByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("delete asset record: %w", err)
	}
	if m != nil && m.ThumbS3Key != nil {
		if err := a.client.Delete(ctx, *m.ThumbS3Key); err != nil {
			return err
		}
	}
	return nil
}
