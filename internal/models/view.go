// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind identifies which table a view row refers to.
type ContentKind string

const (
	KindProject ContentKind = "project"
	KindPost    ContentKind = "post"
)

// ViewRow is one sparse daily view counter. Rows exist only for days with
// at least one view.
type ViewRow struct {
	ContentID uuid.UUID   `json:"content_id"`
	Kind      ContentKind `json:"kind"`
	Day       time.Time   `json:"day"`
	Count     int         `json:"count"`
}
