// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"folio/internal/imaging"
	"folio/internal/middleware"
	"folio/internal/models"
)

// mediaPageSize is the number of uploads listed per page.
const mediaPageSize = 50

// withURLs fills the public URLs of a media row.
func (a *Admin) withURLs(m *models.Media) {
	m.URL = a.Storage.FileURL(m.S3Key)
	if m.ThumbS3Key != nil {
		m.ThumbURL = a.Storage.FileURL(*m.ThumbS3Key)
	}
}

// MediaLibrary lists uploaded images, optionally for one ?purpose.
func (a *Admin) MediaLibrary(w http.ResponseWriter, r *http.Request) {
	if a.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	purpose := models.MediaPurpose(r.URL.Query().Get("purpose"))
	if purpose != "" && !purpose.Valid() {
		writeInvalid(w, map[string]string{"purpose": "Unknown purpose"})
		return
	}
	page := max(queryInt(r, "page", 1), 1)

	ctx := r.Context()
	items, err := a.Stores.Media.List(ctx, purpose, mediaPageSize, (page-1)*mediaPageSize)
	if err != nil {
		serverError(w, "list media failed", err)
		return
	}
	total, err := a.Stores.Media.Count(ctx)
	if err != nil {
		serverError(w, "count media failed", err)
		return
	}
	for i := range items {
		a.withURLs(&items[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"page":  page,
		"total": total,
	})
}

// MediaUpload stores a multipart image upload (field "file") in S3 with a
// thumbnail for raster images, and records it. The form field "purpose"
// says what the image is for.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize+1024)
	if err := r.ParseMultipartForm(imaging.MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	purpose := models.MediaPurpose(r.FormValue("purpose"))
	if !purpose.Valid() {
		writeInvalid(w, map[string]string{"purpose": "Unknown purpose"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeInvalid(w, map[string]string{"file": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		serverError(w, "read upload failed", err)
		return
	}
	if len(data) > imaging.MaxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
		return
	}

	kind, err := imaging.Sniff(data, header.Filename)
	if errors.Is(err, imaging.ErrUnsupported) {
		writeInvalid(w, map[string]string{"file": "Only JPEG, PNG, GIF, WebP and SVG images are accepted"})
		return
	}
	if err != nil {
		serverError(w, "sniff upload failed", err)
		return
	}

	now := time.Now()
	fileID := uuid.New().String()
	prefix := fmt.Sprintf("%s/%d/%02d/%s", purpose, now.Year(), now.Month(), fileID)
	key := prefix + kind.Extension

	ctx := r.Context()
	if err := a.Storage.Upload(ctx, key, kind.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		serverError(w, "s3 upload failed", err, "key", key)
		return
	}

	media := &models.Media{
		Filename:     fileID + kind.Extension,
		OriginalName: header.Filename,
		ContentType:  kind.ContentType,
		SizeBytes:    int64(len(data)),
		Purpose:      purpose,
		S3Key:        key,
		UploaderID:   sess.UserID,
	}

	if kind.Thumbable() {
		if width, height, err := imaging.Dimensions(data); err == nil {
			media.Width, media.Height = width, height
		}
		thumb, err := imaging.Thumbnail(data, imaging.ThumbMaxWidth)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", key)
		} else if thumb != nil {
			tk := prefix + "_thumb.jpg"
			if err := a.Storage.Upload(ctx, tk, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				media.ThumbS3Key = &tk
			}
		}
	}

	created, err := a.Stores.Media.Create(ctx, media)
	if err != nil {
		serverError(w, "media db insert failed", err, "key", key)
		return
	}
	a.withURLs(created)

	slog.Info("media uploaded", "key", key, "purpose", purpose, "size", created.HumanSize())
	writeJSON(w, http.StatusCreated, created)
}

// MediaDelete removes an upload from the database and, best effort, S3.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	if a.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	deleted, err := a.Stores.Media.Delete(ctx, id)
	if err != nil {
		serverError(w, "media db delete failed", err, "id", id)
		return
	}
	if deleted == nil {
		notFound(w)
		return
	}

	if err := a.Storage.Delete(ctx, deleted.S3Key); err != nil {
		slog.Warn("s3 original delete failed", "error", err, "key", deleted.S3Key)
	}
	if deleted.ThumbS3Key != nil {
		if err := a.Storage.Delete(ctx, *deleted.ThumbS3Key); err != nil {
			slog.Warn("s3 thumbnail delete failed", "error", err, "key", *deleted.ThumbS3Key)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}
