// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging validates uploaded images by their magic bytes and
// generates JPEG thumbnails for raster formats. SVG icons are accepted as
// uploads but never decoded.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxUploadSize is the largest accepted image (10 MB).
	MaxUploadSize = 10 << 20

	// ThumbMaxWidth is the maximum thumbnail width in pixels.
	ThumbMaxWidth = 400

	thumbQuality = 80

	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// ErrUnsupported is returned for uploads that are not an accepted image type.
var ErrUnsupported = errors.New("unsupported image type")

// allowedTypes maps accepted MIME types to their canonical extension.
var allowedTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// thumbableTypes excludes GIF to preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Kind describes a sniffed upload.
type Kind struct {
	ContentType string
	Extension   string
}

// Thumbable reports whether a thumbnail can be generated for the kind.
func (k Kind) Thumbable() bool { return thumbableTypes[k.ContentType] }

// Sniff detects the real type of an upload from its leading bytes. The
// filename is only consulted for SVG, which has no magic number.
func Sniff(head []byte, filename string) (Kind, error) {
	kind, err := filetype.Match(head)
	if err == nil && kind != filetype.Unknown {
		ext, ok := allowedTypes[kind.MIME.Value]
		if !ok {
			return Kind{}, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
		}
		return Kind{ContentType: kind.MIME.Value, Extension: ext}, nil
	}

	if strings.EqualFold(filepath.Ext(filename), ".svg") && looksLikeSVG(head) {
		return Kind{ContentType: "image/svg+xml", Extension: ".svg"}, nil
	}
	return Kind{}, ErrUnsupported
}

func looksLikeSVG(head []byte) bool {
	s := strings.ToLower(string(head))
	return strings.Contains(s, "<svg")
}

// Dimensions returns the pixel size of a raster image without decoding it.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Thumbnail creates a JPEG thumbnail constrained to maxWidth while
// preserving aspect ratio. Returns nil if the image is already narrower
// than maxWidth.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	width, height, err := Dimensions(data)
	if err != nil {
		return nil, err
	}
	if int64(width)*int64(height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", width, height, maxImagePixels)
	}
	if width <= maxWidth {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	newHeight := max(1, int(float64(bounds.Dy())*float64(maxWidth)/float64(bounds.Dx())))

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
