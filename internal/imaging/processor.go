// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging inspects uploaded raster images and writes thumbnails
// next to them. Only PNG, JPEG, GIF and WebP are handled; other files
// (SVG included) are stored untouched by the caller.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/ocms-lite/internal/util"
)

// Raster MIME types the processor can decode.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// ThumbnailDir is the sub-directory of the upload dir holding thumbnails.
const ThumbnailDir = "thumbnails"

// Thumbnail geometry.
const (
	ThumbnailSize    = 200
	ThumbnailQuality = 85
)

// ErrNotRaster is returned for files the processor cannot decode.
var ErrNotRaster = errors.New("not a supported raster image")

// Processor handles image inspection and thumbnail generation.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a processor writing thumbnails under uploadDir.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// IsRaster reports whether mimeType can be decoded.
func (p *Processor) IsRaster(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// Dimensions returns the displayed width and height of the image at path.
// EXIF orientations 5 to 8 swap the axes.
func (p *Processor) Dimensions(path string) (width, height int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrNotRaster, err)
	}

	width, height = cfg.Width, cfg.Height
	if readExifOrientation(bytes.NewReader(data)) >= 5 {
		width, height = height, width
	}
	return width, height, nil
}

// ThumbnailName returns the thumbnail file name for a stored upload.
// WebP thumbnails are written as JPEG because there is no pure Go encoder.
func ThumbnailName(stored string) string {
	if strings.EqualFold(filepath.Ext(stored), ".webp") {
		return strings.TrimSuffix(stored, filepath.Ext(stored)) + ".jpg"
	}
	return stored
}

// ThumbnailPath returns where the thumbnail of stored lives on disk.
func (p *Processor) ThumbnailPath(stored string) (string, error) {
	return util.SafeJoinPath(p.uploadDir, ThumbnailDir, ThumbnailName(stored))
}

// Thumbnail writes a ThumbnailSize square, center-cropped thumbnail of the
// image at srcPath and returns its path.
func (p *Processor) Thumbnail(srcPath, stored string) (string, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotRaster, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	thumb := imaging.Fill(img, ThumbnailSize, ThumbnailSize, imaging.Center, imaging.Lanczos)

	encoded, err := encodeImage(thumb, format)
	if err != nil {
		return "", fmt.Errorf("encoding thumbnail: %w", err)
	}

	dst, err := p.ThumbnailPath(stored)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating thumbnail directory: %w", err)
	}
	if err := os.WriteFile(dst, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing thumbnail: %w", err)
	}
	return dst, nil
}

// RemoveThumbnail deletes the thumbnail of stored. A missing thumbnail is not an error.
func (p *Processor) RemoveThumbnail(stored string) error {
	path, err := p.ThumbnailPath(stored)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation rotates/flips img so it displays upright.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		// jpeg, and webp which has no pure Go encoder
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: ThumbnailQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
