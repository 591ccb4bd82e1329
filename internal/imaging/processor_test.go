// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, createTestImage(width, height)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestIsRaster(t *testing.T) {
	p := NewProcessor(t.TempDir())
	tests := []struct {
		mime string
		want bool
	}{
		{MimeTypeJPEG, true},
		{MimeTypePNG, true},
		{MimeTypeGIF, true},
		{MimeTypeWebP, true},
		{"image/svg+xml", false},
		{"application/pdf", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.IsRaster(tt.mime); got != tt.want {
			t.Errorf("IsRaster(%q) = %v, want %v", tt.mime, got, tt.want)
		}
	}
}

func TestDimensions(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)
	path := writePNG(t, dir, "wide.png", 64, 32)

	w, h, err := p.Dimensions(path)
	if err != nil {
		t.Fatalf("Dimensions: %v", err)
	}
	if w != 64 || h != 32 {
		t.Errorf("Dimensions = %dx%d, want 64x32", w, h)
	}
}

func TestDimensions_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)
	path := filepath.Join(dir, "logo.svg")
	if err := os.WriteFile(path, []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := p.Dimensions(path); err == nil {
		t.Error("expected error for SVG input")
	}
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)
	src := writePNG(t, dir, "photo_20240101_000000.png", 400, 300)

	dst, err := p.Thumbnail(src, "photo_20240101_000000.png")
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	if want := filepath.Join(dir, ThumbnailDir, "photo_20240101_000000.png"); dst != want {
		t.Errorf("Thumbnail path = %q, want %q", dst, want)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	defer func() { _ = f.Close() }()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "png" || cfg.Width != ThumbnailSize || cfg.Height != ThumbnailSize {
		t.Errorf("thumbnail = %s %dx%d, want png %dx%d", format, cfg.Width, cfg.Height, ThumbnailSize, ThumbnailSize)
	}

	if err := p.RemoveThumbnail("photo_20240101_000000.png"); err != nil {
		t.Fatalf("RemoveThumbnail: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("thumbnail should be gone")
	}
	if err := p.RemoveThumbnail("photo_20240101_000000.png"); err != nil {
		t.Errorf("RemoveThumbnail on missing file: %v", err)
	}
}

func TestThumbnailName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a.png", "a.png"},
		{"a.jpg", "a.jpg"},
		{"a.webp", "a.jpg"},
		{"a.WEBP", "a.jpg"},
	}
	for _, tt := range tests {
		if got := ThumbnailName(tt.in); got != tt.want {
			t.Errorf("ThumbnailName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)
	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 40, 20},
		{2, 40, 20},
		{3, 40, 20},
		{4, 40, 20},
		{5, 20, 40},
		{6, 20, 40},
		{7, 20, 40},
		{8, 20, 40},
		{0, 40, 20},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: got %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}
