// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// FallbackFilename replaces names that sanitize to nothing.
const FallbackFilename = "file"

// StoredTimestampLayout is the timestamp appended to stored upload names.
const StoredTimestampLayout = "20060102_150405"

// SecureFilename reduces a client-supplied filename to a safe ASCII name.
// Directory components are dropped, non-ASCII letters are transliterated,
// whitespace becomes "_" and every character outside [A-Za-z0-9_.-] is
// removed. Leading and trailing dots and underscores are trimmed so the
// result can never be "." or "..".
func SecureFilename(name string) string {
	// Both separators, regardless of the server OS.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = unidecode.Unidecode(norm.NFKC.String(name))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
		lastUnderscore = r == '_'
	}

	out := strings.Trim(b.String(), "._")
	if out == "" {
		return FallbackFilename
	}
	return out
}

// StoredFilename builds "{stem}_{YYYYMMDD_HHMMSS}{ext}" from an already
// secured filename.
func StoredFilename(secured string, t time.Time) string {
	ext := filepath.Ext(secured)
	stem := strings.TrimSuffix(secured, ext)
	if stem == "" {
		stem = FallbackFilename
	}
	return stem + "_" + t.Format(StoredTimestampLayout) + ext
}

// WithSuffix inserts suffix before the extension of name.
func WithSuffix(name, suffix string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + suffix + ext
}
