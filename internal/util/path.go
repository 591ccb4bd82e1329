// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathEscapesBase is returned when a joined path leaves its base directory.
var ErrPathEscapesBase = fmt.Errorf("path escapes base directory")

// WithinBase reports whether target resolves to base or a path below it.
func WithinBase(base, target string) (bool, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false, fmt.Errorf("resolving base path: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return false, fmt.Errorf("resolving target path: %w", err)
	}

	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil {
		return false, nil
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}

// SafeJoinPath joins elems onto base and fails if the result escapes base.
func SafeJoinPath(base string, elems ...string) (string, error) {
	full := filepath.Join(append([]string{base}, elems...)...)
	ok, err := WithinBase(base, full)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrPathEscapesBase
	}
	return full, nil
}
