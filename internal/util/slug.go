// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides small helpers shared across packages: slug and
// filename checks, path containment and sql.Null* constructors.
package util

import "regexp"

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidSlug reports whether s is a non-empty string of lowercase ASCII
// letters, digits and hyphens.
func IsValidSlug(s string) bool {
	return slugRe.MatchString(s)
}
