// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "database/sql"

// NullInt64 returns a valid sql.NullInt64 for positive ids and NULL otherwise.
// Zero is never a valid row id in SQLite.
func NullInt64(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// NullString returns NULL for the empty string.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
