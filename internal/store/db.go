// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// New returns Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries wraps a DBTX with typed query methods.
type Queries struct {
	db DBTX
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// RunInTx runs fn inside a single transaction. The transaction is committed
// when fn returns nil and rolled back otherwise.
func RunInTx(ctx context.Context, db *sql.DB, fn func(q *Queries) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(New(db).WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Both modernc.org/sqlite and mattn/go-sqlite3 report unique violations as
// "UNIQUE constraint failed: <table>.<column>".
var uniqueViolationRe = regexp.MustCompile(`UNIQUE constraint failed: (\w+)\.(\w+)`)

// UniqueViolation reports whether err is a unique constraint failure and,
// if so, which column caused it.
func UniqueViolation(err error) (column string, ok bool) {
	if err == nil {
		return "", false
	}
	m := uniqueViolationRe.FindStringSubmatch(err.Error())
	if m == nil {
		return "", false
	}
	return m[2], true
}
