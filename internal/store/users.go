// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const userColumns = `id, username, email, password_hash, is_admin, created_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Username,
		&i.Email,
		&i.PasswordHash,
		&i.IsAdmin,
		&i.CreatedAt,
	)
	return i, err
}

const createUser = `INSERT INTO users (username, email, password_hash, is_admin, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Username,
		arg.Email,
		arg.PasswordHash,
		arg.IsAdmin,
		arg.CreatedAt,
	)
	return scanUser(row)
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByUsername = `SELECT ` + userColumns + ` FROM users WHERE username = ?`

// GetUserByUsername matches the username exactly (SQLite's default BINARY
// collation is case-sensitive).
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByUsername, username))
}

const listUsers = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id DESC`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserPassword = `UPDATE users SET password_hash = ? WHERE id = ?`

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, passwordHash, id)
	return err
}

const deleteUser = `DELETE FROM users WHERE id = ?`

// DeleteUser returns the number of deleted rows.
func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
