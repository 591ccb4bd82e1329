// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olegiv/ocms-lite/internal/auth"
	"github.com/olegiv/ocms-lite/internal/form"
	"github.com/olegiv/ocms-lite/internal/store"
)

// UserService manages user accounts.
type UserService struct {
	db  *sql.DB
	now Clock
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, now: utcNow}
}

// SetClock replaces the time source.
func (s *UserService) SetClock(c Clock) {
	s.now = c
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]store.User, error) {
	users, err := store.New(s.db).ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Count returns the number of users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return store.New(s.db).CountUsers(ctx)
}

// Get returns user id or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id int64) (store.User, error) {
	user, err := store.New(s.db).GetUserByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, ErrNotFound
	}
	if err != nil {
		return store.User{}, fmt.Errorf("getting user %d: %w", id, err)
	}
	return user, nil
}

// Create validates f, hashes the password and inserts the user. A taken
// username or email yields a *DuplicateUserError.
func (s *UserService) Create(ctx context.Context, f form.UserForm) (store.User, error) {
	if err := f.Validate().Err(); err != nil {
		return store.User{}, err
	}

	hash, err := auth.HashPassword(f.Password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	var user store.User
	err = store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		var err error
		user, err = q.CreateUser(ctx, store.CreateUserParams{
			Username:     f.Username,
			Email:        f.Email,
			PasswordHash: hash,
			IsAdmin:      f.IsAdmin,
			CreatedAt:    s.now(),
		})
		return err
	})
	if err != nil {
		if column, ok := store.UniqueViolation(err); ok {
			return store.User{}, &DuplicateUserError{Field: column}
		}
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user created", "user_id", user.ID, "username", user.Username, "is_admin", user.IsAdmin)
	return user, nil
}

// Delete removes targetID on behalf of actorID. Deleting oneself is refused
// before the store is touched. Pages and media of the deleted user are kept
// with their author reference cleared.
func (s *UserService) Delete(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrSelfDeletion
	}

	err := store.RunInTx(ctx, s.db, func(q *store.Queries) error {
		n, err := q.DeleteUser(ctx, targetID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting user %d: %w", targetID, err)
	}

	slog.Info("user deleted", "user_id", targetID, "deleted_by", actorID)
	return nil
}

// AuthService verifies login credentials.
type AuthService struct {
	db *sql.DB

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{db: db}
}

// Authenticate returns the user whose username matches exactly and whose
// password verifies. Unknown users and wrong passwords both yield
// ErrInvalidCredentials, and both cost one argon2 computation.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	q := store.New(s.db)

	user, err := q.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = auth.CheckPassword(password, s.timingHash())
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Warn("stored password hash is unreadable", "user_id", user.ID, "error", err)
		return store.User{}, ErrInvalidCredentials
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := q.UpdateUserPassword(ctx, user.ID, hash); err != nil {
				slog.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	return user, nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("timing-equalizer")
	})
	return s.dummyHash
}
