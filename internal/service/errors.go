// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/olegiv/ocms-lite/internal/form"
)

// Domain errors returned by the services. Handlers map them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateSlug      = errors.New("a page with this slug already exists")
	ErrDuplicateUser      = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSelfDeletion       = errors.New("you cannot delete your own account")
)

// DuplicateUserError names the unique field that collided.
type DuplicateUserError struct {
	Field string // "username" or "email"
}

func (e *DuplicateUserError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

func (e *DuplicateUserError) Unwrap() error {
	return ErrDuplicateUser
}

// StorageError reports a failed filesystem operation on an upload.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

// Error names Path only when Err does not already carry it.
func (e *StorageError) Error() string {
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) {
		return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ValidationError is re-exported so callers of the services need not import form.
type ValidationError = form.ValidationError

// IsValidation returns the field errors carried by err, if any.
func IsValidation(err error) (form.Errors, bool) {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		return ve.Errors, true
	}
	return nil, false
}
