// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package form holds the input schemas for the admin forms and the login
// form. Each schema collects every violated rule per field so a form can be
// re-rendered with all messages at once.
package form

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to its validation messages.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether field has at least one message.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message for field, or "".
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no field has messages.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// ValidationError wraps field errors so they can travel through error returns.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Errors[f], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError returns a ValidationError holding a single field message.
func NewValidationError(field, message string) *ValidationError {
	errs := Errors{}
	errs.Add(field, message)
	return &ValidationError{Errors: errs}
}

// Err returns nil when errs is empty and a *ValidationError otherwise.
func (e Errors) Err() error {
	if e.Valid() {
		return nil
	}
	return &ValidationError{Errors: e}
}

// field validation helpers

// required adds a message and returns false when value is blank.
func required(errs Errors, field, label, value string) bool {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, label+" is required")
		return false
	}
	return true
}

func maxLength(errs Errors, field, label, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		errs.Add(field, fmt.Sprintf("%s must be at most %d characters", label, limit))
	}
}

func minLength(errs Errors, field, label, value string, limit int) {
	if utf8.RuneCountInString(value) < limit {
		errs.Add(field, fmt.Sprintf("%s must be at least %d characters", label, limit))
	}
}

// checkbox reports whether an HTML checkbox was ticked.
func checkbox(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
