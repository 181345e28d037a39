// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates the caller supplied invalid or incomplete input.
// Wrap it with context: fmt.Errorf("%w: title is required", ErrValidation).
var ErrValidation = errors.New("validation failed")
