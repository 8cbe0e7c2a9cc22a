package repository

import "errors"

var (
	// ErrNotFound indicates the row or runtime key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("already exists")
)
