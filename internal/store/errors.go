package store

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail indicates the users.email unique constraint fired.
	ErrDuplicateEmail = errors.New("store: email already registered")
)
