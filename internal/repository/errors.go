package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist (or is
	// not visible to the requesting owner).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("record already exists")
)
