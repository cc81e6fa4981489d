package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist, or when
	// a guarded update matched no row.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("entity already exists")
)
