package database

import "errors"

// Sentinel errors shared by every repository implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrConflict  = errors.New("record was modified concurrently")
	ErrDuplicate = errors.New("record already exists")
)
