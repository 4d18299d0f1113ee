// Package store wraps the database access for users and notes
package store

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidID        = errors.New("id is not valid")
	ErrEmailTaken       = errors.New("email already exist")
	ErrInvalidQuery     = errors.New("invalid query")
)
