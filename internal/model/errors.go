package model

import "errors"

var (
	// ErrNotFound reports that a referenced record does not exist or is not
	// visible to the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
)
