package errors

import "errors"

var (
	// ErrNotFound is used when a requested resource doesn't exist.
	ErrNotFound = errors.New("not found")
	// ErrNotValid is used when a request has invalid data.
	ErrNotValid = errors.New("not valid")
)
