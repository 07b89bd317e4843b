package mongodb

import "errors"

var (
	// ErrNotFound reports a document that does not exist or is not owned
	// by the caller. Handlers map it to 404.
	ErrNotFound = errors.New("document not found")

	ErrDuplicateEmail = errors.New("email already registered")
)
