package repository

import "errors"

// ErrNotFound is returned (wrapped) when the requested record does not
// exist. Handlers map it to a 404-style response.
var ErrNotFound = errors.New("not found")
