package sendapi

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the server does not know the file, usually because
	// it expired or reached its download limit.
	ErrNotFound = errors.New("the file has expired or did not exist")

	// ErrUnauthorized means the owner token was rejected.
	ErrUnauthorized = errors.New("the owner token is invalid")
)

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server responded with status %d", e.Code)
	}
	return fmt.Sprintf("server responded with status %d: %s", e.Code, e.Body)
}
