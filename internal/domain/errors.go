package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrSessionExpired indicates a temporary scan session is past its window.
	ErrSessionExpired = errors.New("scan session expired")
)
