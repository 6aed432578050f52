package domain

import "errors"

var (
	// ErrNotFound means the row does not exist yet. New users legitimately
	// lack role, activation and profile rows.
	ErrNotFound = errors.New("record not found")

	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrAuthUnavailable   = errors.New("auth provider unavailable")
	ErrStatusUnavailable = errors.New("status records unavailable")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrUnknownApp        = errors.New("unknown app")
	ErrUnknownScope      = errors.New("unknown scope")
)
