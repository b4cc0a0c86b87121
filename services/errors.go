package services

import "errors"

// Sentinel errors shared across the service layer. Handlers map these onto
// HTTP status codes; nothing below the handlers knows about HTTP.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("forbidden")
)
