package services

import "errors"

// Conflict and not-found signals shared across the resource services.
// Controllers map these to 400/404 responses.
var (
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
	ErrSlugTaken     = errors.New("slug must be unique")
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("insufficient permission")
	ErrValidation    = errors.New("validation failed")
)
