package services

import "errors"

// Error taxonomy shared by every service. Controllers map these to HTTP
// statuses; services wrap them with detail via fmt.Errorf("%w: ...").
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
