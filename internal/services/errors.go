package services

import "errors"

var (
	// ErrNotAuthorized covers both a missing identity and a caller who is
	// not a participant of the target entity. Handlers map it to the same
	// denial response as a membership-gated miss so existence is not leaked.
	ErrNotAuthorized = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
)
