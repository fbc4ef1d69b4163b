package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrInvalidMatchStatus     = errors.New("invalid match status for result submission")
	ErrBracketLocked          = errors.New("bracket has approved matches and cannot be regenerated")

	ErrForbiddenOperation = errors.New("operation not allowed for the current role")

	// ErrJoinCodeSpaceExhausted means the resample loop could not find a free
	// 6-digit code. With 900k codes this is practically unreachable.
	ErrJoinCodeSpaceExhausted = errors.New("failed to allocate a unique join code")
)
