package session

import "errors"

// Session domain errors
var (
	// Check-in errors
	ErrActiveSessionExists = errors.New("an active session already exists for this employee")
	ErrClientNotAssigned   = errors.New("client is not assigned to this employee")
	ErrOutsideClientRadius = errors.New("check-in location is outside the client's allowed radius")

	// Check-out errors
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyClosed = errors.New("session is already closed")
)
