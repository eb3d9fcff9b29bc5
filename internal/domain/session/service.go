package session

import (
	"context"
)

// SessionService defines business logic for the check-in lifecycle
type SessionService interface {
	// CheckIn validates preconditions and atomically opens a session
	CheckIn(ctx context.Context, req CheckInRequest) (SessionResponse, error)

	// CheckOut closes the employee's own active session
	CheckOut(ctx context.Context, req CheckOutRequest) (SessionResponse, error)

	// ForceCheckOut lets a manager close a session of an employee on their team
	ForceCheckOut(ctx context.Context, req ForceCheckOutRequest) (SessionResponse, error)

	// GetMySessions retrieves sessions for the authenticated employee
	GetMySessions(ctx context.Context, filter MySessionsFilter) (ListSessionsResponse, error)
}
