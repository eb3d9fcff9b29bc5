package session

import (
	"context"
	"time"
)

// SessionRepository defines data access for check-in sessions.
// The storage layer carries a partial unique index on (employee_id) where
// status = 'active'; Create surfaces a violation as ErrActiveSessionExists so
// concurrent check-ins resolve to exactly one winner without a read-then-write.
type SessionRepository interface {
	// Create inserts a new active session. Returns ErrActiveSessionExists
	// when the employee already has one.
	Create(ctx context.Context, s Session) (Session, error)

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id string) (Session, error)

	// Close atomically transitions an active session to closed. Returns
	// ErrSessionNotFound when no active session matches; callers distinguish
	// not-found from already-closed via GetByID.
	Close(ctx context.Context, id string, employeeID string, endedAt time.Time, endLat, endLng *float64, closedBy *string) (Session, error)

	// ListByEmployee retrieves an employee's sessions with filters and pagination
	ListByEmployee(ctx context.Context, filter MySessionsFilter) ([]Session, int64, error)
}
