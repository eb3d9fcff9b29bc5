package session

import (
	"time"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Session is one check-in-to-check-out interval for an employee at a client.
// Sessions are never deleted, only closed; history feeds the daily summaries.
type Session struct {
	ID             string
	EmployeeID     string
	ClientID       string
	Status         string
	StartedAt      time.Time
	EndedAt        *time.Time
	StartLatitude  float64
	StartLongitude float64
	EndLatitude    *float64
	EndLongitude   *float64
	ClosedBy       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
	ClientName   *string
}
