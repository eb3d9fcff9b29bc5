package employee

import (
	"time"
)

// Employee is a read-only projection of the workforce directory. The manager
// reference is a weak relation used for team lookups, never ownership.
type Employee struct {
	ID        string
	ManagerID *string
	FullName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
