package location

import (
	"time"
)

// Sample is the latest known position for an employee. One row per employee,
// overwritten on every accepted report with a newer captured_at.
type Sample struct {
	EmployeeID string
	Latitude   float64
	Longitude  float64
	CapturedAt time.Time
	UpdatedAt  time.Time
}
