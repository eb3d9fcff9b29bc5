package client

import (
	"time"
)

// Client is a field site an employee can check in at. GeofenceRadiusM is
// optional; when set, check-ins must fall within that many meters of the
// site coordinate.
type Client struct {
	ID              string
	Name            string
	Latitude        float64
	Longitude       float64
	GeofenceRadiusM *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
