package location

import (
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/validator"
)

// ========================================
// LOCATION DTOs
// ========================================

// ReportRequest carries a periodic device location report. Coordinates are
// pointers so a missing value is rejected rather than stored as null.
type ReportRequest struct {
	EmployeeID string   `json:"-"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	CapturedAt string   `json:"captured_at"`

	// set by Validate
	ParsedCapturedAt time.Time `json:"-"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Latitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude is required",
		})
	} else if !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude is required",
		})
	} else if !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if validator.IsEmpty(r.CapturedAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "captured_at",
			Message: "captured_at is required",
		})
	} else if t, ok := validator.IsValidDateTime(r.CapturedAt); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "captured_at",
			Message: "captured_at must be an RFC3339 timestamp",
		})
	} else {
		r.ParsedCapturedAt = t
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ReportAck acknowledges an accepted report. Stale marks reports whose
// captured_at is older than the cached sample; they are accepted but not
// broadcast, since devices retry and clocks skew.
type ReportAck struct {
	EmployeeID string `json:"employee_id"`
	CapturedAt string `json:"captured_at"`
	Stale      bool   `json:"stale"`
}

// StreamTokenResponse carries a short-lived token for stream connections
type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type SampleResponse struct {
	EmployeeID string  `json:"employee_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	CapturedAt string  `json:"captured_at"`
}

// TeamSnapshotResponse is the full latest-position state for a manager's
// team, served on stream connect and on explicit resync.
type TeamSnapshotResponse struct {
	Locations []SampleResponse `json:"locations"`
}

// ToResponse converts a Sample entity to its API representation
func ToResponse(s Sample) SampleResponse {
	return SampleResponse{
		EmployeeID: s.EmployeeID,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		CapturedAt: s.CapturedAt.UTC().Format(time.RFC3339),
	}
}
