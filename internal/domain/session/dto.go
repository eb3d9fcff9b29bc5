package session

import (
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/validator"
)

// ========================================
// SESSION DTOs
// ========================================

// CheckInRequest carries a check-in attempt. Coordinates are pointers so a
// missing value is distinguishable from zero and rejected instead of stored.
type CheckInRequest struct {
	EmployeeID string   `json:"-"`
	ClientID   string   `json:"client_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.ClientID) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_id",
			Message: "client_id is required",
		})
	} else if !validator.IsValidUUID(r.ClientID) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_id",
			Message: "client_id must be a valid UUID",
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

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	EmployeeID string   `json:"-"`
	SessionID  string   `json:"session_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	} else if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a valid UUID",
		})
	}

	// End coordinates are optional; when present they must be in range
	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ForceCheckOutRequest struct {
	ManagerID string `json:"-"`
	SessionID string `json:"-"`
}

func (r *ForceCheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id is required",
		})
	}

	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id is required",
		})
	} else if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "session_id",
			Message: "session_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MySessionsFilter struct {
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	Status     *string `json:"status"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *MySessionsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.Status != nil && *f.Status != "" && *f.Status != StatusActive && *f.Status != StatusClosed {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be 'active' or 'closed'",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SessionResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   *string  `json:"employee_name,omitempty"`
	ClientID       string   `json:"client_id"`
	ClientName     *string  `json:"client_name,omitempty"`
	Status         string   `json:"status"`
	StartedAt      string   `json:"started_at"`
	EndedAt        *string  `json:"ended_at,omitempty"`
	StartLatitude  float64  `json:"start_latitude"`
	StartLongitude float64  `json:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude,omitempty"`
	EndLongitude   *float64 `json:"end_longitude,omitempty"`
	ClosedBy       *string  `json:"closed_by,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// ToResponse converts a Session entity to its API representation
func ToResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:             s.ID,
		EmployeeID:     s.EmployeeID,
		EmployeeName:   s.EmployeeName,
		ClientID:       s.ClientID,
		ClientName:     s.ClientName,
		Status:         s.Status,
		StartedAt:      s.StartedAt.UTC().Format(time.RFC3339),
		StartLatitude:  s.StartLatitude,
		StartLongitude: s.StartLongitude,
		EndLatitude:    s.EndLatitude,
		EndLongitude:   s.EndLongitude,
		ClosedBy:       s.ClosedBy,
	}
	if s.EndedAt != nil {
		ended := s.EndedAt.UTC().Format(time.RFC3339)
		resp.EndedAt = &ended
	}
	return resp
}
