package summary

import (
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/validator"
)

// ========================================
// DAILY SUMMARY DTOs
// ========================================

type DailySummaryRequest struct {
	ManagerID  string  `json:"-"`
	Date       string  `json:"date"`
	EmployeeID *string `json:"employee_id"`
}

func (r *DailySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ManagerID) {
		errs = append(errs, validator.ValidationError{
			Field:   "manager_id",
			Message: "manager_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.EmployeeID != nil {
		if validator.IsEmpty(*r.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_id",
				Message: "employee_id must not be empty when provided",
			})
		} else if !validator.IsValidUUID(*r.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_id",
				Message: "employee_id must be a valid UUID",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeDaily carries one employee's aggregates for a day. TotalHours sums
// the durations of closed sessions only; a still-open session counts toward
// Checkins but contributes zero hours until it closes.
type EmployeeDaily struct {
	EmployeeID      string
	EmployeeName    string
	Checkins        int64
	DistinctClients int64
	TotalHours      float64
}

type EmployeeDailyResponse struct {
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	Checkins        int64   `json:"checkins"`
	DistinctClients int64   `json:"distinct_clients"`
	TotalHours      float64 `json:"total_hours"`
}

type TeamDailyResponse struct {
	Date            string  `json:"date"`
	Employees       int     `json:"employees"`
	Checkins        int64   `json:"checkins"`
	DistinctClients int64   `json:"distinct_clients"`
	TotalHours      float64 `json:"total_hours"`
}

type DailySummaryResponse struct {
	Team        TeamDailyResponse       `json:"team"`
	PerEmployee []EmployeeDailyResponse `json:"per_employee"`
}
