package response

import (
	"errors"
	"net/http"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/client"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/session"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Validation and
// authorization failures come back as 4xx so device retry logic can tell
// "fix your input" apart from "try again"; anything unrecognized is a 5xx.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Session domain errors
	switch {
	case errors.Is(err, session.ErrActiveSessionExists):
		Conflict(w, "An active session already exists for this employee")
	case errors.Is(err, session.ErrSessionAlreadyClosed):
		Conflict(w, "Session is already closed")
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, session.ErrClientNotAssigned):
		Forbidden(w, "Client is not assigned to this employee")
	case errors.Is(err, session.ErrOutsideClientRadius):
		Forbidden(w, "Check-in location is outside the client's allowed radius")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNotOnTeam):
		Forbidden(w, "Employee is not on your team")
	case errors.Is(err, employee.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Client domain errors
	case errors.Is(err, client.ErrClientNotFound):
		NotFound(w, "Client not found")

	// Default: storage or connection failure, safe to retry
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
