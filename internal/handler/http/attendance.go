package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/session"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ForceCheckOut(w http.ResponseWriter, r *http.Request)
	GetMySessions(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	sessionService session.SessionService
}

func NewAttendanceHandler(sessionService session.SessionService) AttendanceHandler {
	return &attendanceHandlerImpl{
		sessionService: sessionService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req session.CheckInRequest

	// Get employee_id from JWT claims
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		slog.Error("employee_id not found in JWT claims")
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	result, err := h.sessionService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req session.CheckOutRequest

	// Get employee_id from JWT claims
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		slog.Error("employee_id not found in JWT claims")
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	result, err := h.sessionService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// ForceCheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ForceCheckOut(w http.ResponseWriter, r *http.Request) {
	// Get manager_id from JWT claims
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}

	managerID, ok := claims["employee_id"].(string)
	if !ok || managerID == "" {
		slog.Error("employee_id not found in JWT claims")
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		response.BadRequest(w, "Session ID is required", nil)
		return
	}

	req := session.ForceCheckOutRequest{
		ManagerID: managerID,
		SessionID: sessionID,
	}

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	result, err := h.sessionService.ForceCheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session closed", result)
}

// GetMySessions implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMySessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Get employee_id from JWT claims
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		slog.Error("Failed to get JWT claims", "error", err)
		response.Unauthorized(w, "Unauthorized")
		return
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		slog.Error("employee_id not found in JWT claims")
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	// Parse query parameters
	filter := session.MySessionsFilter{
		EmployeeID: employeeID,
	}

	// Date range filters
	if startDate := r.URL.Query().Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}

	if endDate := r.URL.Query().Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	// Status filter
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	// Pagination
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}
	filter.Page = page

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if limitNum, err := strconv.Atoi(l); err == nil && limitNum > 0 {
			limit = limitNum
		}
	}
	filter.Limit = limit

	// Validate filter
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Get data from service
	results, err := h.sessionService.GetMySessions(ctx, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results.Sessions, &response.Meta{
		Page:       results.Page,
		Limit:      results.Limit,
		TotalItems: results.Total,
	})
}
