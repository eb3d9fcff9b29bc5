package http

import (
	"net/http"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/summary"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/handler/http/response"
)

type SummaryHandler interface {
	Daily(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
}

func NewSummaryHandler(summaryService summary.SummaryService) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
	}
}

// Daily implements SummaryHandler.
func (h *summaryHandlerImpl) Daily(w http.ResponseWriter, r *http.Request) {
	managerID := getEmployeeIDFromContext(r)
	if managerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Parse query parameters
	req := summary.DailySummaryRequest{
		ManagerID: managerID,
		Date:      r.URL.Query().Get("date"),
	}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Get data from service
	result, err := h.summaryService.DailySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
