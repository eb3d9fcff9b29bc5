package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/location"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/handler/http/response"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/jwt"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

// LocationHandler defines the location handler interface
type LocationHandler interface {
	Report(w http.ResponseWriter, r *http.Request)
	TeamSnapshot(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type locationHandlerImpl struct {
	locationService   location.LocationService
	jwtService        jwt.Service
	keepaliveInterval time.Duration
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(locationService location.LocationService, jwtService jwt.Service, keepaliveInterval time.Duration) LocationHandler {
	if keepaliveInterval <= 0 {
		keepaliveInterval = 30 * time.Second
	}
	return &locationHandlerImpl{
		locationService:   locationService,
		jwtService:        jwtService,
		keepaliveInterval: keepaliveInterval,
	}
}

// getEmployeeIDFromContext extracts employee_id from JWT context
func getEmployeeIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if employeeID, ok := claims["employee_id"].(string); ok {
		return employeeID
	}
	return ""
}

// Report ingests a periodic device location report
func (h *locationHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	employeeID := getEmployeeIDFromContext(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req location.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	ack, err := h.locationService.Report(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, ack)
}

// TeamSnapshot returns the latest cached position for every team member
func (h *locationHandlerImpl) TeamSnapshot(w http.ResponseWriter, r *http.Request) {
	managerID := getEmployeeIDFromContext(r)
	if managerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.locationService.TeamSnapshot(r.Context(), managerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStreamToken generates a short-lived token for stream connections
func (h *locationHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	managerID := getEmployeeIDFromContext(r)
	if managerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(managerID)
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, location.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream handles SSE connection for real-time team location updates
func (h *locationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	// Validate stream token
	managerID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Subscribe to team location updates
	sub, cleanup, err := h.locationService.Subscribe(r.Context(), managerID)
	if err != nil {
		http.Error(w, "Failed to subscribe", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	// Load and encode the full team snapshot before committing to the
	// event stream, so a failure here can still produce a plain error
	// response. Every update event after the snapshot is newer than the
	// snapshot row it replaces, so a client that applies snapshot then
	// updates never regresses.
	snapshot, err := h.locationService.TeamSnapshot(r.Context(), managerID)
	if err != nil {
		http.Error(w, "Failed to load snapshot", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		http.Error(w, "Failed to encode snapshot", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	flusher.Flush()

	// Seed per-employee watermarks from the snapshot so events the hub
	// queued before the snapshot read are not replayed on top of it.
	for _, loc := range snapshot.Locations {
		capturedAt, err := time.Parse(time.RFC3339, loc.CapturedAt)
		if err != nil {
			continue
		}
		sub.ShouldDeliver(sse.Event{
			EmployeeID: loc.EmployeeID,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			CapturedAt: capturedAt,
		})
	}

	// Stream events
	keepalive := time.NewTicker(h.keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if !sub.ShouldDeliver(event) {
				continue
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: location\ndata: %s\n\n", data)
			flusher.Flush()

		case <-keepalive.C:
			// Send keepalive ping
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
