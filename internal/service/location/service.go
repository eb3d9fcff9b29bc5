package location

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/location"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/sse"
)

type LocationServiceImpl struct {
	location.LocationRepository
	employee.EmployeeRepository
	hub *sse.Hub
}

func NewLocationService(
	locationRepo location.LocationRepository,
	employeeRepo employee.EmployeeRepository,
	hub *sse.Hub,
) location.LocationService {
	return &LocationServiceImpl{
		LocationRepository: locationRepo,
		EmployeeRepository: employeeRepo,
		hub:                hub,
	}
}

// Report implements location.LocationService. Fresh samples are published
// to the hub after the cache write; publish is fire-and-forget, so a slow or
// saturated subscriber never slows ingest. A stale sample (older captured_at
// than the cache) is acknowledged but not broadcast.
func (s *LocationServiceImpl) Report(ctx context.Context, req location.ReportRequest) (location.ReportAck, error) {
	if err := req.Validate(); err != nil {
		return location.ReportAck{}, err
	}

	applied, err := s.LocationRepository.Upsert(ctx, location.Sample{
		EmployeeID: req.EmployeeID,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		CapturedAt: req.ParsedCapturedAt,
	})
	if err != nil {
		return location.ReportAck{}, fmt.Errorf("failed to store location report: %w", err)
	}

	if applied {
		s.hub.Publish(sse.Event{
			EmployeeID: req.EmployeeID,
			Latitude:   *req.Latitude,
			Longitude:  *req.Longitude,
			CapturedAt: req.ParsedCapturedAt,
		})
	} else {
		slog.Debug("stale location report accepted without broadcast",
			"employee_id", req.EmployeeID,
			"captured_at", req.CapturedAt,
		)
	}

	return location.ReportAck{
		EmployeeID: req.EmployeeID,
		CapturedAt: req.ParsedCapturedAt.UTC().Format(time.RFC3339),
		Stale:      !applied,
	}, nil
}

// TeamSnapshot implements location.LocationService.
func (s *LocationServiceImpl) TeamSnapshot(ctx context.Context, managerID string) (location.TeamSnapshotResponse, error) {
	ids, err := s.EmployeeRepository.ListIDsByManager(ctx, managerID)
	if err != nil {
		return location.TeamSnapshotResponse{}, fmt.Errorf("failed to resolve team: %w", err)
	}

	samples, err := s.LocationRepository.LatestForEmployees(ctx, ids)
	if err != nil {
		return location.TeamSnapshotResponse{}, fmt.Errorf("failed to load team locations: %w", err)
	}

	locations := make([]location.SampleResponse, len(samples))
	for i, sample := range samples {
		locations[i] = location.ToResponse(sample)
	}

	return location.TeamSnapshotResponse{Locations: locations}, nil
}

// Subscribe implements location.LocationService. The authorized employee set
// is computed once per connection; a reconnect picks up assignment changes
// and receives a fresh snapshot before incremental updates.
func (s *LocationServiceImpl) Subscribe(ctx context.Context, managerID string) (*sse.Subscription, func(), error) {
	ids, err := s.EmployeeRepository.ListIDsByManager(ctx, managerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve team: %w", err)
	}

	sub, cleanup := s.hub.Subscribe(managerID, ids)
	return sub, cleanup, nil
}
