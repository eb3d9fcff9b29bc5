package location

import (
	"context"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/sse"
)

// LocationService defines business logic for the ingest-then-broadcast pipeline
type LocationService interface {
	// Report validates and stores a device location report, publishing a
	// best-effort update event for fresh samples
	Report(ctx context.Context, req ReportRequest) (ReportAck, error)

	// TeamSnapshot returns the latest cached position for every employee on
	// the manager's team
	TeamSnapshot(ctx context.Context, managerID string) (TeamSnapshotResponse, error)

	// Subscribe opens a live subscription scoped to the manager's team and
	// returns it with a cleanup function releasing the connection state
	Subscribe(ctx context.Context, managerID string) (*sse.Subscription, func(), error)
}
