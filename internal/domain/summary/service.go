package summary

import (
	"context"
)

// SummaryService defines read-only daily aggregation for manager dashboards
type SummaryService interface {
	// DailySummary computes team and per-employee aggregates for the given
	// calendar date (UTC)
	DailySummary(ctx context.Context, req DailySummaryRequest) (DailySummaryResponse, error)
}
