package summary

import (
	"context"
	"time"
)

// SummaryRepository defines read-only aggregation over the session store.
// Day boundaries arrive as absolute [dayStart, dayEnd) timestamps computed in
// the application layer, keeping the SQL free of engine-specific date math.
type SummaryRepository interface {
	// DailyPerEmployee aggregates sessions started within the window for
	// every employee reporting to the manager, optionally filtered to one
	// employee.
	DailyPerEmployee(ctx context.Context, managerID string, dayStart, dayEnd time.Time, employeeID *string) ([]EmployeeDaily, error)

	// DailyTeamClients counts distinct clients visited by the whole team
	// within the window.
	DailyTeamClients(ctx context.Context, managerID string, dayStart, dayEnd time.Time) (int64, error)
}
