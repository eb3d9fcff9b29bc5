package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/summary"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
)

type summaryRepository struct {
	db *database.DB
}

func NewSummaryRepository(db *database.DB) summary.SummaryRepository {
	return &summaryRepository{db: db}
}

// DailyPerEmployee implements summary.SummaryRepository. The window arrives
// as absolute timestamps; no date arithmetic happens in SQL. Open sessions
// count toward checkins but contribute zero hours.
func (r *summaryRepository) DailyPerEmployee(ctx context.Context, managerID string, dayStart, dayEnd time.Time, employeeID *string) ([]summary.EmployeeDaily, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "e.manager_id = $1"
	args := []interface{}{managerID, dayStart, dayEnd}
	if employeeID != nil {
		baseWhere += " AND e.id = $4"
		args = append(args, *employeeID)
	}

	query := fmt.Sprintf(`
		SELECT e.id, e.full_name,
			   COUNT(s.id) AS checkins,
			   COUNT(DISTINCT s.client_id) AS distinct_clients,
			   COALESCE(SUM(
				   CASE WHEN s.status = 'closed'
						THEN EXTRACT(EPOCH FROM (s.ended_at - s.started_at))
						ELSE 0
				   END
			   ), 0) AS total_seconds
		FROM employees e
		LEFT JOIN sessions s
		  ON s.employee_id = e.id
		 AND s.started_at >= $2
		 AND s.started_at < $3
		WHERE %s
		GROUP BY e.id, e.full_name
		ORDER BY e.full_name, e.id
	`, baseWhere)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily summary: %w", err)
	}
	defer rows.Close()

	var results []summary.EmployeeDaily
	for rows.Next() {
		var d summary.EmployeeDaily
		var totalSeconds float64
		if err := rows.Scan(&d.EmployeeID, &d.EmployeeName, &d.Checkins, &d.DistinctClients, &totalSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary row: %w", err)
		}
		d.TotalHours = totalSeconds / 3600
		results = append(results, d)
	}

	return results, nil
}

// DailyTeamClients implements summary.SummaryRepository.
func (r *summaryRepository) DailyTeamClients(ctx context.Context, managerID string, dayStart, dayEnd time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT s.client_id)
		FROM sessions s
		JOIN employees e ON e.id = s.employee_id
		WHERE e.manager_id = $1
		  AND s.started_at >= $2
		  AND s.started_at < $3
	`

	var count int64
	if err := q.QueryRow(ctx, query, managerID, dayStart, dayEnd).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count team clients: %w", err)
	}

	return count, nil
}
