package postgresql

import (
	"context"
	"fmt"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/location"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
)

type locationRepository struct {
	db *database.DB
}

func NewLocationRepository(db *database.DB) location.LocationRepository {
	return &locationRepository{db: db}
}

// Upsert implements location.LocationRepository. Last-write-wins is enforced
// in SQL: the update only applies when the incoming captured_at is not older
// than the stored one, so concurrent reports for the same employee serialize
// on the row without racy read-then-write in application code.
func (r *locationRepository) Upsert(ctx context.Context, sample location.Sample) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_locations (employee_id, latitude, longitude, captured_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (employee_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			captured_at = EXCLUDED.captured_at,
			updated_at = now()
		WHERE employee_locations.captured_at <= EXCLUDED.captured_at
	`

	tag, err := q.Exec(ctx, query,
		sample.EmployeeID,
		sample.Latitude,
		sample.Longitude,
		sample.CapturedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert location: %w", err)
	}

	// Zero rows means the DO UPDATE was filtered out: the cache already
	// holds a newer sample and the report is stale.
	return tag.RowsAffected() == 1, nil
}

// LatestForEmployees implements location.LocationRepository.
func (r *locationRepository) LatestForEmployees(ctx context.Context, employeeIDs []string) ([]location.Sample, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, latitude, longitude, captured_at, updated_at
		FROM employee_locations
		WHERE employee_id = ANY($1::uuid[])
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var samples []location.Sample
	for rows.Next() {
		var s location.Sample
		if err := rows.Scan(&s.EmployeeID, &s.Latitude, &s.Longitude, &s.CapturedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		samples = append(samples, s)
	}

	return samples, nil
}
