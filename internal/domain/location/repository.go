package location

import (
	"context"
)

// LocationRepository defines data access for the latest-position cache
type LocationRepository interface {
	// Upsert writes the sample with last-write-wins semantics keyed by
	// captured_at. Returns applied=false when the cache already holds a
	// newer sample; the row is left untouched in that case.
	Upsert(ctx context.Context, sample Sample) (applied bool, err error)

	// LatestForEmployees retrieves the cached sample for each of the given
	// employees; employees with no sample yet are simply absent.
	LatestForEmployees(ctx context.Context, employeeIDs []string) ([]Sample, error)
}
