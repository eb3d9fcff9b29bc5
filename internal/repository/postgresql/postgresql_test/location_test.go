package postgresql_test

import (
	"context"
	"testing"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/location"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationUpsertLastWriteWins(t *testing.T) {
	db := testDB(t)
	truncateTables(t, db)
	ctx := context.Background()
	repo := postgresql.NewLocationRepository(db)

	empID := createTestEmployee(t, db, nil, "Ana")

	older := utcTime(2024, 1, 15, 10, 0)
	newer := utcTime(2024, 1, 15, 10, 5)

	applied, err := repo.Upsert(ctx, location.Sample{EmployeeID: empID, Latitude: -6.2, Longitude: 106.8, CapturedAt: older})
	require.NoError(t, err)
	assert.True(t, applied)

	// newer sample replaces the row
	applied, err = repo.Upsert(ctx, location.Sample{EmployeeID: empID, Latitude: -6.3, Longitude: 106.9, CapturedAt: newer})
	require.NoError(t, err)
	assert.True(t, applied)

	// stale sample is rejected and the row is untouched
	applied, err = repo.Upsert(ctx, location.Sample{EmployeeID: empID, Latitude: 0, Longitude: 0, CapturedAt: older})
	require.NoError(t, err)
	assert.False(t, applied)

	samples, err := repo.LatestForEmployees(ctx, []string{empID})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, -6.3, samples[0].Latitude)
	assert.True(t, samples[0].CapturedAt.Equal(newer))
}

func TestLocationUpsertEqualTimestampApplies(t *testing.T) {
	db := testDB(t)
	truncateTables(t, db)
	ctx := context.Background()
	repo := postgresql.NewLocationRepository(db)

	empID := createTestEmployee(t, db, nil, "Ana")
	at := utcTime(2024, 1, 15, 10, 0)

	applied, err := repo.Upsert(ctx, location.Sample{EmployeeID: empID, Latitude: -6.2, Longitude: 106.8, CapturedAt: at})
	require.NoError(t, err)
	assert.True(t, applied)

	// a re-sent report with the same captured_at overwrites
	applied, err = repo.Upsert(ctx, location.Sample{EmployeeID: empID, Latitude: -6.25, Longitude: 106.85, CapturedAt: at})
	require.NoError(t, err)
	assert.True(t, applied)

	samples, err := repo.LatestForEmployees(ctx, []string{empID})
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, -6.25, samples[0].Latitude)
}

func TestLatestForEmployees(t *testing.T) {
	db := testDB(t)
	truncateTables(t, db)
	ctx := context.Background()
	repo := postgresql.NewLocationRepository(db)

	emp1 := createTestEmployee(t, db, nil, "Ana")
	emp2 := createTestEmployee(t, db, nil, "Budi")
	emp3 := createTestEmployee(t, db, nil, "Citra")

	at := utcTime(2024, 1, 15, 10, 0)
	_, err := repo.Upsert(ctx, location.Sample{EmployeeID: emp1, Latitude: -6.2, Longitude: 106.8, CapturedAt: at})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, location.Sample{EmployeeID: emp2, Latitude: -6.3, Longitude: 106.9, CapturedAt: at})
	require.NoError(t, err)

	// emp3 never reported and is absent from the result
	samples, err := repo.LatestForEmployees(ctx, []string{emp1, emp2, emp3})
	require.NoError(t, err)
	assert.Len(t, samples, 2)

	// empty id list short-circuits
	samples, err = repo.LatestForEmployees(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, samples)
}
