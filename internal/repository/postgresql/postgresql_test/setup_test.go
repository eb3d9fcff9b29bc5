package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

var (
	testDBOnce sync.Once
	sharedDB   *database.DB
	setupErr   error
)

const testSchema = `
CREATE TABLE IF NOT EXISTS employees (
	id UUID PRIMARY KEY,
	manager_id UUID,
	full_name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clients (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	geofence_radius_m INTEGER,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS employee_clients (
	employee_id UUID NOT NULL REFERENCES employees(id),
	client_id UUID NOT NULL REFERENCES clients(id),
	PRIMARY KEY (employee_id, client_id)
);

CREATE TABLE IF NOT EXISTS sessions (
	id UUID PRIMARY KEY,
	employee_id UUID NOT NULL REFERENCES employees(id),
	client_id UUID NOT NULL REFERENCES clients(id),
	status TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	ended_at TIMESTAMPTZ,
	start_latitude DOUBLE PRECISION NOT NULL,
	start_longitude DOUBLE PRECISION NOT NULL,
	end_latitude DOUBLE PRECISION,
	end_longitude DOUBLE PRECISION,
	closed_by UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS sessions_one_active
	ON sessions (employee_id) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS employee_locations (
	employee_id UUID PRIMARY KEY REFERENCES employees(id),
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	captured_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// testDB connects once per test binary and bootstraps the schema. Tests are
// skipped when TEST_DATABASE_URL is not set.
func testDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	testDBOnce.Do(func() {
		sharedDB, setupErr = database.NewPostgreSQLDB(dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
		if setupErr != nil {
			return
		}
		_, setupErr = sharedDB.Exec(context.Background(), testSchema)
	})
	require.NoError(t, setupErr)

	return sharedDB
}

func truncateTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	err := postgresql.WithTransaction(ctx, db, func(tx pgx.Tx) error {
		for _, table := range []string{"employee_locations", "sessions", "employee_clients", "employees", "clients"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func createTestEmployee(t *testing.T, db *database.DB, managerID *string, fullName string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(), `
		INSERT INTO employees (id, manager_id, full_name)
		VALUES ($1, $2, $3)
	`, id, managerID, fullName)
	require.NoError(t, err)
	return id
}

func createTestClient(t *testing.T, db *database.DB, name string, radiusM *int) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.Exec(context.Background(), `
		INSERT INTO clients (id, name, latitude, longitude, geofence_radius_m)
		VALUES ($1, $2, -6.2, 106.8, $3)
	`, id, name, radiusM)
	require.NoError(t, err)
	return id
}

func assignClient(t *testing.T, db *database.DB, employeeID, clientID string) {
	t.Helper()
	_, err := db.Exec(context.Background(), `
		INSERT INTO employee_clients (employee_id, client_id)
		VALUES ($1, $2)
	`, employeeID, clientID)
	require.NoError(t, err)
}

func utcTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}
