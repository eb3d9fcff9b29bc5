package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/client"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type clientRepository struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) client.ClientRepository {
	return &clientRepository{db: db}
}

// GetByID implements client.ClientRepository.
func (r *clientRepository) GetByID(ctx context.Context, id string) (client.Client, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, geofence_radius_m, created_at, updated_at
		FROM clients
		WHERE id = $1
	`

	var c client.Client
	err := q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Latitude, &c.Longitude, &c.GeofenceRadiusM, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return client.Client{}, client.ErrClientNotFound
		}
		return client.Client{}, fmt.Errorf("failed to get client by ID: %w", err)
	}

	return c, nil
}

// IsAssigned implements client.ClientRepository.
func (r *clientRepository) IsAssigned(ctx context.Context, employeeID string, clientID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM employee_clients
			WHERE employee_id = $1
			  AND client_id = $2
		)
	`

	var assigned bool
	if err := q.QueryRow(ctx, query, employeeID, clientID).Scan(&assigned); err != nil {
		return false, fmt.Errorf("failed to check client assignment: %w", err)
	}

	return assigned, nil
}
