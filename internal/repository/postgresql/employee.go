package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldtrack/fieldtrack-backend-go/internal/domain/employee"
	"github.com/fieldtrack/fieldtrack-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, manager_id, full_name, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&e.ID, &e.ManagerID, &e.FullName, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by ID: %w", err)
	}

	return e, nil
}

// ListIDsByManager implements employee.EmployeeRepository.
func (r *employeeRepository) ListIDsByManager(ctx context.Context, managerID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id
		FROM employees
		WHERE manager_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees by manager: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// IsOnTeam implements employee.EmployeeRepository.
func (r *employeeRepository) IsOnTeam(ctx context.Context, managerID string, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM employees
			WHERE id = $1
			  AND manager_id = $2
		)
	`

	var onTeam bool
	if err := q.QueryRow(ctx, query, employeeID, managerID).Scan(&onTeam); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}

	return onTeam, nil
}
