package employee

import (
	"context"
)

// EmployeeRepository is a read-only lookup into assignment data maintained
// by an external collaborator.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListIDsByManager returns the IDs of every employee reporting to the manager
	ListIDsByManager(ctx context.Context, managerID string) ([]string, error)

	// IsOnTeam reports whether employeeID reports to managerID
	IsOnTeam(ctx context.Context, managerID string, employeeID string) (bool, error)
}
