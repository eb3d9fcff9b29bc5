package client

import (
	"context"
)

// ClientRepository is a read-only lookup into client and assignment data
// maintained by an external collaborator.
type ClientRepository interface {
	// GetByID retrieves a client by ID
	GetByID(ctx context.Context, id string) (Client, error)

	// IsAssigned reports whether clientID is assigned to employeeID
	IsAssigned(ctx context.Context, employeeID string, clientID string) (bool, error)
}
