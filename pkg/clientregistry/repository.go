package clientregistry

import (
	"context"

	"github.com/google/uuid"
)

// ListClientsParams represents parameters for listing registrations.
type ListClientsParams struct {
	Orgno  string
	Limit  int32
	Offset int32
}

// ClientRepository defines the interface for client registration data
// access operations.
type ClientRepository interface {
	// GetClient retrieves a registration by its portal ID
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)

	// GetClientByName retrieves a registration by organization and name
	GetClientByName(ctx context.Context, orgno, clientName string) (*Client, error)

	// CreateClient persists a new registration and returns it
	CreateClient(ctx context.Context, client *Client) (*Client, error)

	// UpdateClient persists changes to an existing registration
	UpdateClient(ctx context.Context, client *Client) (*Client, error)

	// DeleteClient removes a registration
	DeleteClient(ctx context.Context, id uuid.UUID) error

	// ListClients returns registrations for an organization
	ListClients(ctx context.Context, params ListClientsParams) ([]*Client, error)

	// CountClients returns the number of registrations for an organization
	CountClients(ctx context.Context, orgno string) (int64, error)

	// WithTx returns a repository instance bound to the provided
	// transaction (e.g. pgx.Tx for PostgreSQL)
	WithTx(tx interface{}) ClientRepository
}
