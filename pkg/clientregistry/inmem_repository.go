package clientregistry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryClientRepository implements ClientRepository using in-memory
// storage. Intended for tests and demo deployments.
type InMemoryClientRepository struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewInMemoryClientRepository creates a new in-memory client repository.
func NewInMemoryClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{
		clients: make(map[uuid.UUID]*Client),
	}
}

// GetClient retrieves a registration by its portal ID.
func (r *InMemoryClientRepository) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, exists := r.clients[id]
	if !exists {
		return nil, ErrClientNotFound{ID: id}
	}
	copied := *client
	return &copied, nil
}

// GetClientByName retrieves a registration by organization and name.
func (r *InMemoryClientRepository) GetClientByName(ctx context.Context, orgno, clientName string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, client := range r.clients {
		if client.Orgno == orgno && client.ClientName == clientName {
			copied := *client
			return &copied, nil
		}
	}
	return nil, ErrClientNotFound{}
}

// CreateClient persists a new registration and returns it.
func (r *InMemoryClientRepository) CreateClient(ctx context.Context, client *Client) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.clients {
		if existing.Orgno == client.Orgno && existing.ClientName == client.ClientName {
			return nil, ErrClientNameTaken{ClientName: client.ClientName, Orgno: client.Orgno}
		}
	}

	now := time.Now().UTC()
	copied := *client
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	copied.CreatedAt = now
	copied.UpdatedAt = now

	r.clients[copied.ID] = &copied
	result := copied
	return &result, nil
}

// UpdateClient persists changes to an existing registration.
func (r *InMemoryClientRepository) UpdateClient(ctx context.Context, client *Client) (*Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.clients[client.ID]
	if !exists {
		return nil, ErrClientNotFound{ID: client.ID}
	}

	copied := *client
	copied.CreatedAt = existing.CreatedAt
	copied.UpdatedAt = time.Now().UTC()

	r.clients[copied.ID] = &copied
	result := copied
	return &result, nil
}

// DeleteClient removes a registration.
func (r *InMemoryClientRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[id]; !exists {
		return ErrClientNotFound{ID: id}
	}
	delete(r.clients, id)
	return nil
}

// ListClients returns registrations for an organization, newest first.
func (r *InMemoryClientRepository) ListClients(ctx context.Context, params ListClientsParams) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Client
	for _, client := range r.clients {
		if params.Orgno != "" && client.Orgno != params.Orgno {
			continue
		}
		copied := *client
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ClientName < result[j].ClientName
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if params.Offset > 0 {
		if int(params.Offset) >= len(result) {
			return nil, nil
		}
		result = result[params.Offset:]
	}
	if params.Limit > 0 && int(params.Limit) < len(result) {
		result = result[:params.Limit]
	}
	return result, nil
}

// CountClients returns the number of registrations for an organization.
func (r *InMemoryClientRepository) CountClients(ctx context.Context, orgno string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, client := range r.clients {
		if orgno == "" || client.Orgno == orgno {
			count++
		}
	}
	return count, nil
}

// WithTx returns the repository unchanged; in-memory storage has no
// transactions.
func (r *InMemoryClientRepository) WithTx(tx interface{}) ClientRepository {
	return r
}
