package scopecatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileScopeRepository implements ScopeRepository over a JSON catalog
// file. The file holds a single array of scope registrations; access
// grants are expressed through accessible_for_all and owner_orgno only.
// Useful for static catalogs and offline development.
type FileScopeRepository struct {
	path   string
	mu     sync.RWMutex
	scopes []ScopeRegistration
}

// NewFileScopeRepository loads a scope catalog from the given JSON file.
func NewFileScopeRepository(path string) (*FileScopeRepository, error) {
	repo := &FileScopeRepository{path: path}
	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load scope catalog: %w", err)
	}
	return repo, nil
}

func (r *FileScopeRepository) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", r.path, err)
	}

	var scopes []ScopeRegistration
	if err := json.Unmarshal(data, &scopes); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", r.path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = scopes
	return nil
}

// Reload re-reads the catalog file, replacing the in-memory copy.
func (r *FileScopeRepository) Reload() error {
	return r.load()
}

// GetScope retrieves a scope registration by its full name.
func (r *FileScopeRepository) GetScope(ctx context.Context, name string) (*ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, scope := range r.scopes {
		if scope.Name == name {
			s := scope
			return &s, nil
		}
	}
	return nil, ErrScopeNotFound{Name: name}
}

// ListOrganizationScopes returns scopes owned by the organization, in
// file order.
func (r *FileScopeRepository) ListOrganizationScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if scope.Active && scope.OwnerOrgno == orgno {
			result = append(result, scope)
		}
	}
	return result, nil
}

// ListDelegatedScopes returns scopes with a delegation source. A file
// catalog carries no per-organization grants, so every active delegated
// scope is returned.
func (r *FileScopeRepository) ListDelegatedScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if scope.Active && scope.DelegationSource != "" {
			result = append(result, scope)
		}
	}
	return result, nil
}

// ListAccessibleScopes returns active scopes accessible for all.
func (r *FileScopeRepository) ListAccessibleScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if scope.Active && scope.AccessibleForAll {
			result = append(result, scope)
		}
	}
	return result, nil
}
