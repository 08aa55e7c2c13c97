package scopecatalog

import (
	"context"
	"sort"
	"sync"
)

// InMemoryScopeRepository implements ScopeRepository using in-memory
// storage. Intended for tests and demo deployments.
type InMemoryScopeRepository struct {
	mu     sync.RWMutex
	scopes map[string]ScopeRegistration
	access map[string]map[string]bool // scope name -> orgno -> granted
}

// NewInMemoryScopeRepository creates a new in-memory scope repository.
func NewInMemoryScopeRepository() *InMemoryScopeRepository {
	return &InMemoryScopeRepository{
		scopes: make(map[string]ScopeRegistration),
		access: make(map[string]map[string]bool),
	}
}

// AddScope registers a scope in the catalog, replacing any previous
// registration with the same name.
func (r *InMemoryScopeRepository) AddScope(scope ScopeRegistration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes[scope.Name] = scope
}

// GrantAccess records that an organization has been granted access to a
// scope.
func (r *InMemoryScopeRepository) GrantAccess(scopeName, orgno string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.access[scopeName] == nil {
		r.access[scopeName] = make(map[string]bool)
	}
	r.access[scopeName][orgno] = true
}

// GetScope retrieves a scope registration by its full name.
func (r *InMemoryScopeRepository) GetScope(ctx context.Context, name string) (*ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scope, exists := r.scopes[name]
	if !exists {
		return nil, ErrScopeNotFound{Name: name}
	}
	return &scope, nil
}

// ListOrganizationScopes returns scopes owned by the organization.
func (r *InMemoryScopeRepository) ListOrganizationScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if scope.Active && scope.OwnerOrgno == orgno {
			result = append(result, scope)
		}
	}
	sortScopesByName(result)
	return result, nil
}

// ListDelegatedScopes returns scopes with a delegation source that the
// organization has been granted access to.
func (r *InMemoryScopeRepository) ListDelegatedScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if scope.Active && scope.DelegationSource != "" && r.access[scope.Name][orgno] {
			result = append(result, scope)
		}
	}
	sortScopesByName(result)
	return result, nil
}

// ListAccessibleScopes returns scopes the organization can use, either
// through an explicit grant or because the scope is accessible for all.
func (r *InMemoryScopeRepository) ListAccessibleScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []ScopeRegistration
	for _, scope := range r.scopes {
		if !scope.Active {
			continue
		}
		if scope.AccessibleForAll || r.access[scope.Name][orgno] {
			result = append(result, scope)
		}
	}
	sortScopesByName(result)
	return result, nil
}

// Map iteration order is random; listings sort by name so candidate
// sets stay stable across calls.
func sortScopesByName(scopes []ScopeRegistration) {
	sort.Slice(scopes, func(i, j int) bool {
		return scopes[i].Name < scopes[j].Name
	})
}
