package scopecatalog

import (
	"context"
	"fmt"
)

// ErrScopeNotFound indicates a scope name missing from the catalog.
// Callers composing validation input treat this as "no data", never as
// a finding.
type ErrScopeNotFound struct {
	Name string
}

func (e ErrScopeNotFound) Error() string {
	return fmt.Sprintf("scope not found: %s", e.Name)
}

// ScopeRepository defines the catalog's data access operations. The
// three List methods correspond to the three scope-visibility queries
// the self-service API exposes.
type ScopeRepository interface {
	// GetScope retrieves a scope registration by its full name
	GetScope(ctx context.Context, name string) (*ScopeRegistration, error)

	// ListOrganizationScopes returns scopes owned by the organization
	ListOrganizationScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error)

	// ListDelegatedScopes returns scopes made available to the
	// organization through a delegation source
	ListDelegatedScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error)

	// ListAccessibleScopes returns scopes the organization can request
	// access to, including those accessible for all
	ListAccessibleScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error)
}
