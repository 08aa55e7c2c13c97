package scopecatalog

import (
	"context"
	"fmt"

	"github.com/forvalt/klientportal/pkg/validation"
)

// CatalogService exposes the merged scope catalog for an organization.
type CatalogService struct {
	repo ScopeRepository
}

// NewCatalogService creates a new catalog service with the provided
// repository.
func NewCatalogService(repo ScopeRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// CandidateScopes returns the full candidate set for an organization:
// its own scopes, scopes with a delegation source, and otherwise
// accessible scopes, merged and deduplicated by name. The first
// occurrence wins, so owned scopes take precedence over delegated and
// accessible ones.
func (s *CatalogService) CandidateScopes(ctx context.Context, orgno string) ([]ScopeRegistration, error) {
	owned, err := s.repo.ListOrganizationScopes(ctx, orgno)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization scopes: %w", err)
	}

	delegated, err := s.repo.ListDelegatedScopes(ctx, orgno)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegated scopes: %w", err)
	}

	accessible, err := s.repo.ListAccessibleScopes(ctx, orgno)
	if err != nil {
		return nil, fmt.Errorf("failed to list accessible scopes: %w", err)
	}

	seen := make(map[string]bool)
	var merged []ScopeRegistration
	for _, group := range [][]ScopeRegistration{owned, delegated, accessible} {
		for _, scope := range group {
			if seen[scope.Name] {
				continue
			}
			seen[scope.Name] = true
			merged = append(merged, scope)
		}
	}

	return merged, nil
}

// CandidateMetadata returns the candidate set converted into the
// validation engine's input shape.
func (s *CatalogService) CandidateMetadata(ctx context.Context, orgno string) ([]validation.ScopeMetadata, error) {
	scopes, err := s.CandidateScopes(ctx, orgno)
	if err != nil {
		return nil, err
	}

	metadata := make([]validation.ScopeMetadata, 0, len(scopes))
	for _, scope := range scopes {
		metadata = append(metadata, scope.ToMetadata())
	}
	return metadata, nil
}
