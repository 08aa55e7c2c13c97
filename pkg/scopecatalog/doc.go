// Package scopecatalog manages the scope metadata the portal shows to
// organizations and feeds into client configuration validation.
//
// A scope's registration carries the provider-declared maximum lifetimes
// (at_max_age for access tokens, authorization_max_lifetime for
// sessions) that can silently override a client's own settings. The
// catalog service merges the three scope-visibility queries (the
// organization's own scopes, scopes with a delegation source, and scopes
// otherwise accessible to the organization) into one deduplicated
// candidate set.
//
// # Basic Usage
//
//	repo := scopecatalog.NewInMemoryScopeRepository()
//	service := scopecatalog.NewCatalogService(repo)
//
//	// Candidate scopes for an organization, ready for validation
//	metadata, err := service.CandidateMetadata(ctx, "991825827")
//
// Repositories are available for in-memory storage (tests, demos) and
// JSON file storage (static catalogs). The live catalog is served by the
// Digdir self-service API through pkg/digdir.
package scopecatalog
