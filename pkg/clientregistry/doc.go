// Package clientregistry manages the portal's OAuth2/OIDC client
// registrations for Maskinporten and ID-porten integrations.
//
// A registration starts life as a local draft, is validated by
// pkg/validation against the organization's scope catalog, and is only
// submitted to the Digdir self-service API once it carries no hard URI
// errors. Scope lifetime conflicts are advisory; they are returned with
// the stored record but do not block persistence.
//
// # Basic Usage
//
//	repo := clientregistry.NewInMemoryClientRepository()
//	service := clientregistry.NewRegistryServiceWithOptions(repo,
//		clientregistry.WithCatalog(catalogService),
//		clientregistry.WithEncryption(encryptionService),
//	)
//
//	client, report, err := service.CreateClient(ctx, params)
//	if err != nil {
//		// hard failure: invalid configuration or storage error
//	}
//	if report.HasIssues {
//		// advisory scope conflicts to surface in the UI
//	}
//
// # Storage
//
// Repositories exist for in-memory storage (tests, demos) and
// PostgreSQL (production). Client secrets are encrypted at rest with
// AES-256-GCM when an EncryptionService is configured.
package clientregistry
