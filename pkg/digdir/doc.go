// Package digdir is the portal's client for the Digdir self-service
// API: scope catalog queries and client registration against
// ID-porten/Maskinporten.
//
// Authentication uses the maskinporten JWT-bearer grant: an RS256
// assertion signed with the portal's own integration key is exchanged
// for an access token, which is cached until shortly before expiry.
//
// The CatalogAdapter implements scopecatalog.ScopeRepository on top of
// the API with a bounded TTL cache per (query, organization) pair, so
// that repeated validations of the same draft do not hammer the scope
// endpoints. The cache is invalidation-aware: Invalidate drops all
// entries for an organization.
package digdir
