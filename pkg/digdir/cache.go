package digdir

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/forvalt/klientportal/pkg/scopecatalog"
)

// DefaultCacheTTL bounds how stale catalog data served from the cache
// may get before the self-service API is queried again.
const DefaultCacheTTL = 5 * time.Minute

// CatalogAdapter implements scopecatalog.ScopeRepository on top of the
// self-service API client, caching list responses per organization so
// that repeated validation runs do not hammer the API.
type CatalogAdapter struct {
	client *Client
	scopes *ttlcache.Cache[string, *scopecatalog.ScopeRegistration]
	lists  *ttlcache.Cache[string, []scopecatalog.ScopeRegistration]
}

// NewCatalogAdapter wraps the client with ttl caches. A ttl of zero
// falls back to DefaultCacheTTL. Call Stop when done to release the
// expiration goroutines.
func NewCatalogAdapter(client *Client, ttl time.Duration) *CatalogAdapter {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	a := &CatalogAdapter{
		client: client,
		scopes: ttlcache.New(ttlcache.WithTTL[string, *scopecatalog.ScopeRegistration](ttl)),
		lists:  ttlcache.New(ttlcache.WithTTL[string, []scopecatalog.ScopeRegistration](ttl)),
	}
	go a.scopes.Start()
	go a.lists.Start()
	return a
}

// Stop terminates the caches' expiration goroutines.
func (a *CatalogAdapter) Stop() {
	a.scopes.Stop()
	a.lists.Stop()
}

// Invalidate drops all cached entries for the organization. Called
// after mutations so the next read reflects the provider's state.
func (a *CatalogAdapter) Invalidate(orgno string) {
	a.lists.Delete("org:" + orgno)
	a.lists.Delete("delegated:" + orgno)
	a.lists.Delete("access:" + orgno)
}

func (a *CatalogAdapter) GetScope(ctx context.Context, name string) (*scopecatalog.ScopeRegistration, error) {
	if item := a.scopes.Get(name); item != nil {
		return item.Value(), nil
	}
	scope, err := a.client.GetScope(ctx, name)
	if err != nil {
		return nil, err
	}
	a.scopes.Set(name, scope, ttlcache.DefaultTTL)
	return scope, nil
}

func (a *CatalogAdapter) ListOrganizationScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	return a.cachedList(ctx, "org:"+orgno, orgno, a.client.GetOrganizationScopes)
}

func (a *CatalogAdapter) ListDelegatedScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	return a.cachedList(ctx, "delegated:"+orgno, orgno, a.client.GetDelegatedScopes)
}

func (a *CatalogAdapter) ListAccessibleScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	return a.cachedList(ctx, "access:"+orgno, orgno, a.client.GetAccessibleScopes)
}

func (a *CatalogAdapter) cachedList(ctx context.Context, key, orgno string,
	fetch func(context.Context, string) ([]scopecatalog.ScopeRegistration, error)) ([]scopecatalog.ScopeRegistration, error) {
	if item := a.lists.Get(key); item != nil {
		return item.Value(), nil
	}
	scopes, err := fetch(ctx, orgno)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scopes for %s: %w", orgno, err)
	}
	a.lists.Set(key, scopes, ttlcache.DefaultTTL)
	return scopes, nil
}
