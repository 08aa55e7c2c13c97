package digdir

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forvalt/klientportal/pkg/clientregistry"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
	"github.com/forvalt/klientportal/pkg/validation"
)

type testServer struct {
	tokenRequests int32
	apiRequests   int32
	server        *httptest.Server
}

// newTestServer stands in for both the token endpoint and the
// self-service API.
func newTestServer(t *testing.T, apiHandler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ts.tokenRequests, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, jwtBearerGrantType, r.Form.Get("grant_type"))
		assert.NotEmpty(t, r.Form.Get("assertion"))
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   120,
		})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ts.apiRequests, 1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		apiHandler(w, r)
	})
	ts.server = httptest.NewServer(mux)
	t.Cleanup(ts.server.Close)
	return ts
}

func newTestClient(t *testing.T, ts *testServer) *Client {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	client, err := NewClient(Config{
		BaseURL:    ts.server.URL,
		TokenURL:   ts.server.URL + "/token",
		ClientID:   "portal-client",
		Audience:   ts.server.URL,
		Scopes:     []string{"idporten:dcr.read", "idporten:dcr.write"},
		KeyID:      "test-kid",
		PrivateKey: key,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresConfig(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	_, err = NewClient(Config{TokenURL: "https://token", PrivateKey: key})
	assert.ErrorContains(t, err, "base URL")

	_, err = NewClient(Config{BaseURL: "https://api", PrivateKey: key})
	assert.ErrorContains(t, err, "token URL")

	_, err = NewClient(Config{BaseURL: "https://api", TokenURL: "https://token"})
	assert.ErrorContains(t, err, "private key")
}

func TestClient_GetOrganizationScopes(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scopes", r.URL.Path)
		assert.Equal(t, "991825827", r.URL.Query().Get("orgno"))
		json.NewEncoder(w).Encode([]scopecatalog.ScopeRegistration{
			{Name: "nav:trygd/sykepenger", AtMaxAge: 300},
		})
	})
	client := newTestClient(t, ts)

	scopes, err := client.GetOrganizationScopes(context.Background(), "991825827")
	require.NoError(t, err)
	require.Len(t, scopes, 1)
	assert.Equal(t, "nav:trygd/sykepenger", scopes[0].Name)
	assert.Equal(t, 300, scopes[0].AtMaxAge)
}

func TestClient_TokenIsCached(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]scopecatalog.ScopeRegistration{})
	})
	client := newTestClient(t, ts)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := client.GetDelegatedScopes(ctx, "991825827")
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&ts.tokenRequests))
	assert.Equal(t, int32(3), atomic.LoadInt32(&ts.apiRequests))
}

func TestClient_GetScope_NotFound(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"scope_not_found"}`, http.StatusNotFound)
	})
	client := newTestClient(t, ts)

	_, err := client.GetScope(context.Background(), "nav:missing")
	assert.ErrorIs(t, err, scopecatalog.ErrScopeNotFound{Name: "nav:missing"})
}

func TestClient_APIError(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	client := newTestClient(t, ts)

	_, err := client.GetAccessibleScopes(context.Background(), "991825827")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "upstream unavailable")
}

func TestClient_RegisterClient(t *testing.T) {
	var payload clientRegistration
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/clients", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		json.NewEncoder(w).Encode(map[string]string{"client_id": "assigned-id"})
	})
	client := newTestClient(t, ts)

	reg := &clientregistry.Client{
		ClientName:             "skatt-innsyn",
		Orgno:                  "991825827",
		ApplicationType:        validation.ApplicationTypeWeb,
		IntegrationType:        clientregistry.IntegrationTypeIDPorten,
		RedirectURIs:           []string{"https://skatt.example.no/callback"},
		PostLogoutRedirectURIs: []string{"https://skatt.example.no/loggedout"},
		AccessTokenLifetime:    3600,
		AuthorizationLifetime:  7200,
		Scopes:                 []string{"openid", "profile"},
	}
	clientID, err := client.RegisterClient(context.Background(), reg)
	require.NoError(t, err)
	assert.Equal(t, "assigned-id", clientID)

	assert.Equal(t, "skatt-innsyn", payload.ClientName)
	assert.Equal(t, []string{grantTypeAuthorizationCode, grantTypeRefreshToken}, payload.GrantTypes)
	assert.Equal(t, authMethodClientSecretBasic, payload.TokenEndpointAuthMeth)
}

func TestToWireRegistration_GrantMapping(t *testing.T) {
	tests := []struct {
		name            string
		integrationType clientregistry.IntegrationType
		appType         validation.ApplicationType
		wantGrants      []string
		wantAuthMethod  string
	}{
		{
			name:            "maskinporten uses jwt bearer",
			integrationType: clientregistry.IntegrationTypeMaskinporten,
			appType:         validation.ApplicationTypeWeb,
			wantGrants:      []string{jwtBearerGrantType},
			wantAuthMethod:  authMethodPrivateKeyJwt,
		},
		{
			name:            "browser client gets no secret",
			integrationType: clientregistry.IntegrationTypeIDPorten,
			appType:         validation.ApplicationTypeBrowser,
			wantGrants:      []string{grantTypeAuthorizationCode, grantTypeRefreshToken},
			wantAuthMethod:  authMethodNone,
		},
		{
			name:            "web client uses basic auth",
			integrationType: clientregistry.IntegrationTypeIDPorten,
			appType:         validation.ApplicationTypeWeb,
			wantGrants:      []string{grantTypeAuthorizationCode, grantTypeRefreshToken},
			wantAuthMethod:  authMethodClientSecretBasic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := toWireRegistration(&clientregistry.Client{
				IntegrationType: tt.integrationType,
				ApplicationType: tt.appType,
			})
			assert.Equal(t, tt.wantGrants, reg.GrantTypes)
			assert.Equal(t, tt.wantAuthMethod, reg.TokenEndpointAuthMeth)
		})
	}
}

func TestCatalogAdapter_CachesLists(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/scopes/delegated"):
			json.NewEncoder(w).Encode([]scopecatalog.ScopeRegistration{{Name: "delegert:scope"}})
		default:
			json.NewEncoder(w).Encode([]scopecatalog.ScopeRegistration{{Name: "egen:scope"}})
		}
	})
	adapter := NewCatalogAdapter(newTestClient(t, ts), time.Minute)
	t.Cleanup(adapter.Stop)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		scopes, err := adapter.ListOrganizationScopes(ctx, "991825827")
		require.NoError(t, err)
		require.Len(t, scopes, 1)
		assert.Equal(t, "egen:scope", scopes[0].Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&ts.apiRequests))

	// different list key, separate fetch
	_, err := adapter.ListDelegatedScopes(ctx, "991825827")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&ts.apiRequests))

	// invalidation forces a refetch
	adapter.Invalidate("991825827")
	_, err = adapter.ListOrganizationScopes(ctx, "991825827")
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&ts.apiRequests))
}

func TestCatalogAdapter_CachesSingleScopes(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(scopecatalog.ScopeRegistration{Name: "nav:trygd/sykepenger", AtMaxAge: 120})
	})
	adapter := NewCatalogAdapter(newTestClient(t, ts), time.Minute)
	t.Cleanup(adapter.Stop)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		scope, err := adapter.GetScope(ctx, "nav:trygd/sykepenger")
		require.NoError(t, err)
		assert.Equal(t, 120, scope.AtMaxAge)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&ts.apiRequests))
}
