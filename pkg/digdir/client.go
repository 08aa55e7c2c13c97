package digdir

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/forvalt/klientportal/pkg/clientregistry"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
)

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// Config holds the portal's own integration credentials against the
// self-service API.
type Config struct {
	BaseURL    string
	TokenURL   string
	ClientID   string
	Audience   string
	Scopes     []string
	KeyID      string
	PrivateKey *rsa.PrivateKey
}

// APIError carries a non-2xx response from the self-service API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("self-service API returned %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Digdir self-service API.
type Client struct {
	config     Config
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option is a function that configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a self-service API client.
func NewClient(config Config, opts ...Option) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if config.TokenURL == "" {
		return nil, fmt.Errorf("token URL cannot be empty")
	}
	if config.PrivateKey == nil {
		return nil, fmt.Errorf("private key cannot be nil")
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// getAccessToken returns a cached token or exchanges a fresh JWT-bearer
// assertion for one.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 30s margin so a token never expires mid-request
	if c.accessToken != "" && time.Now().Add(30*time.Second).Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	assertion, err := c.buildAssertion()
	if err != nil {
		return "", fmt.Errorf("failed to build grant assertion: %w", err)
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	slog.Info("Obtained self-service API token", "expires_in", token.ExpiresIn)
	return c.accessToken, nil
}

func (c *Client) buildAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   c.config.ClientID,
		"aud":   c.config.Audience,
		"scope": strings.Join(c.config.Scopes, " "),
		"iat":   now.Unix(),
		"exp":   now.Add(2 * time.Minute).Unix(),
		"jti":   uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if c.config.KeyID != "" {
		token.Header["kid"] = c.config.KeyID
	}
	return token.SignedString(c.config.PrivateKey)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	token, err := c.getAccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

// GetOrganizationScopes returns the scopes owned by the organization.
func (c *Client) GetOrganizationScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	var scopes []scopecatalog.ScopeRegistration
	if err := c.doJSON(ctx, http.MethodGet, "/scopes?orgno="+url.QueryEscape(orgno), nil, &scopes); err != nil {
		return nil, fmt.Errorf("failed to fetch organization scopes: %w", err)
	}
	return scopes, nil
}

// GetDelegatedScopes returns scopes delegated to the organization.
func (c *Client) GetDelegatedScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	var scopes []scopecatalog.ScopeRegistration
	if err := c.doJSON(ctx, http.MethodGet, "/scopes/delegated?orgno="+url.QueryEscape(orgno), nil, &scopes); err != nil {
		return nil, fmt.Errorf("failed to fetch delegated scopes: %w", err)
	}
	return scopes, nil
}

// GetAccessibleScopes returns scopes the organization has access to.
func (c *Client) GetAccessibleScopes(ctx context.Context, orgno string) ([]scopecatalog.ScopeRegistration, error) {
	var scopes []scopecatalog.ScopeRegistration
	if err := c.doJSON(ctx, http.MethodGet, "/scopes/access?orgno="+url.QueryEscape(orgno), nil, &scopes); err != nil {
		return nil, fmt.Errorf("failed to fetch accessible scopes: %w", err)
	}
	return scopes, nil
}

// GetScope fetches a single scope registration by name.
func (c *Client) GetScope(ctx context.Context, name string) (*scopecatalog.ScopeRegistration, error) {
	var scope scopecatalog.ScopeRegistration
	err := c.doJSON(ctx, http.MethodGet, "/scopes/"+url.PathEscape(name), nil, &scope)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, scopecatalog.ErrScopeNotFound{Name: name}
		}
		return nil, fmt.Errorf("failed to fetch scope %s: %w", name, err)
	}
	return &scope, nil
}

type registrationResponse struct {
	ClientID string `json:"client_id"`
}

// RegisterClient submits a registration to the self-service API and
// returns the assigned client ID. Implements clientregistry.Registrar.
func (c *Client) RegisterClient(ctx context.Context, client *clientregistry.Client) (string, error) {
	var resp registrationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/clients", toWireRegistration(client), &resp); err != nil {
		return "", fmt.Errorf("failed to register client: %w", err)
	}

	slog.Info("Client registered with identity provider",
		"client_name", client.ClientName,
		"client_id", resp.ClientID)
	return resp.ClientID, nil
}
