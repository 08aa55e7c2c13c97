package clientregistry

import (
	"time"

	"github.com/google/uuid"

	"github.com/forvalt/klientportal/pkg/validation"
)

// IntegrationType identifies which identity-provider product a client
// integrates with. Values match the self-service API wire format.
type IntegrationType string

const (
	IntegrationTypeIDPorten     IntegrationType = "idporten"
	IntegrationTypeMaskinporten IntegrationType = "maskinporten"
	IntegrationTypeAPIKlient    IntegrationType = "api_klient"
	IntegrationTypeKrr          IntegrationType = "krr"
)

// RefreshTokenUsage controls whether refresh tokens are single-use.
type RefreshTokenUsage string

const (
	RefreshTokenUsageOneTime RefreshTokenUsage = "ONETIME"
	RefreshTokenUsageReuse   RefreshTokenUsage = "REUSE"
)

// Status tracks a registration through its local lifecycle.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusSubmitted  Status = "submitted"
	StatusRegistered Status = "registered"
)

// Client is a client registration as managed by the portal. Lifetimes
// are in seconds. ClientID is empty until the identity provider assigns
// one on successful registration.
type Client struct {
	ID                     uuid.UUID                  `json:"id"`
	ClientID               string                     `json:"client_id,omitempty"`
	ClientName             string                     `json:"client_name"`
	Description            string                     `json:"description,omitempty"`
	Orgno                  string                     `json:"orgno"`
	ApplicationType        validation.ApplicationType `json:"application_type"`
	IntegrationType        IntegrationType            `json:"integration_type"`
	RedirectURIs           []string                   `json:"redirect_uris"`
	PostLogoutRedirectURIs []string                   `json:"post_logout_redirect_uris"`
	FrontchannelLogoutURI  string                     `json:"frontchannel_logout_uri,omitempty"`
	AccessTokenLifetime    int                        `json:"access_token_lifetime"`
	AuthorizationLifetime  int                        `json:"authorization_lifetime"`
	RefreshTokenLifetime   int                        `json:"refresh_token_lifetime,omitempty"`
	RefreshTokenUsage      RefreshTokenUsage          `json:"refresh_token_usage,omitempty"`
	Scopes                 []string                   `json:"scopes"`
	SSODisabled            bool                       `json:"sso_disabled"`
	ClientSecret           string                     `json:"-"`
	Status                 Status                     `json:"status"`
	CreatedAt              time.Time                  `json:"created_at"`
	UpdatedAt              time.Time                  `json:"updated_at"`
	CreatedBy              string                     `json:"created_by,omitempty"`
}

// ToDraft converts the registration into the validation engine's input
// shape. The front-channel logout URI is browser-delivered like the
// post-logout URIs and is validated under the same rules, so it joins
// that sequence when set.
func (c *Client) ToDraft() validation.ClientDraft {
	postLogout := make([]string, 0, len(c.PostLogoutRedirectURIs)+1)
	postLogout = append(postLogout, c.PostLogoutRedirectURIs...)
	if c.FrontchannelLogoutURI != "" {
		postLogout = append(postLogout, c.FrontchannelLogoutURI)
	}

	return validation.ClientDraft{
		ApplicationType:              c.ApplicationType,
		RedirectURIs:                 c.RedirectURIs,
		PostLogoutRedirectURIs:       postLogout,
		AccessTokenLifetimeSeconds:   c.AccessTokenLifetime,
		AuthorizationLifetimeSeconds: c.AuthorizationLifetime,
		ScopeNames:                   c.Scopes,
	}
}

// CreateClientParams contains parameters for creating a registration.
type CreateClientParams struct {
	ClientName             string                     `json:"client_name"`
	Description            string                     `json:"description,omitempty"`
	Orgno                  string                     `json:"orgno"`
	ApplicationType        validation.ApplicationType `json:"application_type"`
	IntegrationType        IntegrationType            `json:"integration_type"`
	RedirectURIs           []string                   `json:"redirect_uris"`
	PostLogoutRedirectURIs []string                   `json:"post_logout_redirect_uris"`
	FrontchannelLogoutURI  string                     `json:"frontchannel_logout_uri,omitempty"`
	AccessTokenLifetime    int                        `json:"access_token_lifetime"`
	AuthorizationLifetime  int                        `json:"authorization_lifetime"`
	RefreshTokenLifetime   int                        `json:"refresh_token_lifetime,omitempty"`
	RefreshTokenUsage      RefreshTokenUsage          `json:"refresh_token_usage,omitempty"`
	Scopes                 []string                   `json:"scopes"`
	SSODisabled            bool                       `json:"sso_disabled"`
	ClientSecret           string                     `json:"client_secret,omitempty"`
	CreatedBy              string                     `json:"created_by,omitempty"`
}

// UpdateClientParams contains parameters for updating a registration.
// Nil pointer fields are left unchanged; nil slices are too.
type UpdateClientParams struct {
	ID                     uuid.UUID          `json:"id"`
	ClientName             *string            `json:"client_name,omitempty"`
	Description            *string            `json:"description,omitempty"`
	RedirectURIs           []string           `json:"redirect_uris,omitempty"`
	PostLogoutRedirectURIs []string           `json:"post_logout_redirect_uris,omitempty"`
	FrontchannelLogoutURI  *string            `json:"frontchannel_logout_uri,omitempty"`
	AccessTokenLifetime    *int               `json:"access_token_lifetime,omitempty"`
	AuthorizationLifetime  *int               `json:"authorization_lifetime,omitempty"`
	RefreshTokenLifetime   *int               `json:"refresh_token_lifetime,omitempty"`
	RefreshTokenUsage      *RefreshTokenUsage `json:"refresh_token_usage,omitempty"`
	Scopes                 []string           `json:"scopes,omitempty"`
	SSODisabled            *bool              `json:"sso_disabled,omitempty"`
}
