package digdir

import (
	"github.com/forvalt/klientportal/pkg/clientregistry"
	"github.com/forvalt/klientportal/pkg/validation"
)

// Wire-format values accepted by the self-service API.
const (
	grantTypeAuthorizationCode = "authorization_code"
	grantTypeRefreshToken      = "refresh_token"

	authMethodClientSecretBasic = "client_secret_basic"
	authMethodPrivateKeyJwt     = "private_key_jwt"
	authMethodNone              = "none"
)

// clientRegistration is the registration payload of the self-service API.
type clientRegistration struct {
	ClientName             string   `json:"client_name"`
	Description            string   `json:"description"`
	ClientOrgno            string   `json:"client_orgno,omitempty"`
	ApplicationType        string   `json:"application_type"`
	IntegrationType        string   `json:"integration_type"`
	GrantTypes             []string `json:"grant_types"`
	TokenEndpointAuthMeth  string   `json:"token_endpoint_auth_method"`
	RedirectURIs           []string `json:"redirect_uris"`
	PostLogoutRedirectURIs []string `json:"post_logout_redirect_uris"`
	FrontchannelLogoutURI  string   `json:"frontchannel_logout_uri,omitempty"`
	AccessTokenLifetime    int      `json:"access_token_lifetime"`
	AuthorizationLifetime  int      `json:"authorization_lifetime"`
	RefreshTokenLifetime   int      `json:"refresh_token_lifetime,omitempty"`
	RefreshTokenUsage      string   `json:"refresh_token_usage,omitempty"`
	Scopes                 []string `json:"scopes"`
	SSODisabled            bool     `json:"sso_disabled"`
}

// toWireRegistration maps a portal registration onto the self-service
// API payload. Maskinporten clients use the JWT bearer grant with key
// based authentication; browser clients get no client secret.
func toWireRegistration(c *clientregistry.Client) clientRegistration {
	reg := clientRegistration{
		ClientName:             c.ClientName,
		Description:            c.Description,
		ClientOrgno:            c.Orgno,
		ApplicationType:        string(c.ApplicationType),
		IntegrationType:        string(c.IntegrationType),
		RedirectURIs:           c.RedirectURIs,
		PostLogoutRedirectURIs: c.PostLogoutRedirectURIs,
		FrontchannelLogoutURI:  c.FrontchannelLogoutURI,
		AccessTokenLifetime:    c.AccessTokenLifetime,
		AuthorizationLifetime:  c.AuthorizationLifetime,
		RefreshTokenLifetime:   c.RefreshTokenLifetime,
		RefreshTokenUsage:      string(c.RefreshTokenUsage),
		Scopes:                 c.Scopes,
		SSODisabled:            c.SSODisabled,
	}

	switch c.IntegrationType {
	case clientregistry.IntegrationTypeMaskinporten:
		reg.GrantTypes = []string{jwtBearerGrantType}
		reg.TokenEndpointAuthMeth = authMethodPrivateKeyJwt
	default:
		reg.GrantTypes = []string{grantTypeAuthorizationCode, grantTypeRefreshToken}
		if c.ApplicationType == validation.ApplicationTypeBrowser {
			reg.TokenEndpointAuthMeth = authMethodNone
		} else {
			reg.TokenEndpointAuthMeth = authMethodClientSecretBasic
		}
	}
	return reg
}
