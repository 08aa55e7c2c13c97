package scopecatalog

import (
	"time"

	"github.com/forvalt/klientportal/pkg/validation"
)

// Visibility controls who can see a scope in the catalog.
type Visibility string

const (
	VisibilityPublic   Visibility = "PUBLIC"
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityInternal Visibility = "INTERNAL"
)

// ScopeRegistration is a scope's catalog entry as registered with the
// identity provider. Lifetime fields are in seconds; zero means the
// scope declares no maximum.
type ScopeRegistration struct {
	Name                     string     `json:"name"`
	Prefix                   string     `json:"prefix"`
	Subscope                 string     `json:"subscope"`
	Description              string     `json:"description,omitempty"`
	OwnerOrgno               string     `json:"owner_orgno,omitempty"`
	AtMaxAge                 int        `json:"at_max_age,omitempty"`
	AuthorizationMaxLifetime int        `json:"authorization_max_lifetime,omitempty"`
	DelegationSource         string     `json:"delegation_source,omitempty"`
	Visibility               Visibility `json:"visibility,omitempty"`
	AllowedIntegrationTypes  []string   `json:"allowed_integration_types,omitempty"`
	AccessibleForAll         bool       `json:"accessible_for_all"`
	Active                   bool       `json:"active"`
	CreatedAt                time.Time  `json:"created,omitempty"`
	LastUpdated              time.Time  `json:"last_updated,omitempty"`
}

// ToMetadata converts the registration into the validation engine's
// input shape. Zero lifetimes become nil so that an undeclared maximum
// can never produce a conflict.
func (s ScopeRegistration) ToMetadata() validation.ScopeMetadata {
	meta := validation.ScopeMetadata{Name: s.Name}
	if s.AtMaxAge > 0 {
		v := s.AtMaxAge
		meta.MaxAccessTokenLifetimeSeconds = &v
	}
	if s.AuthorizationMaxLifetime > 0 {
		v := s.AuthorizationMaxLifetime
		meta.MaxAuthorizationLifetimeSeconds = &v
	}
	return meta
}
