package validation

// ApplicationType determines which URI policy rules apply to a client.
// The values match the Digdir self-service API wire format.
type ApplicationType string

const (
	ApplicationTypeWeb     ApplicationType = "web"
	ApplicationTypeBrowser ApplicationType = "browser"
	ApplicationTypeNative  ApplicationType = "native"
)

// Valid reports whether t is one of the known application types.
func (t ApplicationType) Valid() bool {
	switch t {
	case ApplicationTypeWeb, ApplicationTypeBrowser, ApplicationTypeNative:
		return true
	}
	return false
}

// ParseApplicationType converts a raw string into an ApplicationType.
func ParseApplicationType(s string) (ApplicationType, error) {
	t := ApplicationType(s)
	if !t.Valid() {
		return "", &UnknownApplicationTypeError{Value: s}
	}
	return t, nil
}

// Translation keys returned in Outcome.Message. The portal UI owns the
// translations; the engine never renders text.
const (
	MsgInvalidURI                   = "invalidUri"
	MsgNoFragmentAllowed            = "noFragmentAllowed"
	MsgMissingScheme                = "missingScheme"
	MsgInvalidSchemeForWebOrBrowser = "invalidSchemeForWebOrBrowser"
	MsgMissingHost                  = "missingHost"
	MsgLogoutURIInvalidOrShort      = "logoutUriInvalidOrShort"
	MsgLogoutURIMismatch            = "logoutUriMismatch"
)

// Outcome is the result of a single rule check. Message is a translation
// key and is only set when Success is false.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok() Outcome {
	return Outcome{Success: true}
}

func fail(key string) Outcome {
	return Outcome{Success: false, Message: key}
}

// ClientDraft is the in-memory, not-yet-persisted client configuration
// under validation. It is owned exclusively by the validation call that
// receives it and is never retained.
type ClientDraft struct {
	ApplicationType              ApplicationType
	RedirectURIs                 []string
	PostLogoutRedirectURIs       []string
	AccessTokenLifetimeSeconds   int
	AuthorizationLifetimeSeconds int
	ScopeNames                   []string
}

// ScopeMetadata carries the lifetime constraints a scope declares.
// Nil lifetime fields mean the scope declares no maximum; absence of
// data never produces a conflict.
type ScopeMetadata struct {
	Name                            string
	MaxAccessTokenLifetimeSeconds   *int
	MaxAuthorizationLifetimeSeconds *int
}

// ConflictType tags the lifetime dimension a scope conflict concerns.
type ConflictType string

const (
	ConflictAccessTokenLifetime   ConflictType = "ACCESS_TOKEN_LIFETIME_CONFLICT"
	ConflictAuthorizationLifetime ConflictType = "AUTHORIZATION_LIFETIME_CONFLICT"
)

// Severity ranks how consequential a finding is for the end user.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// ScopeConflict records one (scope, lifetime-dimension) pair where the
// scope's declared maximum is stricter than the client's own setting.
// A single scope can produce up to two conflicts.
type ScopeConflict struct {
	Type           ConflictType `json:"type"`
	ScopeName      string       `json:"scope_name"`
	ScopeLifetime  int          `json:"scope_lifetime"`
	ClientLifetime int          `json:"client_lifetime"`
	Severity       Severity     `json:"severity"`
}

// URIFinding is a rule outcome with the context needed to point the user
// at the offending form field.
type URIFinding struct {
	Field   string  `json:"field"`
	URI     string  `json:"uri"`
	Outcome Outcome `json:"outcome"`
}

// Remediation is one corrective suggestion covering a whole group of
// scope conflicts of the same type. Description and Solution are
// translation keys; Count and MinScopeLifetime are the template
// parameters the UI interpolates.
type Remediation struct {
	Type             ConflictType `json:"type"`
	Count            int          `json:"count"`
	MinScopeLifetime int          `json:"min_scope_lifetime"`
	Description      string       `json:"description"`
	Solution         string       `json:"solution"`
}

// Report is the terminal validation artifact. HasIssues is true iff
// URIErrors or ScopeConflicts is non-empty; a clean report carries
// empty sequences.
type Report struct {
	URIErrors      []URIFinding    `json:"uri_errors"`
	ScopeConflicts []ScopeConflict `json:"scope_conflicts"`
	Remediations   []Remediation   `json:"remediations"`
	HasIssues      bool            `json:"has_issues"`
}
