package validation

import "fmt"

// Validator runs the full rule set over a client draft. It is stateless;
// a single instance can be shared across goroutines.
type Validator struct{}

// NewValidator creates a new client configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate runs the URI policy over every redirect and post-logout URI,
// the front-channel logout origin check once per post-logout URI, and the
// scope lifetime analysis over all granted scopes, then aggregates
// everything into one Report.
//
// The whole batch is always evaluated; an early bad URI never masks later
// ones. Validate only returns an error for precondition violations (an
// unknown application type), never for validation findings.
func (v *Validator) Validate(draft ClientDraft, scopes []ScopeMetadata) (Report, error) {
	if !draft.ApplicationType.Valid() {
		return Report{}, &UnknownApplicationTypeError{Value: string(draft.ApplicationType)}
	}

	var findings []URIFinding

	for i, raw := range draft.RedirectURIs {
		findings = append(findings, URIFinding{
			Field:   fmt.Sprintf("redirect_uris[%d]", i),
			URI:     raw,
			Outcome: ValidateRedirectURI(raw, draft.ApplicationType),
		})
	}

	for i, raw := range draft.PostLogoutRedirectURIs {
		field := fmt.Sprintf("post_logout_redirect_uris[%d]", i)
		findings = append(findings, URIFinding{
			Field:   field,
			URI:     raw,
			Outcome: ValidateRedirectURI(raw, draft.ApplicationType),
		})
		findings = append(findings, URIFinding{
			Field:   field,
			URI:     raw,
			Outcome: ValidateFrontChannelLogout(raw, draft.ApplicationType, draft.RedirectURIs),
		})
	}

	conflicts := AnalyzeScopeLifetimes(draft, scopes)

	return Aggregate(findings, conflicts), nil
}
