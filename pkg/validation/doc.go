// Package validation implements the pre-flight consistency checks for
// OAuth2/OIDC client configurations before they are submitted to the
// Digdir self-service API.
//
// The engine is advisory: the identity provider remains authoritative.
// Its job is to catch misconfiguration early and explain consequences
// in structured, translatable terms.
//
// # Overview
//
// The validation package provides:
//   - Syntactic URI parsing (ParseURI)
//   - Redirect/post-logout URI policy rules per application type
//   - Front-channel logout origin matching against registered redirect URIs
//   - Scope lifetime analysis (access-token and authorization lifetimes
//     against each granted scope's declared maximums)
//   - Aggregation of all findings into a single Report
//
// # Basic Usage
//
//	import "github.com/forvalt/klientportal/pkg/validation"
//
//	validator := validation.NewValidator()
//
//	draft := validation.ClientDraft{
//		ApplicationType:              validation.ApplicationTypeWeb,
//		RedirectURIs:                 []string{"https://app.example.com/callback"},
//		PostLogoutRedirectURIs:       []string{"https://app.example.com/logout"},
//		AccessTokenLifetimeSeconds:   3600,
//		AuthorizationLifetimeSeconds: 7200,
//		ScopeNames:                   []string{"difi:clientreg"},
//	}
//
//	report, err := validator.Validate(draft, scopes)
//	if err != nil {
//		// caller bug (e.g. unknown application type), not a validation finding
//		return err
//	}
//	if report.HasIssues {
//		// block submission on URI errors, render advisories for scope conflicts
//	}
//
// # Error Model
//
// Expected, data-dependent problems (a bad URI, a lifetime conflict) are
// returned as values inside the Report, never as errors. Errors from
// Validate indicate a violated precondition, i.e. a caller bug.
//
// All messages in Outcome, ScopeConflict and Remediation are translation
// keys. Rendering and localization belong to the UI layer consuming the
// report.
//
// Every function in this package is pure and stateless; concurrent use
// needs no synchronization.
package validation
