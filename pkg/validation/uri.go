package validation

import (
	"net/url"
	"strings"
)

// ParsedURI holds the URI components the policy rules inspect. Empty
// strings mean the component is absent. It is derived per call and
// never persisted.
type ParsedURI struct {
	Scheme   string
	Host     string
	Port     string
	Fragment string
}

// ParseURI decomposes raw into scheme/host/port/fragment per the generic
// URI grammar. Syntactic parsing only; no network resolution.
func ParseURI(raw string) (ParsedURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ParsedURI{}, &InvalidURIError{Raw: raw, Err: err}
	}

	return ParsedURI{
		Scheme:   u.Scheme,
		Host:     u.Hostname(),
		Port:     u.Port(),
		Fragment: u.Fragment,
	}, nil
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

// uriRule checks one policy rule against a parsed URI. A failed Outcome
// terminates the rule chain.
type uriRule func(uri ParsedURI, appType ApplicationType) Outcome

// Redirect URI rules in evaluation order. Fragment rejection and scheme
// presence are universal red flags and come before the more permissive
// host check, so the first reported error is always the most fundamental
// one.
var redirectURIRules = []uriRule{
	ruleNoFragment,
	ruleSchemeRequired,
	ruleSchemeAllowedForAppType,
	ruleHostRequiredForHTTP,
}

func runRules(uri ParsedURI, appType ApplicationType, rules []uriRule) Outcome {
	for _, rule := range rules {
		if out := rule(uri, appType); !out.Success {
			return out
		}
	}
	return ok()
}

// ValidateRedirectURI applies the redirect/post-logout URI policy for the
// given application type. The first failing rule short-circuits.
func ValidateRedirectURI(raw string, appType ApplicationType) Outcome {
	uri, err := ParseURI(raw)
	if err != nil {
		return fail(MsgInvalidURI)
	}
	return runRules(uri, appType, redirectURIRules)
}

// Fragments are stripped by user agents before redirect delivery, so a
// fragment in a registered URI is always a configuration mistake.
func ruleNoFragment(uri ParsedURI, _ ApplicationType) Outcome {
	if uri.Fragment != "" {
		return fail(MsgNoFragmentAllowed)
	}
	return ok()
}

func ruleSchemeRequired(uri ParsedURI, _ ApplicationType) Outcome {
	if uri.Scheme == "" {
		return fail(MsgMissingScheme)
	}
	return ok()
}

// Web and browser clients are confined to http(s). Native clients may
// register custom schemes for app-claimed callbacks.
func ruleSchemeAllowedForAppType(uri ParsedURI, appType ApplicationType) Outcome {
	if appType != ApplicationTypeWeb && appType != ApplicationTypeBrowser {
		return ok()
	}
	if !isHTTPScheme(uri.Scheme) {
		return fail(MsgInvalidSchemeForWebOrBrowser)
	}
	return ok()
}

func ruleHostRequiredForHTTP(uri ParsedURI, _ ApplicationType) Outcome {
	if isHTTPScheme(uri.Scheme) && uri.Host == "" {
		return fail(MsgMissingHost)
	}
	return ok()
}
