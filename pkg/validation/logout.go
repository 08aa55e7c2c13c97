package validation

import "strings"

// ValidateFrontChannelLogout checks that a front-channel logout URI shares
// an origin (scheme, host, port) with at least one registered redirect
// URI. The logout endpoint must be demonstrably controlled by the same
// origin as a redirect target, otherwise a logout URI could be hijacked
// to an attacker-controlled host that merely shares registration with the
// client.
//
// Native clients do not receive browser-delivered front-channel logout;
// for them the check is skipped and always succeeds.
//
// Paths are deliberately ignored: two different paths on the same origin
// match. Tightening to path-level matching is an identity-provider policy
// decision, not this engine's.
func ValidateFrontChannelLogout(raw string, appType ApplicationType, redirectURIs []string) Outcome {
	if appType == ApplicationTypeNative {
		return ok()
	}

	logout, err := ParseURI(raw)
	if err != nil {
		return fail(MsgLogoutURIInvalidOrShort)
	}

	for _, candidate := range redirectURIs {
		target, err := ParseURI(candidate)
		if err != nil {
			// An unparseable redirect URI is reported by the URI policy
			// pass; it simply cannot serve as a matching origin here.
			continue
		}
		if sameOrigin(logout, target) {
			return ok()
		}
	}

	return fail(MsgLogoutURIMismatch)
}

// sameOrigin compares scheme, host and port for exact equality, with
// absent port only equal to absent port. Scheme and host compare
// case-insensitively per RFC 3986.
func sameOrigin(a, b ParsedURI) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Host, b.Host) &&
		a.Port == b.Port
}
