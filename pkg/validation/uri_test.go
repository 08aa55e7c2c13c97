package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	uri, err := ParseURI("https://a.example:8443/cb#frag")
	require.NoError(t, err)
	assert.Equal(t, "https", uri.Scheme)
	assert.Equal(t, "a.example", uri.Host)
	assert.Equal(t, "8443", uri.Port)
	assert.Equal(t, "frag", uri.Fragment)

	uri, err = ParseURI("custom-scheme://app")
	require.NoError(t, err)
	assert.Equal(t, "custom-scheme", uri.Scheme)
	assert.Equal(t, "app", uri.Host)
	assert.Empty(t, uri.Port)

	_, err = ParseURI("http://[::1")
	require.Error(t, err)
	var invalidErr *InvalidURIError
	assert.ErrorAs(t, err, &invalidErr)
}

func TestValidateRedirectURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		appType ApplicationType
		wantMsg string // empty means success
	}{
		{
			name:    "valid https for web",
			uri:     "https://example.com",
			appType: ApplicationTypeWeb,
		},
		{
			name:    "valid https with path and port for browser",
			uri:     "https://app.example.com:8443/callback",
			appType: ApplicationTypeBrowser,
		},
		{
			name:    "http allowed for web",
			uri:     "http://localhost:3000/callback",
			appType: ApplicationTypeWeb,
		},
		{
			name:    "custom scheme allowed for native",
			uri:     "custom-scheme://app",
			appType: ApplicationTypeNative,
		},
		{
			name:    "fragment rejected for web",
			uri:     "https://example.com/cb#section",
			appType: ApplicationTypeWeb,
			wantMsg: MsgNoFragmentAllowed,
		},
		{
			name:    "fragment rejected for browser",
			uri:     "https://example.com/cb#section",
			appType: ApplicationTypeBrowser,
			wantMsg: MsgNoFragmentAllowed,
		},
		{
			name:    "fragment rejected even for native",
			uri:     "custom-scheme://app/cb#section",
			appType: ApplicationTypeNative,
			wantMsg: MsgNoFragmentAllowed,
		},
		{
			name:    "fragment checked before scheme restriction",
			uri:     "ftp://example.com/cb#x",
			appType: ApplicationTypeWeb,
			wantMsg: MsgNoFragmentAllowed,
		},
		{
			name:    "missing scheme",
			uri:     "/relative/path",
			appType: ApplicationTypeWeb,
			wantMsg: MsgMissingScheme,
		},
		{
			name:    "missing scheme for native",
			uri:     "example.com/callback",
			appType: ApplicationTypeNative,
			wantMsg: MsgMissingScheme,
		},
		{
			name:    "ftp rejected for web",
			uri:     "ftp://example.com",
			appType: ApplicationTypeWeb,
			wantMsg: MsgInvalidSchemeForWebOrBrowser,
		},
		{
			name:    "custom scheme rejected for browser",
			uri:     "custom-scheme://app",
			appType: ApplicationTypeBrowser,
			wantMsg: MsgInvalidSchemeForWebOrBrowser,
		},
		{
			name:    "scheme matching is case-insensitive",
			uri:     "HTTPS://example.com/callback",
			appType: ApplicationTypeWeb,
		},
		{
			name:    "empty host for web",
			uri:     "https:///path",
			appType: ApplicationTypeWeb,
			wantMsg: MsgMissingHost,
		},
		{
			name:    "empty host for native with https",
			uri:     "https:///path",
			appType: ApplicationTypeNative,
			wantMsg: MsgMissingHost,
		},
		{
			name:    "no host requirement for non-http scheme on native",
			uri:     "urn:example:callback",
			appType: ApplicationTypeNative,
		},
		{
			name:    "unparseable input",
			uri:     "http://[::1",
			appType: ApplicationTypeWeb,
			wantMsg: MsgInvalidURI,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := ValidateRedirectURI(tc.uri, tc.appType)
			if tc.wantMsg == "" {
				assert.True(t, out.Success, "expected success, got message %q", out.Message)
				assert.Empty(t, out.Message)
			} else {
				assert.False(t, out.Success)
				assert.Equal(t, tc.wantMsg, out.Message)
			}
		})
	}
}

func TestParseApplicationType(t *testing.T) {
	for _, raw := range []string{"web", "browser", "native"} {
		appType, err := ParseApplicationType(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, string(appType))
	}

	_, err := ParseApplicationType("desktop")
	require.Error(t, err)
	var unknownErr *UnknownApplicationTypeError
	assert.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "desktop", unknownErr.Value)
}
