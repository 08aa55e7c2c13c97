package validation

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorValidate(t *testing.T) {
	validator := NewValidator()

	t.Run("empty draft has no issues", func(t *testing.T) {
		draft := ClientDraft{ApplicationType: ApplicationTypeWeb}

		report, err := validator.Validate(draft, nil)
		require.NoError(t, err)
		assert.False(t, report.HasIssues)
		assert.Empty(t, report.URIErrors)
		assert.Empty(t, report.ScopeConflicts)
	})

	t.Run("unknown application type is a precondition error", func(t *testing.T) {
		draft := ClientDraft{ApplicationType: "desktop"}

		_, err := validator.Validate(draft, nil)
		require.Error(t, err)
		var unknownErr *UnknownApplicationTypeError
		assert.ErrorAs(t, err, &unknownErr)
	})

	t.Run("a bad URI does not mask other bad URIs", func(t *testing.T) {
		draft := ClientDraft{
			ApplicationType: ApplicationTypeWeb,
			RedirectURIs: []string{
				"ftp://a.example/cb",
				"https://b.example/cb",
				"https://c.example/cb#frag",
			},
		}

		report, err := validator.Validate(draft, nil)
		require.NoError(t, err)
		require.Len(t, report.URIErrors, 2)
		assert.Equal(t, "redirect_uris[0]", report.URIErrors[0].Field)
		assert.Equal(t, MsgInvalidSchemeForWebOrBrowser, report.URIErrors[0].Outcome.Message)
		assert.Equal(t, "redirect_uris[2]", report.URIErrors[1].Field)
		assert.Equal(t, MsgNoFragmentAllowed, report.URIErrors[1].Outcome.Message)
	})

	t.Run("post-logout URIs get both the policy and the origin check", func(t *testing.T) {
		draft := ClientDraft{
			ApplicationType:        ApplicationTypeWeb,
			RedirectURIs:           []string{"https://a.example/cb"},
			PostLogoutRedirectURIs: []string{"https://other.example/logout"},
		}

		report, err := validator.Validate(draft, nil)
		require.NoError(t, err)
		require.Len(t, report.URIErrors, 1)
		assert.Equal(t, "post_logout_redirect_uris[0]", report.URIErrors[0].Field)
		assert.Equal(t, MsgLogoutURIMismatch, report.URIErrors[0].Outcome.Message)
	})

	t.Run("native clients skip the logout origin check", func(t *testing.T) {
		draft := ClientDraft{
			ApplicationType:        ApplicationTypeNative,
			RedirectURIs:           []string{"custom-scheme://app"},
			PostLogoutRedirectURIs: []string{"other-scheme://app/logout"},
		}

		report, err := validator.Validate(draft, nil)
		require.NoError(t, err)
		assert.False(t, report.HasIssues)
	})

	t.Run("URI errors and scope conflicts combine into one report", func(t *testing.T) {
		draft := ClientDraft{
			ApplicationType:              ApplicationTypeWeb,
			RedirectURIs:                 []string{"ftp://a.example/cb"},
			AccessTokenLifetimeSeconds:   3600,
			AuthorizationLifetimeSeconds: 7200,
			ScopeNames:                   []string{"difi:clientreg"},
		}
		scopes := []ScopeMetadata{
			{Name: "difi:clientreg", MaxAuthorizationLifetimeSeconds: intPtr(3600)},
		}

		report, err := validator.Validate(draft, scopes)
		require.NoError(t, err)
		assert.True(t, report.HasIssues)
		assert.Len(t, report.URIErrors, 1)
		assert.Len(t, report.ScopeConflicts, 1)
		assert.Len(t, report.Remediations, 1)
	})

	t.Run("identical inputs yield identical reports", func(t *testing.T) {
		draft := ClientDraft{
			ApplicationType:              ApplicationTypeBrowser,
			RedirectURIs:                 []string{"https://a.example/cb", "ftp://bad.example"},
			PostLogoutRedirectURIs:       []string{"https://a.example/logout"},
			AccessTokenLifetimeSeconds:   3600,
			AuthorizationLifetimeSeconds: 7200,
			ScopeNames:                   []string{"difi:clientreg"},
		}
		scopes := []ScopeMetadata{
			{Name: "difi:clientreg", MaxAccessTokenLifetimeSeconds: intPtr(600)},
		}

		first, err := validator.Validate(draft, scopes)
		require.NoError(t, err)
		second, err := validator.Validate(draft, scopes)
		require.NoError(t, err)
		assert.True(t, reflect.DeepEqual(first, second))
	})
}
