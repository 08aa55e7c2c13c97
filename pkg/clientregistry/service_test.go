package clientregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forvalt/klientportal/pkg/notify"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
	"github.com/forvalt/klientportal/pkg/validation"
)

const testOrgno = "991825827"

func newTestCatalog() *scopecatalog.CatalogService {
	repo := scopecatalog.NewInMemoryScopeRepository()
	repo.AddScope(scopecatalog.ScopeRegistration{
		Name:                     "difi:clientreg",
		OwnerOrgno:               testOrgno,
		AtMaxAge:                 600,
		AuthorizationMaxLifetime: 3600,
		Active:                   true,
	})
	return scopecatalog.NewCatalogService(repo)
}

func validParams() CreateClientParams {
	return CreateClientParams{
		ClientName:             "min-klient",
		Orgno:                  testOrgno,
		ApplicationType:        validation.ApplicationTypeWeb,
		IntegrationType:        IntegrationTypeIDPorten,
		RedirectURIs:           []string{"https://app.example.no/callback"},
		PostLogoutRedirectURIs: []string{"https://app.example.no/logout"},
		AccessTokenLifetime:    300,
		AuthorizationLifetime:  1800,
		Scopes:                 []string{"openid", "profile"},
	}
}

func TestRegistryServiceCreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("valid configuration is stored without issues", func(t *testing.T) {
		service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(), WithCatalog(newTestCatalog()))

		created, report, err := service.CreateClient(ctx, validParams())
		require.NoError(t, err)
		assert.False(t, report.HasIssues)
		assert.Equal(t, StatusDraft, created.Status)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("hard URI errors block creation", func(t *testing.T) {
		repo := NewInMemoryClientRepository()
		service := NewRegistryServiceWithOptions(repo, WithCatalog(newTestCatalog()))

		params := validParams()
		params.RedirectURIs = []string{"ftp://app.example.no/callback"}

		_, report, err := service.CreateClient(ctx, params)
		require.Error(t, err)
		var invalidErr ErrInvalidClientConfig
		require.ErrorAs(t, err, &invalidErr)
		assert.Len(t, report.URIErrors, 1)

		count, err := repo.CountClients(ctx, testOrgno)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("scope conflicts are advisory and do not block", func(t *testing.T) {
		service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(), WithCatalog(newTestCatalog()))

		params := validParams()
		params.Scopes = []string{"difi:clientreg"}
		params.AccessTokenLifetime = 3600   // above the scope's 600s maximum
		params.AuthorizationLifetime = 7200 // above the scope's 3600s maximum

		created, report, err := service.CreateClient(ctx, params)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.True(t, report.HasIssues)
		assert.Len(t, report.ScopeConflicts, 2)
		assert.Empty(t, report.URIErrors)
	})

	t.Run("front-channel logout URI is validated with the post-logout rules", func(t *testing.T) {
		service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(), WithCatalog(newTestCatalog()))

		params := validParams()
		params.FrontchannelLogoutURI = "https://annet-domene.example.no/frontchannel"

		_, report, err := service.CreateClient(ctx, params)
		require.Error(t, err)
		require.Len(t, report.URIErrors, 1)
		assert.Equal(t, validation.MsgLogoutURIMismatch, report.URIErrors[0].Outcome.Message)
	})

	t.Run("client secret is encrypted at rest", func(t *testing.T) {
		encryption, err := NewEncryptionService("test-nokkel")
		require.NoError(t, err)

		repo := NewInMemoryClientRepository()
		service := NewRegistryServiceWithOptions(repo,
			WithCatalog(newTestCatalog()),
			WithEncryption(encryption),
		)

		params := validParams()
		params.ClientSecret = "svært-hemmelig"

		created, _, err := service.CreateClient(ctx, params)
		require.NoError(t, err)
		assert.NotEqual(t, "svært-hemmelig", created.ClientSecret)

		decrypted, err := encryption.Decrypt(created.ClientSecret)
		require.NoError(t, err)
		assert.Equal(t, "svært-hemmelig", decrypted)
	})

	t.Run("duplicate client name is rejected by the repository", func(t *testing.T) {
		service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(), WithCatalog(newTestCatalog()))

		_, _, err := service.CreateClient(ctx, validParams())
		require.NoError(t, err)

		_, _, err = service.CreateClient(ctx, validParams())
		var taken ErrClientNameTaken
		require.ErrorAs(t, err, &taken)
		assert.Equal(t, "min-klient", taken.ClientName)
	})

	t.Run("creation notifies the configured address", func(t *testing.T) {
		mock := notify.NewMockNotifier()
		service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(),
			WithCatalog(newTestCatalog()),
			WithNotifier(notify.NewManager(mock), "drift@example.no"),
		)

		_, _, err := service.CreateClient(ctx, validParams())
		require.NoError(t, err)
		assert.Equal(t, 1, mock.SentCount())
	})
}

func TestRegistryServiceUpdateClient(t *testing.T) {
	ctx := context.Background()
	service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(), WithCatalog(newTestCatalog()))

	created, _, err := service.CreateClient(ctx, validParams())
	require.NoError(t, err)

	t.Run("partial update re-validates the merged result", func(t *testing.T) {
		badURIs := []string{"https://app.example.no/cb#frag"}
		_, report, err := service.UpdateClient(ctx, UpdateClientParams{
			ID:           created.ID,
			RedirectURIs: badURIs,
		})
		require.Error(t, err)
		var invalidErr ErrInvalidClientConfig
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, validation.MsgNoFragmentAllowed, report.URIErrors[0].Outcome.Message)

		// Stored record unchanged after the rejected update.
		stored, err := service.GetClient(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, validParams().RedirectURIs, stored.RedirectURIs)
	})

	t.Run("nil fields are left unchanged", func(t *testing.T) {
		newName := "ny-klient"
		updated, report, err := service.UpdateClient(ctx, UpdateClientParams{
			ID:         created.ID,
			ClientName: &newName,
		})
		require.NoError(t, err)
		assert.False(t, report.HasIssues)
		assert.Equal(t, "ny-klient", updated.ClientName)
		assert.Equal(t, validParams().RedirectURIs, updated.RedirectURIs)
	})
}

type fakeRegistrar struct {
	clientID string
	calls    int
}

func (f *fakeRegistrar) RegisterClient(ctx context.Context, client *Client) (string, error) {
	f.calls++
	return f.clientID, nil
}

func TestRegistryServiceSubmit(t *testing.T) {
	ctx := context.Background()
	registrar := &fakeRegistrar{clientID: "idporten-abc123"}
	mock := notify.NewMockNotifier()

	service := NewRegistryServiceWithOptions(NewInMemoryClientRepository(),
		WithCatalog(newTestCatalog()),
		WithRegistrar(registrar),
		WithNotifier(notify.NewManager(mock), "drift@example.no"),
	)

	created, _, err := service.CreateClient(ctx, validParams())
	require.NoError(t, err)

	submitted, err := service.Submit(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, registrar.calls)
	assert.Equal(t, "idporten-abc123", submitted.ClientID)
	assert.Equal(t, StatusRegistered, submitted.Status)
	// One notification for creation, one for registration.
	assert.Equal(t, 2, mock.SentCount())
}
