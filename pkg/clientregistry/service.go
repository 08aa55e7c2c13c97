package clientregistry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/forvalt/klientportal/pkg/notify"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
	"github.com/forvalt/klientportal/pkg/validation"
)

// Registrar submits an approved registration to the identity provider
// and returns the assigned client ID. Implemented by pkg/digdir.
type Registrar interface {
	RegisterClient(ctx context.Context, client *Client) (string, error)
}

// RegistryService manages client registrations: validation, storage,
// submission and notification.
type RegistryService struct {
	repo       ClientRepository
	validator  *validation.Validator
	catalog    *scopecatalog.CatalogService
	encryption *EncryptionService
	notifier   *notify.Manager
	registrar  Registrar
	notifyTo   string
}

// Option is a function that configures a RegistryService.
type Option func(*RegistryService)

// WithValidator sets the validation engine. A default engine is used
// when not set.
func WithValidator(v *validation.Validator) Option {
	return func(s *RegistryService) {
		s.validator = v
	}
}

// WithCatalog sets the scope catalog used to resolve scope metadata for
// lifetime analysis. Without a catalog, scope conflicts are not
// detected.
func WithCatalog(catalog *scopecatalog.CatalogService) Option {
	return func(s *RegistryService) {
		s.catalog = catalog
	}
}

// WithEncryption enables client secret encryption at rest.
func WithEncryption(encryption *EncryptionService) Option {
	return func(s *RegistryService) {
		s.encryption = encryption
	}
}

// WithNotifier enables notifications to the given address on submitted
// and completed registrations.
func WithNotifier(notifier *notify.Manager, to string) Option {
	return func(s *RegistryService) {
		s.notifier = notifier
		s.notifyTo = to
	}
}

// WithRegistrar sets the identity-provider client used by Submit.
func WithRegistrar(registrar Registrar) Option {
	return func(s *RegistryService) {
		s.registrar = registrar
	}
}

// NewRegistryServiceWithOptions creates a registry service with the
// provided repository and options.
func NewRegistryServiceWithOptions(repo ClientRepository, opts ...Option) *RegistryService {
	s := &RegistryService{
		repo:      repo,
		validator: validation.NewValidator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateClient runs the full pre-flight validation of a registration
// against the organization's scope catalog. It never fails for
// validation findings, only for catalog lookup failures or precondition
// violations.
func (s *RegistryService) ValidateClient(ctx context.Context, client *Client) (validation.Report, error) {
	var scopes []validation.ScopeMetadata
	if s.catalog != nil {
		var err error
		scopes, err = s.catalog.CandidateMetadata(ctx, client.Orgno)
		if err != nil {
			return validation.Report{}, fmt.Errorf("failed to resolve scope metadata: %w", err)
		}
	}

	report, err := s.validator.Validate(client.ToDraft(), scopes)
	if err != nil {
		return validation.Report{}, fmt.Errorf("failed to validate client configuration: %w", err)
	}
	return report, nil
}

// CreateClient validates and stores a new registration. Hard URI errors
// block creation and are returned as ErrInvalidClientConfig; scope
// lifetime conflicts are advisory and returned with the stored record.
func (s *RegistryService) CreateClient(ctx context.Context, params CreateClientParams) (*Client, validation.Report, error) {
	client := &Client{}
	if err := copier.Copy(client, &params); err != nil {
		return nil, validation.Report{}, fmt.Errorf("failed to map client params: %w", err)
	}
	client.Status = StatusDraft

	report, err := s.ValidateClient(ctx, client)
	if err != nil {
		return nil, validation.Report{}, err
	}
	if len(report.URIErrors) > 0 {
		return nil, report, ErrInvalidClientConfig{Report: report}
	}

	if client.ClientSecret != "" && s.encryption != nil {
		encrypted, err := s.encryption.Encrypt(client.ClientSecret)
		if err != nil {
			return nil, report, fmt.Errorf("failed to encrypt client secret: %w", err)
		}
		client.ClientSecret = encrypted
	}

	created, err := s.repo.CreateClient(ctx, client)
	if err != nil {
		return nil, report, err
	}

	slog.Info("Client registration created",
		"id", created.ID,
		"client_name", created.ClientName,
		"orgno", created.Orgno,
		"scope_conflicts", len(report.ScopeConflicts))

	s.sendNotification(notify.ClientSubmittedNotification, created)
	return created, report, nil
}

// UpdateClient applies partial changes to a registration, re-validates
// the result, and persists it under the same blocking rules as
// CreateClient.
func (s *RegistryService) UpdateClient(ctx context.Context, params UpdateClientParams) (*Client, validation.Report, error) {
	client, err := s.repo.GetClient(ctx, params.ID)
	if err != nil {
		return nil, validation.Report{}, err
	}

	applyUpdate(client, params)

	report, err := s.ValidateClient(ctx, client)
	if err != nil {
		return nil, validation.Report{}, err
	}
	if len(report.URIErrors) > 0 {
		return nil, report, ErrInvalidClientConfig{Report: report}
	}

	updated, err := s.repo.UpdateClient(ctx, client)
	if err != nil {
		return nil, report, err
	}
	return updated, report, nil
}

func applyUpdate(client *Client, params UpdateClientParams) {
	if params.ClientName != nil {
		client.ClientName = *params.ClientName
	}
	if params.Description != nil {
		client.Description = *params.Description
	}
	if params.RedirectURIs != nil {
		client.RedirectURIs = params.RedirectURIs
	}
	if params.PostLogoutRedirectURIs != nil {
		client.PostLogoutRedirectURIs = params.PostLogoutRedirectURIs
	}
	if params.FrontchannelLogoutURI != nil {
		client.FrontchannelLogoutURI = *params.FrontchannelLogoutURI
	}
	if params.AccessTokenLifetime != nil {
		client.AccessTokenLifetime = *params.AccessTokenLifetime
	}
	if params.AuthorizationLifetime != nil {
		client.AuthorizationLifetime = *params.AuthorizationLifetime
	}
	if params.RefreshTokenLifetime != nil {
		client.RefreshTokenLifetime = *params.RefreshTokenLifetime
	}
	if params.RefreshTokenUsage != nil {
		client.RefreshTokenUsage = *params.RefreshTokenUsage
	}
	if params.Scopes != nil {
		client.Scopes = params.Scopes
	}
	if params.SSODisabled != nil {
		client.SSODisabled = *params.SSODisabled
	}
}

// GetClient retrieves a registration by its portal ID.
func (s *RegistryService) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

// ListClients returns registrations for an organization along with the
// total count.
func (s *RegistryService) ListClients(ctx context.Context, params ListClientsParams) ([]*Client, int64, error) {
	clients, err := s.repo.ListClients(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	count, err := s.repo.CountClients(ctx, params.Orgno)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return clients, count, nil
}

// DeleteClient removes a registration.
func (s *RegistryService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, id)
}

// Submit re-validates a stored registration and sends it to the
// identity provider through the configured registrar. On success the
// record carries the assigned client ID and registered status.
func (s *RegistryService) Submit(ctx context.Context, id uuid.UUID) (*Client, error) {
	if s.registrar == nil {
		return nil, fmt.Errorf("no registrar configured")
	}

	client, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	report, err := s.ValidateClient(ctx, client)
	if err != nil {
		return nil, err
	}
	if len(report.URIErrors) > 0 {
		return nil, ErrInvalidClientConfig{Report: report}
	}

	clientID, err := s.registrar.RegisterClient(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to register client with identity provider: %w", err)
	}

	client.ClientID = clientID
	client.Status = StatusRegistered
	updated, err := s.repo.UpdateClient(ctx, client)
	if err != nil {
		return nil, err
	}

	s.sendNotification(notify.ClientRegisteredNotification, updated)
	return updated, nil
}

// Notifications are best effort; a failed email never fails the
// operation that triggered it.
func (s *RegistryService) sendNotification(notifType notify.NotificationType, client *Client) {
	if s.notifier == nil || s.notifyTo == "" {
		return
	}
	err := s.notifier.Notify(notifType, s.notifyTo, map[string]string{
		"ClientName": client.ClientName,
		"ClientID":   client.ClientID,
		"Orgno":      client.Orgno,
	})
	if err != nil {
		slog.Error("Failed to send notification", "type", notifType, "client_name", client.ClientName, "error", err)
	}
}
