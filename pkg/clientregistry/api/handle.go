// Package api exposes the client registry over HTTP for the portal
// frontend. Validation reports pass through untranslated; message keys
// are rendered by the UI's localization layer.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/forvalt/klientportal/pkg/clientregistry"
	"github.com/forvalt/klientportal/pkg/scopecatalog"
	"github.com/forvalt/klientportal/pkg/validation"
)

// Handle handles HTTP requests for client registration management.
type Handle struct {
	registryService *clientregistry.RegistryService
	catalogService  *scopecatalog.CatalogService
}

// Option is a function that configures a Handle.
type Option func(*Handle)

// WithRegistryService sets the registry service for the handle.
func WithRegistryService(service *clientregistry.RegistryService) Option {
	return func(h *Handle) {
		h.registryService = service
	}
}

// WithCatalogService sets the scope catalog service for the handle.
func WithCatalogService(service *scopecatalog.CatalogService) Option {
	return func(h *Handle) {
		h.catalogService = service
	}
}

// NewHandle creates a new client registry API handler.
func NewHandle(opts ...Option) *Handle {
	h := &Handle{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes registers the client registry routes.
func (h *Handle) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Get("/", h.ListClients)
		r.Post("/", h.CreateClient)
		r.Post("/validate", h.ValidateClient)
		r.Get("/{id}", h.GetClient)
		r.Put("/{id}", h.UpdateClient)
		r.Delete("/{id}", h.DeleteClient)
		r.Post("/{id}/submit", h.SubmitClient)
	})
	r.Get("/scopes", h.ListScopes)
}

// ErrorResponse is the envelope for error payloads.
type ErrorResponse struct {
	Error            string             `json:"error"`
	ErrorDescription string             `json:"error_description,omitempty"`
	Report           *validation.Report `json:"report,omitempty"`
}

// ClientResponse pairs a stored registration with its validation report.
type ClientResponse struct {
	Client *clientregistry.Client `json:"client"`
	Report validation.Report      `json:"report"`
}

// ClientListResponse is the envelope for listings.
type ClientListResponse struct {
	Clients []*clientregistry.Client `json:"clients"`
	Total   int64                    `json:"total"`
}

// ValidateClient runs the pre-flight validation without persisting
// anything. Validation findings come back as 200 with the report; only
// malformed requests and precondition violations are client errors.
func (h *Handle) ValidateClient(w http.ResponseWriter, r *http.Request) {
	var params clientregistry.CreateClientParams
	if err := render.DecodeJSON(r.Body, &params); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}

	client := &clientregistry.Client{}
	if err := copier.Copy(client, &params); err != nil {
		slog.Error("Failed to map validation request", "error", err)
		renderError(w, r, http.StatusInternalServerError, "server_error", "Failed to process request", nil)
		return
	}

	report, err := h.registryService.ValidateClient(r.Context(), client)
	if err != nil {
		var unknownType *validation.UnknownApplicationTypeError
		if errors.As(err, &unknownType) {
			renderError(w, r, http.StatusBadRequest, "invalid_client_metadata", err.Error(), nil)
			return
		}
		slog.Error("Failed to validate client", "error", err)
		renderError(w, r, http.StatusInternalServerError, "server_error", "Failed to validate client", nil)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// CreateClient stores a new registration. Hard URI errors yield 422
// with the full report attached.
func (h *Handle) CreateClient(w http.ResponseWriter, r *http.Request) {
	var params clientregistry.CreateClientParams
	if err := render.DecodeJSON(r.Body, &params); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}

	created, report, err := h.registryService.CreateClient(r.Context(), params)
	if err != nil {
		h.renderRegistryError(w, r, err, report)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ClientResponse{Client: created, Report: report})
}

// GetClient returns one registration.
func (h *Handle) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	client, err := h.registryService.GetClient(r.Context(), id)
	if err != nil {
		h.renderRegistryError(w, r, err, validation.Report{})
		return
	}

	render.JSON(w, r, client)
}

// ListClients returns registrations for an organization.
func (h *Handle) ListClients(w http.ResponseWriter, r *http.Request) {
	params := clientregistry.ListClientsParams{
		Orgno:  r.URL.Query().Get("orgno"),
		Limit:  queryInt32(r, "limit", 50),
		Offset: queryInt32(r, "offset", 0),
	}

	clients, total, err := h.registryService.ListClients(r.Context(), params)
	if err != nil {
		slog.Error("Failed to list clients", "error", err)
		renderError(w, r, http.StatusInternalServerError, "server_error", "Failed to list clients", nil)
		return
	}
	if clients == nil {
		clients = []*clientregistry.Client{}
	}

	render.JSON(w, r, ClientListResponse{Clients: clients, Total: total})
}

// UpdateClient applies a partial update.
func (h *Handle) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var params clientregistry.UpdateClientParams
	if err := render.DecodeJSON(r.Body, &params); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body", nil)
		return
	}
	params.ID = id

	updated, report, err := h.registryService.UpdateClient(r.Context(), params)
	if err != nil {
		h.renderRegistryError(w, r, err, report)
		return
	}

	render.JSON(w, r, ClientResponse{Client: updated, Report: report})
}

// DeleteClient removes a registration.
func (h *Handle) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.registryService.DeleteClient(r.Context(), id); err != nil {
		h.renderRegistryError(w, r, err, validation.Report{})
		return
	}

	render.NoContent(w, r)
}

// SubmitClient submits a stored registration to the identity provider.
func (h *Handle) SubmitClient(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	submitted, err := h.registryService.Submit(r.Context(), id)
	if err != nil {
		h.renderRegistryError(w, r, err, validation.Report{})
		return
	}

	render.JSON(w, r, submitted)
}

// ListScopes returns the candidate scope set for an organization.
func (h *Handle) ListScopes(w http.ResponseWriter, r *http.Request) {
	orgno := r.URL.Query().Get("orgno")
	if orgno == "" {
		renderError(w, r, http.StatusBadRequest, "invalid_request", "orgno is required", nil)
		return
	}

	scopes, err := h.catalogService.CandidateScopes(r.Context(), orgno)
	if err != nil {
		slog.Error("Failed to list scopes", "orgno", orgno, "error", err)
		renderError(w, r, http.StatusInternalServerError, "server_error", "Failed to list scopes", nil)
		return
	}
	if scopes == nil {
		scopes = []scopecatalog.ScopeRegistration{}
	}

	render.JSON(w, r, scopes)
}

func (h *Handle) renderRegistryError(w http.ResponseWriter, r *http.Request, err error, report validation.Report) {
	var invalidConfig clientregistry.ErrInvalidClientConfig
	var notFound clientregistry.ErrClientNotFound
	var nameTaken clientregistry.ErrClientNameTaken

	switch {
	case errors.As(err, &invalidConfig):
		renderError(w, r, http.StatusUnprocessableEntity, "invalid_client_configuration", err.Error(), &invalidConfig.Report)
	case errors.As(err, &notFound):
		renderError(w, r, http.StatusNotFound, "client_not_found", err.Error(), nil)
	case errors.As(err, &nameTaken):
		renderError(w, r, http.StatusConflict, "client_name_taken", err.Error(), nil)
	default:
		slog.Error("Registry operation failed", "error", err)
		renderError(w, r, http.StatusInternalServerError, "server_error", "Operation failed", nil)
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, code, description string, report *validation.Report) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: code, ErrorDescription: description, Report: report})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid_request", "Invalid client ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt32(r *http.Request, key string, fallback int32) int32 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return int32(v)
}
