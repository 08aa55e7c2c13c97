package clientregistry

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/forvalt/klientportal/pkg/validation"
)

// ErrClientNotFound indicates no registration exists with the given ID.
type ErrClientNotFound struct {
	ID uuid.UUID
}

func (e ErrClientNotFound) Error() string {
	return fmt.Sprintf("client not found: %s", e.ID)
}

// ErrClientNameTaken indicates the organization already has a
// registration with this name.
type ErrClientNameTaken struct {
	ClientName string
	Orgno      string
}

func (e ErrClientNameTaken) Error() string {
	return fmt.Sprintf("client name %q already registered for organization %s", e.ClientName, e.Orgno)
}

// ErrInvalidClientConfig indicates the configuration carries hard URI
// errors and cannot be persisted. The full report is attached so the
// caller can surface every finding, not just the first.
type ErrInvalidClientConfig struct {
	Report validation.Report
}

func (e ErrInvalidClientConfig) Error() string {
	return fmt.Sprintf("client configuration invalid: %d uri error(s)", len(e.Report.URIErrors))
}
