package clientregistry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, which is
// what makes WithTx work without duplicating query code.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresClientRepository implements ClientRepository using PostgreSQL.
// Client secrets are encrypted before they reach this layer.
type PostgresClientRepository struct {
	db pgxQuerier
}

// NewPostgresClientRepository creates a new PostgreSQL client repository.
func NewPostgresClientRepository(db *pgxpool.Pool) (*PostgresClientRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresClientRepository{db: db}, nil
}

const clientColumns = `
	id, client_id, client_name, description, orgno,
	application_type, integration_type,
	redirect_uris, post_logout_redirect_uris, frontchannel_logout_uri,
	access_token_lifetime, authorization_lifetime,
	refresh_token_lifetime, refresh_token_usage,
	scopes, sso_disabled, client_secret, status,
	created_at, updated_at, created_by
`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&c.ID, &c.ClientID, &c.ClientName, &c.Description, &c.Orgno,
		&c.ApplicationType, &c.IntegrationType,
		&c.RedirectURIs, &c.PostLogoutRedirectURIs, &c.FrontchannelLogoutURI,
		&c.AccessTokenLifetime, &c.AuthorizationLifetime,
		&c.RefreshTokenLifetime, &c.RefreshTokenUsage,
		&c.Scopes, &c.SSODisabled, &c.ClientSecret, &c.Status,
		&createdAt, &updatedAt, &c.CreatedBy,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt
	c.UpdatedAt = updatedAt
	return &c, nil
}

// GetClient retrieves a registration by its portal ID.
func (r *PostgresClientRepository) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM client_registrations WHERE id = $1`

	client, err := scanClient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

// GetClientByName retrieves a registration by organization and name.
func (r *PostgresClientRepository) GetClientByName(ctx context.Context, orgno, clientName string) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM client_registrations WHERE orgno = $1 AND client_name = $2`

	client, err := scanClient(r.db.QueryRow(ctx, query, orgno, clientName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound{}
		}
		return nil, fmt.Errorf("failed to get client by name: %w", err)
	}
	return client, nil
}

// CreateClient persists a new registration and returns it.
func (r *PostgresClientRepository) CreateClient(ctx context.Context, client *Client) (*Client, error) {
	id := client.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := `
		INSERT INTO client_registrations (
			id, client_id, client_name, description, orgno,
			application_type, integration_type,
			redirect_uris, post_logout_redirect_uris, frontchannel_logout_uri,
			access_token_lifetime, authorization_lifetime,
			refresh_token_lifetime, refresh_token_usage,
			scopes, sso_disabled, client_secret, status,
			created_at, updated_at, created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18,
			now(), now(), $19
		)
		RETURNING ` + clientColumns

	created, err := scanClient(r.db.QueryRow(ctx, query,
		id, client.ClientID, client.ClientName, client.Description, client.Orgno,
		client.ApplicationType, client.IntegrationType,
		client.RedirectURIs, client.PostLogoutRedirectURIs, client.FrontchannelLogoutURI,
		client.AccessTokenLifetime, client.AuthorizationLifetime,
		client.RefreshTokenLifetime, client.RefreshTokenUsage,
		client.Scopes, client.SSODisabled, client.ClientSecret, client.Status,
		client.CreatedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrClientNameTaken{ClientName: client.ClientName, Orgno: client.Orgno}
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return created, nil
}

// UpdateClient persists changes to an existing registration.
func (r *PostgresClientRepository) UpdateClient(ctx context.Context, client *Client) (*Client, error) {
	query := `
		UPDATE client_registrations SET
			client_id = $2,
			client_name = $3,
			description = $4,
			application_type = $5,
			integration_type = $6,
			redirect_uris = $7,
			post_logout_redirect_uris = $8,
			frontchannel_logout_uri = $9,
			access_token_lifetime = $10,
			authorization_lifetime = $11,
			refresh_token_lifetime = $12,
			refresh_token_usage = $13,
			scopes = $14,
			sso_disabled = $15,
			client_secret = $16,
			status = $17,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + clientColumns

	updated, err := scanClient(r.db.QueryRow(ctx, query,
		client.ID, client.ClientID, client.ClientName, client.Description,
		client.ApplicationType, client.IntegrationType,
		client.RedirectURIs, client.PostLogoutRedirectURIs, client.FrontchannelLogoutURI,
		client.AccessTokenLifetime, client.AuthorizationLifetime,
		client.RefreshTokenLifetime, client.RefreshTokenUsage,
		client.Scopes, client.SSODisabled, client.ClientSecret, client.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound{ID: client.ID}
		}
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return updated, nil
}

// DeleteClient removes a registration.
func (r *PostgresClientRepository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM client_registrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound{ID: id}
	}
	return nil
}

// ListClients returns registrations for an organization, newest first.
func (r *PostgresClientRepository) ListClients(ctx context.Context, params ListClientsParams) ([]*Client, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + clientColumns + `
		FROM client_registrations
		WHERE ($1 = '' OR orgno = $1)
		ORDER BY created_at DESC, client_name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, params.Orgno, limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}

// CountClients returns the number of registrations for an organization.
func (r *PostgresClientRepository) CountClients(ctx context.Context, orgno string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM client_registrations WHERE ($1 = '' OR orgno = $1)`,
		orgno,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}

// WithTx returns a repository instance bound to the provided pgx
// transaction.
func (r *PostgresClientRepository) WithTx(tx interface{}) ClientRepository {
	pgxTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &PostgresClientRepository{db: pgxTx}
}
