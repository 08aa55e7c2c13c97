package config

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forvalt/klientportal/pkg/digdir"
)

// DigdirConfig holds the portal's integration credentials against the
// Digdir self-service API.
type DigdirConfig struct {
	BaseURL        string        `env:"DIGDIR_BASE_URL" env-default:""`
	TokenURL       string        `env:"DIGDIR_TOKEN_URL" env-default:""`
	ClientID       string        `env:"DIGDIR_CLIENT_ID" env-default:""`
	Audience       string        `env:"DIGDIR_AUDIENCE" env-default:""`
	Scopes         string        `env:"DIGDIR_SCOPES" env-default:"idporten:dcr.read idporten:dcr.write"`
	KeyID          string        `env:"DIGDIR_KEY_ID" env-default:""`
	PrivateKeyPath string        `env:"DIGDIR_PRIVATE_KEY_PATH" env-default:""`
	CacheTTL       time.Duration `env:"DIGDIR_CACHE_TTL" env-default:"5m"`
}

// IsConfigured returns true if the self-service API integration is set
// up. When false the portal runs against local storage only.
func (d DigdirConfig) IsConfigured() bool {
	return d.BaseURL != "" && d.TokenURL != "" && d.ClientID != ""
}

// Validate checks the self-service API configuration. Only meaningful
// when IsConfigured is true.
func (d DigdirConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireValidURL("DIGDIR_BASE_URL", d.BaseURL),
		RequireValidURL("DIGDIR_TOKEN_URL", d.TokenURL),
		RequireNonEmpty("DIGDIR_CLIENT_ID", d.ClientID),
		RequireNonEmpty("DIGDIR_PRIVATE_KEY_PATH", d.PrivateKeyPath),
	)
}

// ToClientConfig loads the signing key and builds a digdir.Config
func (d DigdirConfig) ToClientConfig() (digdir.Config, error) {
	key, err := loadRSAPrivateKey(d.PrivateKeyPath)
	if err != nil {
		return digdir.Config{}, fmt.Errorf("failed to load signing key: %w", err)
	}
	return digdir.Config{
		BaseURL:    d.BaseURL,
		TokenURL:   d.TokenURL,
		ClientID:   d.ClientID,
		Audience:   d.Audience,
		Scopes:     strings.Fields(d.Scopes),
		KeyID:      d.KeyID,
		PrivateKey: key,
	}, nil
}

// loadRSAPrivateKey reads a PEM encoded RSA key, accepting both PKCS#1
// and PKCS#8 encodings.
func loadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", path, err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in %s", path)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key in %s is not an RSA key", path)
	}
	return key, nil
}
