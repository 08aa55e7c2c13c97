package config

import (
	"fmt"

	dbutils "github.com/tendant/db-utils/db"
)

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string `env:"KP_PG_HOST" env-default:""`
	Port     uint16 `env:"KP_PG_PORT" env-default:"5432"`
	Database string `env:"KP_PG_DATABASE" env-default:"klientportal_db"`
	User     string `env:"KP_PG_USER" env-default:"klientportal"`
	Password string `env:"KP_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"KP_PG_SCHEMA" env-default:"public"`
}

// ToDatabaseURL converts the config to a PostgreSQL connection URL
func (d DatabaseConfig) ToDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s,public",
		d.User, d.Password, d.Host, d.Port, d.Database, d.Schema)
}

// ToDbConfig converts the config to a db-utils DbConfig
func (d DatabaseConfig) ToDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

// IsConfigured returns true if a database host is set. When false the
// portal falls back to in-memory storage.
func (d DatabaseConfig) IsConfigured() bool {
	return d.Host != ""
}

// Validate checks the database configuration
func (d DatabaseConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("KP_PG_HOST", d.Host),
		RequireNonEmpty("KP_PG_DATABASE", d.Database),
		RequireNonEmpty("KP_PG_USER", d.User),
	)
}
