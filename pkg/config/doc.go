// Package config centralizes environment-driven configuration for the
// portal.
//
// # Overview
//
// Each subsystem gets its own config struct with cleanenv env tags:
//   - DatabaseConfig: PostgreSQL connection settings (KP_PG_*)
//   - EmailConfig: SMTP notification settings (EMAIL_*)
//   - DigdirConfig: self-service API credentials (DIGDIR_*)
//   - JwtConfig: portal API token verification (JWT_*)
//
// Structs convert themselves into the types their consumers expect
// (ToDbConfig, ToSMTPConfig, ToClientConfig) so wiring in main stays
// a straight line. Validate before use:
//
//	var cfg config.PortalConfig
//	if err := cleanenv.ReadEnv(&cfg); err != nil {
//		...
//	}
//	if err := cfg.Validate(); err != nil {
//		...
//	}
package config
