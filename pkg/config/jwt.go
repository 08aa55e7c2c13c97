package config

// JwtConfig holds token verification settings for the portal API
type JwtConfig struct {
	Secret   string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	Issuer   string `env:"JWT_ISSUER" env-default:"klientportal"`
	Audience string `env:"JWT_AUDIENCE" env-default:"klientportal"`
}

// Validate checks the token verification settings
func (j JwtConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireMinLength("JWT_SECRET", j.Secret, 16),
	)
}
