package config

import (
	"github.com/forvalt/klientportal/pkg/notify"
)

// EmailConfig holds SMTP email configuration for registration
// notifications.
type EmailConfig struct {
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:"noreply@example.com"`
	Password string `env:"EMAIL_PASSWORD" env-default:"pwd"`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	To       string `env:"EMAIL_TO" env-default:""`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
}

// ToSMTPConfig converts the config to a notify.SMTPConfig
func (e EmailConfig) ToSMTPConfig() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
	}
}

// IsConfigured returns true if a notification recipient is set
func (e EmailConfig) IsConfigured() bool {
	return e.To != ""
}

// Validate checks the email configuration
func (e EmailConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("EMAIL_HOST", e.Host),
		RequirePositive("EMAIL_PORT", int(e.Port)),
		RequireNonEmpty("EMAIL_FROM", e.From),
	)
}
