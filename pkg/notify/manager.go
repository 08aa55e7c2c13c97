package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

// templateSet holds the subject and body templates for one notification
// type.
type templateSet struct {
	subject *template.Template
	body    *template.Template
}

// Manager renders registered templates and fans notifications out to the
// configured notifiers.
type Manager struct {
	notifiers []Notifier
	templates map[NotificationType]templateSet
}

// NewManager creates a manager with the built-in templates registered.
func NewManager(notifiers ...Notifier) *Manager {
	m := &Manager{
		notifiers: notifiers,
		templates: make(map[NotificationType]templateSet),
	}

	// Built-in templates. Parameters come from NotificationData.Data.
	m.MustRegister(ClientSubmittedNotification,
		"Klientregistrering sendt inn: {{.ClientName}}",
		"Registreringen av klienten {{.ClientName}} for organisasjon {{.Orgno}} er sendt inn til godkjenning.")
	m.MustRegister(ClientRegisteredNotification,
		"Klient registrert: {{.ClientName}}",
		"Klienten {{.ClientName}} er registrert hos ID-porten/Maskinporten med klient-ID {{.ClientID}}.")

	return m
}

// Register parses and stores the subject/body templates for a
// notification type.
func (m *Manager) Register(notifType NotificationType, subject, body string) error {
	if notifType == "" || subject == "" || body == "" {
		return fmt.Errorf("invalid input: notification type, subject, and body cannot be empty")
	}

	subjectTmpl, err := template.New(string(notifType) + "_subject").Parse(subject)
	if err != nil {
		return fmt.Errorf("failed to parse subject template: %w", err)
	}
	bodyTmpl, err := template.New(string(notifType) + "_body").Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse body template: %w", err)
	}

	m.templates[notifType] = templateSet{subject: subjectTmpl, body: bodyTmpl}
	return nil
}

// MustRegister is Register for templates known at compile time.
func (m *Manager) MustRegister(notifType NotificationType, subject, body string) {
	if err := m.Register(notifType, subject, body); err != nil {
		panic(err)
	}
}

// Notify renders the templates for the notification type and sends the
// result through every registered notifier.
func (m *Manager) Notify(notifType NotificationType, to string, data map[string]string) error {
	tmpl, exists := m.templates[notifType]
	if !exists {
		return fmt.Errorf("no templates registered for notification type: %s", notifType)
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return fmt.Errorf("failed to render subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render body: %w", err)
	}

	notification := NotificationData{
		To:      to,
		Subject: subject.String(),
		Body:    body.String(),
		Data:    data,
	}

	for _, notifier := range m.notifiers {
		if err := notifier.Send(notification); err != nil {
			return fmt.Errorf("failed to send %s notification: %w", notifType, err)
		}
	}
	return nil
}
