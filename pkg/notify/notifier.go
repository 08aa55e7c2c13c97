package notify

// NotificationType identifies a notification template (e.g. a submitted
// registration, a completed registration).
type NotificationType string

const (
	ClientSubmittedNotification  NotificationType = "client_submitted"
	ClientRegisteredNotification NotificationType = "client_registered"
)

// NotificationData carries the recipient and template parameters for a
// single notification.
type NotificationData struct {
	To      string
	Subject string
	Body    string
	Data    map[string]string
}

// Notifier sends a notification over one delivery channel.
type Notifier interface {
	Send(notification NotificationData) error
}
