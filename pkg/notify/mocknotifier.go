package notify

import "sync"

// MockNotifier records sent notifications for tests.
type MockNotifier struct {
	mu   sync.Mutex
	Sent []NotificationData
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Send records the notification.
func (n *MockNotifier) Send(notification NotificationData) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, notification)
	return nil
}

// SentCount returns how many notifications have been recorded.
func (n *MockNotifier) SentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Sent)
}
