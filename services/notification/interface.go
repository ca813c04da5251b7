package notification

import "context"

// Notifier delivers push notifications to a single account.
type Notifier interface {
	Notify(ctx context.Context, userID, title, body string, data map[string]string) error
}

// UserTopic is the FCM topic a device subscribes to after login.
func UserTopic(userID string) string {
	return "user-" + userID
}
