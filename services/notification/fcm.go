package notification

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotifier pushes through Firebase Cloud Messaging to the per-user topic,
// so the backend never stores device tokens.
type FCMNotifier struct {
	client *messaging.Client
	logger *zap.Logger
}

func NewFCMNotifier(client *messaging.Client, logger *zap.Logger) *FCMNotifier {
	return &FCMNotifier{client: client, logger: logger}
}

func (n *FCMNotifier) Notify(ctx context.Context, userID, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "bookings",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", userID, err)
	}
	n.logger.Debug("Push sent", zap.String("user", userID), zap.String("messageID", id))
	return nil
}
