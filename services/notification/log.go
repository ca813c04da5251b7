package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier only logs. It is used when no Firebase credentials are configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, userID, title, body string, data map[string]string) error {
	n.logger.Info("Push notification",
		zap.String("topic", UserTopic(userID)),
		zap.String("title", title),
		zap.String("body", body),
		zap.Any("data", data),
	)
	return nil
}
