package messageRepo

import (
	"context"

	"pijatku/models"
)

type MessageRepository interface {
	Create(ctx context.Context, m *models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	// MarkRead flips the read flag. Only the stored receiver matches, any other
	// reader gets database.ErrConflict.
	MarkRead(ctx context.Context, id, readerID string) (*models.ChatMessage, error)
	// ListBetween returns the conversation between two users in chronological order.
	ListBetween(ctx context.Context, userA, userB string) ([]models.ChatMessage, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID string) ([]models.ChatMessage, error)
}
