package messageRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pijatku/database"
	"pijatku/models"
)

type MemoryMessageRepo struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func NewMemoryMessageRepo() *MemoryMessageRepo {
	return &MemoryMessageRepo{}
}

func (r *MemoryMessageRepo) Create(_ context.Context, m *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *MemoryMessageRepo) GetByID(_ context.Context, id string) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, fmt.Errorf("message %s: %w", id, database.ErrNotFound)
}

func (r *MemoryMessageRepo) MarkRead(_ context.Context, id, readerID string) (*models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID != id {
			continue
		}
		if r.messages[i].ReceiverID != readerID {
			return nil, fmt.Errorf("message %s reader %s: %w", id, readerID, database.ErrConflict)
		}
		r.messages[i].Read = true
		found := r.messages[i]
		return &found, nil
	}
	return nil, fmt.Errorf("message %s: %w", id, database.ErrNotFound)
}

func (r *MemoryMessageRepo) ListBetween(_ context.Context, userA, userB string) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ChatMessage{}
	for _, m := range r.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *MemoryMessageRepo) ListForUser(_ context.Context, userID string) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.ChatMessage{}
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
