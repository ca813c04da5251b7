package reviewRepo

import (
	"context"
	"fmt"
	"sync"

	"pijatku/database"
	"pijatku/models"
)

type MemoryReviewRepo struct {
	mu      sync.RWMutex
	reviews []models.Review
}

func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{}
}

func (m *MemoryReviewRepo) Create(_ context.Context, r *models.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reviews {
		if existing.BookingID == r.BookingID {
			return fmt.Errorf("review for booking %s: %w", r.BookingID, database.ErrDuplicate)
		}
	}
	m.reviews = append(m.reviews, *r)
	return nil
}

func (m *MemoryReviewRepo) GetByBooking(_ context.Context, bookingID string) (*models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.reviews {
		if r.BookingID == bookingID {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("review for booking %s: %w", bookingID, database.ErrNotFound)
}

func (m *MemoryReviewRepo) ListByTherapist(_ context.Context, therapistID string) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Review{}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].TherapistID == therapistID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

func (m *MemoryReviewRepo) ListAll(_ context.Context) ([]models.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Review{}, m.reviews...), nil
}
