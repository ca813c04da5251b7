package payoutRepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pijatku/database"
	"pijatku/models"
)

type MemoryPayoutRepo struct {
	mu       sync.Mutex
	requests []models.PayoutRequest
}

func NewMemoryPayoutRepo() *MemoryPayoutRepo {
	return &MemoryPayoutRepo{}
}

func (r *MemoryPayoutRepo) Create(_ context.Context, p *models.PayoutRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.ID == p.ID {
			return fmt.Errorf("payout %s: %w", p.ID, database.ErrDuplicate)
		}
	}
	r.requests = append(r.requests, clonePayout(*p))
	return nil
}

func (r *MemoryPayoutRepo) GetByID(_ context.Context, id string) (*models.PayoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.requests {
		if p.ID == id {
			c := clonePayout(p)
			return &c, nil
		}
	}
	return nil, fmt.Errorf("payout %s: %w", id, database.ErrNotFound)
}

func (r *MemoryPayoutRepo) ListByTherapist(_ context.Context, therapistID string) ([]models.PayoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.PayoutRequest{}
	for i := len(r.requests) - 1; i >= 0; i-- {
		if r.requests[i].TherapistID == therapistID {
			out = append(out, clonePayout(r.requests[i]))
		}
	}
	return out, nil
}

func (r *MemoryPayoutRepo) ListAll(_ context.Context) ([]models.PayoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.PayoutRequest, 0, len(r.requests))
	for _, p := range r.requests {
		out = append(out, clonePayout(p))
	}
	return out, nil
}

func (r *MemoryPayoutRepo) UpdateStatus(_ context.Context, id string, expected, next models.PayoutStatus, processedAt *time.Time) (*models.PayoutRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.requests {
		if r.requests[i].ID != id {
			continue
		}
		if r.requests[i].Status != expected {
			return nil, fmt.Errorf("payout %s is %s: %w", id, r.requests[i].Status, database.ErrConflict)
		}
		r.requests[i].Status = next
		if processedAt != nil {
			t := *processedAt
			r.requests[i].ProcessedAt = &t
		}
		c := clonePayout(r.requests[i])
		return &c, nil
	}
	return nil, fmt.Errorf("payout %s: %w", id, database.ErrNotFound)
}

func clonePayout(p models.PayoutRequest) models.PayoutRequest {
	if p.ProcessedAt != nil {
		t := *p.ProcessedAt
		p.ProcessedAt = &t
	}
	return p
}
