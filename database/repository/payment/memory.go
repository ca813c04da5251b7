package paymentRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pijatku/database"
	"pijatku/models"
)

type MemoryPaymentRepo struct {
	mu        sync.Mutex
	payments  map[string]models.Payment
	byBooking map[string]string
}

func NewMemoryPaymentRepo() *MemoryPaymentRepo {
	return &MemoryPaymentRepo{
		payments:  make(map[string]models.Payment),
		byBooking: make(map[string]string),
	}
}

func (r *MemoryPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.payments[p.ID]; exists {
		return fmt.Errorf("payment %s: %w", p.ID, database.ErrDuplicate)
	}
	if _, exists := r.byBooking[p.BookingID]; exists {
		return fmt.Errorf("payment for booking %s: %w", p.BookingID, database.ErrDuplicate)
	}
	r.payments[p.ID] = *p
	r.byBooking[p.BookingID] = p.ID
	return nil
}

func (r *MemoryPaymentRepo) GetByID(_ context.Context, id string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, database.ErrNotFound)
	}
	return &p, nil
}

func (r *MemoryPaymentRepo) GetByBooking(_ context.Context, bookingID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return nil, fmt.Errorf("payment for booking %s: %w", bookingID, database.ErrNotFound)
	}
	p := r.payments[id]
	return &p, nil
}

func (r *MemoryPaymentRepo) UpdateStatus(_ context.Context, id string, expected, next models.PaymentStatus, transactionID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", id, database.ErrNotFound)
	}
	if p.Status != expected {
		return nil, fmt.Errorf("payment %s is %s: %w", id, p.Status, database.ErrConflict)
	}
	p.Status = next
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	if next == models.PaymentRefunded {
		p.RefundPending = true
	}
	r.payments[id] = p
	return &p, nil
}

func (r *MemoryPaymentRepo) ClearRefundPending(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return fmt.Errorf("payment %s: %w", id, database.ErrNotFound)
	}
	p.RefundPending = false
	r.payments[id] = p
	return nil
}

func (r *MemoryPaymentRepo) ListRefundPending(_ context.Context) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Payment{}
	for _, p := range r.payments {
		if p.Status == models.PaymentRefunded && p.RefundPending {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
