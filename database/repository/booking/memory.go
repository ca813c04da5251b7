package bookingRepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pijatku/database"
	"pijatku/models"
)

type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
	order    []string
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bookings[b.ID]; exists {
		return fmt.Errorf("booking %s: %w", b.ID, database.ErrDuplicate)
	}
	r.bookings[b.ID] = cloneBooking(*b)
	r.order = append(r.order, b.ID)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	c := cloneBooking(b)
	return &c, nil
}

func (r *MemoryBookingRepo) ListByParty(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for _, id := range r.order {
		b := r.bookings[id]
		if b.HasParty(userID) {
			out = append(out, cloneBooking(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *MemoryBookingRepo) ListAll(_ context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneBooking(r.bookings[id]))
	}
	return out, nil
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, id string, expected models.BookingStatus, version int64, next models.BookingStatus, completedAt *time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	if b.Status != expected || b.Version != version {
		return nil, fmt.Errorf("booking %s is %s (v%d): %w", id, b.Status, b.Version, database.ErrConflict)
	}
	b.Status = next
	b.Version++
	if completedAt != nil {
		t := *completedAt
		b.CompletedAt = &t
	}
	r.bookings[id] = b
	c := cloneBooking(b)
	return &c, nil
}

func (r *MemoryBookingRepo) MarkCredited(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, database.ErrNotFound)
	}
	b.EarningsCredited = true
	r.bookings[id] = b
	return nil
}

func (r *MemoryBookingRepo) ListUncredited(_ context.Context) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Status == models.BookingCompleted && !b.EarningsCredited {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func cloneBooking(b models.Booking) models.Booking {
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		b.CompletedAt = &t
	}
	return b
}
