package userRepo

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"pijatku/database"
	"pijatku/models"
)

// MemoryUserRepo keeps accounts in process memory. Values are copied on the way
// in and out so callers never share state with the store.
type MemoryUserRepo struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	order    []string
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{accounts: make(map[string]models.Account)}
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	return cloneAccount(acc), nil
}

func (r *MemoryUserRepo) GetTherapist(ctx context.Context, id string) (*models.Therapist, error) {
	acc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, ok := acc.(*models.Therapist)
	if !ok {
		return nil, fmt.Errorf("therapist %s: %w", id, database.ErrNotFound)
	}
	return t, nil
}

func (r *MemoryUserRepo) GetClient(ctx context.Context, id string) (*models.Client, error) {
	acc, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, ok := acc.(*models.Client)
	if !ok {
		return nil, fmt.Errorf("client %s: %w", id, database.ErrNotFound)
	}
	return c, nil
}

func (r *MemoryUserRepo) ListTherapists(_ context.Context) ([]models.Therapist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Therapist{}
	for _, id := range r.order {
		if t, ok := r.accounts[id].(*models.Therapist); ok {
			out = append(out, *cloneTherapist(t))
		}
	}
	return out, nil
}

func (r *MemoryUserRepo) ListClients(_ context.Context) ([]models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []models.Client{}
	for _, id := range r.order {
		if c, ok := r.accounts[id].(*models.Client); ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, acc models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := acc.Identity().ID
	if _, exists := r.accounts[id]; exists {
		return fmt.Errorf("user %s: %w", id, database.ErrDuplicate)
	}
	for _, existing := range r.accounts {
		if existing.Identity().Email == acc.Identity().Email {
			return fmt.Errorf("email %s: %w", acc.Identity().Email, database.ErrDuplicate)
		}
	}
	r.accounts[id] = cloneAccount(acc)
	r.order = append(r.order, id)
	return nil
}

func (r *MemoryUserRepo) Replace(_ context.Context, acc models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := acc.Identity().ID
	if _, exists := r.accounts[id]; !exists {
		return fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	r.accounts[id] = cloneAccount(acc)
	return nil
}

func (r *MemoryUserRepo) UpdateProfile(_ context.Context, acc models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := acc.Identity().ID
	stored, ok := r.accounts[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, database.ErrNotFound)
	}
	if stored.Role() != acc.Role() {
		return fmt.Errorf("user %s is now a %s: %w", id, stored.Role(), database.ErrConflict)
	}
	next := cloneAccount(acc)
	u := next.Identity()
	u.Email, u.CreatedAt = stored.Identity().Email, stored.Identity().CreatedAt
	if t, ok := next.(*models.Therapist); ok {
		current := stored.(*models.Therapist)
		t.Rating, t.ReviewCount = current.Rating, current.ReviewCount
		t.TotalEarnings, t.PendingPayout, t.ReservedPayout = current.TotalEarnings, current.PendingPayout, current.ReservedPayout
		t.CreditedBookings = current.CreditedBookings
	}
	r.accounts[id] = next
	return nil
}

func (r *MemoryUserRepo) CreditEarnings(_ context.Context, therapistID, bookingID string, amount models.Rupiah) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.accounts[therapistID].(*models.Therapist)
	if !ok {
		return fmt.Errorf("therapist %s: %w", therapistID, database.ErrNotFound)
	}
	if slices.Contains(t.CreditedBookings, bookingID) {
		return nil
	}
	t.TotalEarnings += amount
	t.PendingPayout += amount
	t.CreditedBookings = append(t.CreditedBookings, bookingID)
	return nil
}

func (r *MemoryUserRepo) AdjustPayoutBalance(_ context.Context, therapistID string, pending, reserved models.Rupiah) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.accounts[therapistID].(*models.Therapist)
	if !ok {
		return fmt.Errorf("therapist %s: %w", therapistID, database.ErrNotFound)
	}
	nextPending, nextReserved := t.PendingPayout+pending, t.ReservedPayout+reserved
	if nextReserved < 0 || nextReserved > nextPending {
		return fmt.Errorf("therapist %s payout balance: %w", therapistID, database.ErrConflict)
	}
	t.PendingPayout, t.ReservedPayout = nextPending, nextReserved
	return nil
}

func (r *MemoryUserRepo) ApplyReview(_ context.Context, therapistID string, rating int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.accounts[therapistID].(*models.Therapist)
	if !ok {
		return fmt.Errorf("therapist %s: %w", therapistID, database.ErrNotFound)
	}
	t.Rating = (t.Rating*float64(t.ReviewCount) + float64(rating)) / float64(t.ReviewCount+1)
	t.ReviewCount++
	return nil
}

func cloneAccount(acc models.Account) models.Account {
	switch v := acc.(type) {
	case *models.Therapist:
		return cloneTherapist(v)
	case *models.Client:
		c := *v
		return &c
	case *models.Admin:
		a := *v
		return &a
	}
	return acc
}

func cloneTherapist(t *models.Therapist) *models.Therapist {
	c := *t
	c.Photos = append([]string{}, t.Photos...)
	c.Services = append([]models.Service{}, t.Services...)
	c.Certifications = append([]string{}, t.Certifications...)
	c.Languages = append([]string{}, t.Languages...)
	c.CreditedBookings = slices.Clone(t.CreditedBookings)
	return &c
}
