package userRepo

import (
	"context"

	"pijatku/models"
)

// UserRepository stores every account variant. Therapist-specific mutations are
// atomic so concurrent bookings and reviews cannot lose updates.
type UserRepository interface {
	// GetByID retrieves any account by id.
	GetByID(ctx context.Context, id string) (models.Account, error)
	// GetTherapist retrieves an account that must be a therapist.
	GetTherapist(ctx context.Context, id string) (*models.Therapist, error)
	// GetClient retrieves an account that must be a client.
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// ListTherapists returns every therapist in insertion order.
	ListTherapists(ctx context.Context) ([]models.Therapist, error)
	// ListClients returns every client in insertion order.
	ListClients(ctx context.Context) ([]models.Client, error)
	// Create inserts a new account; duplicate ids or emails fail with database.ErrDuplicate.
	Create(ctx context.Context, acc models.Account) error
	// Replace overwrites an existing account with a different variant. It is
	// only for role switches; the caller guarantees nothing is owed.
	Replace(ctx context.Context, acc models.Account) error
	// UpdateProfile writes the editable fields of acc. Earnings, payout
	// balances and ratings are left as stored. A stored account of another
	// role fails with database.ErrConflict.
	UpdateProfile(ctx context.Context, acc models.Account) error
	// CreditEarnings adds amount to totalEarnings and pendingPayout once per
	// booking; crediting the same booking again is a no-op.
	CreditEarnings(ctx context.Context, therapistID, bookingID string, amount models.Rupiah) error
	// AdjustPayoutBalance adds pending to pendingPayout and reserved to
	// reservedPayout in one step. A change that would leave reservedPayout
	// negative or above pendingPayout fails with database.ErrConflict.
	AdjustPayoutBalance(ctx context.Context, therapistID string, pending, reserved models.Rupiah) error
	// ApplyReview folds a new rating into the running mean and increments reviewCount.
	ApplyReview(ctx context.Context, therapistID string, rating int) error
}
