package bookingRepo

import (
	"context"
	"time"

	"pijatku/models"
)

// BookingRepository persists bookings. Status changes go through UpdateStatus,
// which is a compare-and-set on the expected status and version.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByParty returns bookings where userID is the client or the therapist, newest date first.
	ListByParty(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	// UpdateStatus moves the booking from expected to next only if it is still at
	// expected with the given version. A lost race fails with database.ErrConflict
	// and leaves the booking untouched. completedAt is stored when non-nil.
	UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, version int64, next models.BookingStatus, completedAt *time.Time) (*models.Booking, error)
	// MarkCredited records that the therapist earning of a booking was paid in.
	MarkCredited(ctx context.Context, id string) error
	// ListUncredited returns completed bookings whose earning is not yet credited.
	ListUncredited(ctx context.Context) ([]models.Booking, error)
}
