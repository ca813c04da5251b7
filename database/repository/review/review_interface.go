package reviewRepo

import (
	"context"

	"pijatku/models"
)

type ReviewRepository interface {
	// Create fails with database.ErrDuplicate when the booking already has a review.
	Create(ctx context.Context, r *models.Review) error
	GetByBooking(ctx context.Context, bookingID string) (*models.Review, error)
	// ListByTherapist returns the therapist's reviews, newest first.
	ListByTherapist(ctx context.Context, therapistID string) ([]models.Review, error)
	ListAll(ctx context.Context) ([]models.Review, error)
}
