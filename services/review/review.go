package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	Create(ctx context.Context, clientID, bookingID string, rating int, comment string) (*models.Review, error)
	ListForTherapist(ctx context.Context, therapistID string) ([]models.Review, error)
}

// DirectoryInvalidator is notified when a therapist's public rating changes.
type DirectoryInvalidator interface {
	Invalidate(ctx context.Context)
}

type DefaultReviewService struct {
	reviews   repository.ReviewRepository
	bookings  repository.BookingRepository
	users     repository.UserRepository
	directory DirectoryInvalidator
	logger    *zap.Logger
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository, users repository.UserRepository, directory DirectoryInvalidator, logger *zap.Logger) *DefaultReviewService {
	return &DefaultReviewService{reviews: reviews, bookings: bookings, users: users, directory: directory, logger: logger}
}

// Create stores the single review of a completed booking and folds its rating
// into the therapist's average.
func (s *DefaultReviewService) Create(ctx context.Context, clientID, bookingID string, rating int, comment string) (*models.Review, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("booking", bookingID)
		}
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, fmt.Errorf("only the booking client can review: %w", models.ErrForbidden)
	}
	if b.Status != models.BookingCompleted {
		return nil, models.NewValidationError("bookingId", "only completed bookings can be reviewed")
	}

	r := &models.Review{
		ID:          uuid.New().String(),
		BookingID:   b.ID,
		ClientID:    clientID,
		TherapistID: b.TherapistID,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		CreatedAt:   time.Now(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, models.NewValidationError("bookingId", "booking has already been reviewed")
		}
		return nil, fmt.Errorf("store review: %w", err)
	}
	if err := s.users.ApplyReview(ctx, b.TherapistID, rating); err != nil {
		// The review row is the source of truth; the aggregate can be rebuilt from it.
		s.logger.Error("Failed to update therapist rating",
			zap.String("therapist", b.TherapistID), zap.String("review", r.ID), zap.Error(err))
	} else if s.directory != nil {
		s.directory.Invalidate(ctx)
	}
	s.logger.Info("Review created", zap.String("booking", b.ID), zap.Int("rating", rating))
	return r, nil
}

func (s *DefaultReviewService) ListForTherapist(ctx context.Context, therapistID string) ([]models.Review, error) {
	if _, err := s.users.GetTherapist(ctx, therapistID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, models.NewNotFoundError("therapist", therapistID)
		}
		return nil, err
	}
	return s.reviews.ListByTherapist(ctx, therapistID)
}
