package payoutRepo

import (
	"context"
	"time"

	"pijatku/models"
)

type PayoutRepository interface {
	Create(ctx context.Context, p *models.PayoutRequest) error
	GetByID(ctx context.Context, id string) (*models.PayoutRequest, error)
	// ListByTherapist returns the therapist's requests, newest first.
	ListByTherapist(ctx context.Context, therapistID string) ([]models.PayoutRequest, error)
	ListAll(ctx context.Context) ([]models.PayoutRequest, error)
	// UpdateStatus is a compare-and-set on the expected status; processedAt is stored when non-nil.
	UpdateStatus(ctx context.Context, id string, expected, next models.PayoutStatus, processedAt *time.Time) (*models.PayoutRequest, error)
}
