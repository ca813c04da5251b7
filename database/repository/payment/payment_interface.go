package paymentRepo

import (
	"context"

	"pijatku/models"
)

// PaymentRepository persists payments; at most one payment exists per booking.
type PaymentRepository interface {
	// Create fails with database.ErrDuplicate when the booking already has a payment.
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByBooking(ctx context.Context, bookingID string) (*models.Payment, error)
	// UpdateStatus is a compare-and-set on the expected status. A non-empty
	// transactionID is stored alongside the new status. Moving to refunded
	// also sets RefundPending in the same write.
	UpdateStatus(ctx context.Context, id string, expected, next models.PaymentStatus, transactionID string) (*models.Payment, error)
	// ClearRefundPending marks the provider refund of a payment as done.
	ClearRefundPending(ctx context.Context, id string) error
	// ListRefundPending returns refunded payments whose provider refund is outstanding.
	ListRefundPending(ctx context.Context) ([]models.Payment, error)
}
