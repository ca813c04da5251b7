package payment

import (
	"context"
	"errors"

	"pijatku/models"
)

// ErrNoGateway is returned when a refund needs a provider that is not configured.
var ErrNoGateway = errors.New("no payment gateway configured")

// PaymentService records how a booking is paid and refunded.
type PaymentService interface {
	Create(ctx context.Context, bookingID, actorID string, method models.PaymentMethod) (*models.Payment, error)
	Capture(ctx context.Context, paymentID, actorID, transactionID string) (*models.Payment, error)
	Fail(ctx context.Context, paymentID, actorID, transactionID string) (*models.Payment, error)
	// RefundForBooking marks a completed payment refunded and queues the
	// gateway refund. It is a no-op when nothing was paid.
	RefundForBooking(ctx context.Context, bookingID string) error
	// ProcessRefund performs the gateway refund of a refunded payment and
	// clears its pending flag. A refund already done is a no-op.
	ProcessRefund(ctx context.Context, paymentID string) error
	// RetryPendingRefunds issues every refund whose gateway call is still
	// outstanding, in the caller's goroutine. Queued tasks that gave up are
	// covered too.
	RetryPendingRefunds(ctx context.Context) error
}

// Gateway talks to an external payment provider.
type Gateway interface {
	Refund(ctx context.Context, p *models.Payment) error
}

// RefundQueue defers gateway refunds to the background worker.
type RefundQueue interface {
	EnqueueRefund(ctx context.Context, paymentID string) error
}
