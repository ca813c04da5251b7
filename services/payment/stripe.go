package payment

import (
	"context"
	"fmt"

	"pijatku/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"
)

// StripeGateway refunds card payments. The transaction id of a card payment
// is its Stripe PaymentIntent id.
type StripeGateway struct {
	client *refund.Client
}

func NewStripeGateway(key string) *StripeGateway {
	return &StripeGateway{client: &refund.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}}
}

func (g *StripeGateway) Refund(ctx context.Context, p *models.Payment) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(p.TransactionID),
		// Stripe expects IDR in hundredths even though rupiah has no subunit.
		Amount: stripe.Int64(int64(p.Amount) * 100),
		Reason: stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + p.ID)
	params.AddMetadata("paymentId", p.ID)
	params.AddMetadata("bookingId", p.BookingID)

	r, err := g.client.New(params)
	if err != nil {
		return fmt.Errorf("stripe refund: %w", err)
	}
	if r.Status == stripe.RefundStatusFailed || r.Status == stripe.RefundStatusCanceled {
		return fmt.Errorf("stripe refund %s ended %s", r.ID, r.Status)
	}
	return nil
}
