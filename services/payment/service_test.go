package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"pijatku/database/repository"
	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGateway struct{ refunded []string }

func (g *fakeGateway) Refund(_ context.Context, p *models.Payment) error {
	g.refunded = append(g.refunded, p.ID)
	return nil
}

type fakeQueue struct {
	queued []string
	err    error
}

func (q *fakeQueue) EnqueueRefund(_ context.Context, paymentID string) error {
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, paymentID)
	return nil
}

// cancelAfterFirstRead cancels the booking right after its first read, so the
// booking is cancelled while a capture is in flight.
type cancelAfterFirstRead struct {
	repository.BookingRepository
	reads int
}

func (r *cancelAfterFirstRead) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := r.BookingRepository.GetByID(ctx, id)
	r.reads++
	if err == nil && r.reads == 1 {
		_, cancelErr := r.BookingRepository.UpdateStatus(ctx, id, b.Status, b.Version, models.BookingCancelled, nil)
		if cancelErr != nil {
			return nil, cancelErr
		}
	}
	return b, err
}

func cancelBooking(t *testing.T, store *repository.Store, id string) {
	t.Helper()
	ctx := context.Background()
	b, err := store.Bookings.GetByID(ctx, id)
	require.NoError(t, err)
	_, err = store.Bookings.UpdateStatus(ctx, id, b.Status, b.Version, models.BookingCancelled, nil)
	require.NoError(t, err)
}

func setup(t *testing.T) (*DefaultPaymentService, *repository.Store, *fakeGateway) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, &models.Admin{User: models.User{ID: "a1", Email: "admin@pijatku.id", Name: "Admin"}}))
	require.NoError(t, store.Bookings.Create(ctx, &models.Booking{
		ID: "b1", ClientID: "c1", TherapistID: "t1", ServiceID: "s1",
		Date: time.Now().Add(time.Hour), Duration: 60, Status: models.BookingConfirmed,
		TotalAmount: 100000, PlatformFee: 10000, PaymentFee: 5000, TherapistEarning: 85000,
		Address: "Jl. Sudirman",
	}))
	gw := &fakeGateway{}
	svc := NewPaymentService(store.Payments, store.Bookings, store.Users, map[models.PaymentMethod]Gateway{
		models.MethodCreditCard: gw,
		models.MethodEWallet:    gw,
	}, zap.NewNop())
	return svc, store, gw
}

func TestCreate_OnePaymentPerBookingForClient(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, "b1", "c1", models.MethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, models.Rupiah(100000), p.Amount)
	assert.Equal(t, models.PaymentPending, p.Status)

	_, err = svc.Create(ctx, "b1", "c1", models.MethodCash)
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.Create(ctx, "b1", "t1", models.MethodCash)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.Create(ctx, "nope", "c1", models.MethodCash)
	assert.True(t, models.IsNotFound(err))
}

func TestCapture_RequiresTransactionForElectronic(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "b1", "c1", models.MethodCreditCard)
	require.NoError(t, err)

	_, err = svc.Capture(ctx, p.ID, "c1", " ")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)

	captured, err := svc.Capture(ctx, p.ID, "c1", "pi_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, captured.Status)
	assert.Equal(t, "pi_123", captured.TransactionID)

	_, err = svc.Fail(ctx, p.ID, "a1", "")
	var it *models.InvalidTransitionError
	assert.ErrorAs(t, err, &it)
}

func TestRefundForBooking_QueuesGatewayRefund(t *testing.T) {
	svc, store, gw := setup(t)
	ctx := context.Background()
	q := &fakeQueue{}
	svc.SetRefundQueue(q)

	require.NoError(t, svc.RefundForBooking(ctx, "b1"), "no payment is a no-op")

	p, err := svc.Create(ctx, "b1", "c1", models.MethodEWallet)
	require.NoError(t, err)
	require.NoError(t, svc.RefundForBooking(ctx, "b1"), "pending payment is left alone")
	assert.Empty(t, q.queued)

	_, err = svc.Capture(ctx, p.ID, "c1", "order-1")
	require.NoError(t, err)
	require.NoError(t, svc.RefundForBooking(ctx, "b1"))
	require.NoError(t, svc.RefundForBooking(ctx, "b1"))

	stored, err := store.Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, stored.Status)
	assert.Equal(t, []string{p.ID}, q.queued)
	assert.Empty(t, gw.refunded, "gateway call happens in the worker")

	require.NoError(t, svc.ProcessRefund(ctx, p.ID))
	assert.Equal(t, []string{p.ID}, gw.refunded)
}

func TestRefundForBooking_CashNeedsNoGateway(t *testing.T) {
	svc, store, gw := setup(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "b1", "c1", models.MethodCash)
	require.NoError(t, err)
	_, err = svc.Capture(ctx, p.ID, "a1", "")
	require.NoError(t, err)

	require.NoError(t, svc.RefundForBooking(ctx, "b1"))
	stored, err := store.Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, stored.Status)
	assert.Empty(t, gw.refunded)
}

func TestFail_KeepsProviderReference(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "b1", "c1", models.MethodCreditCard)
	require.NoError(t, err)

	failed, err := svc.Fail(ctx, p.ID, "c1", "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, failed.Status)
	assert.Empty(t, failed.TransactionID)
}

func TestCapture_RejectedOnCancelledBooking(t *testing.T) {
	svc, store, gw := setup(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "b1", "c1", models.MethodCreditCard)
	require.NoError(t, err)

	cancelBooking(t, store, "b1")
	require.NoError(t, svc.RefundForBooking(ctx, "b1"))

	_, err = svc.Capture(ctx, p.ID, "c1", "tx-1")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "bookingId", ve.Field)

	stored, err := store.Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, stored.Status)
	assert.Empty(t, gw.refunded)
}

func TestCapture_RefundsWhenBookingCancelledMeanwhile(t *testing.T) {
	_, store, gw := setup(t)
	ctx := context.Background()
	bookings := &cancelAfterFirstRead{BookingRepository: store.Bookings}
	svc := NewPaymentService(store.Payments, bookings, store.Users, map[models.PaymentMethod]Gateway{
		models.MethodCreditCard: gw,
	}, zap.NewNop())

	p := &models.Payment{ID: "p1", BookingID: "b1", Amount: 100000, Method: models.MethodCreditCard, Status: models.PaymentPending}
	require.NoError(t, store.Payments.Create(ctx, p))

	got, err := svc.Capture(ctx, "p1", "c1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, got.Status)
	assert.False(t, got.RefundPending)
	assert.Equal(t, []string{"p1"}, gw.refunded)

	b, err := store.Bookings.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, b.Status)
}

func TestRefund_StaysPendingUntilGatewaySucceeds(t *testing.T) {
	svc, store, gw := setup(t)
	ctx := context.Background()
	q := &fakeQueue{err: errors.New("redis down")}
	svc.SetRefundQueue(q)

	p, err := svc.Create(ctx, "b1", "c1", models.MethodBankTransfer)
	require.NoError(t, err)
	_, err = svc.Capture(ctx, p.ID, "c1", "order-9")
	require.NoError(t, err)

	require.Error(t, svc.RefundForBooking(ctx, "b1"), "enqueue failure is reported")
	stored, err := store.Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, stored.Status)
	assert.True(t, stored.RefundPending)

	// bank-transfer has no gateway in this setup
	assert.ErrorIs(t, svc.RetryPendingRefunds(ctx), ErrNoGateway)
	pending, err := store.Payments.ListRefundPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Empty(t, q.queued)

	svc.gateways[models.MethodBankTransfer] = gw
	require.NoError(t, svc.RetryPendingRefunds(ctx))
	require.NoError(t, svc.ProcessRefund(ctx, p.ID))
	assert.Equal(t, []string{p.ID}, gw.refunded, "refund reaches the gateway once")

	pending, err = store.Payments.ListRefundPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
