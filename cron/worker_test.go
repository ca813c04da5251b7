package cron

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentPush struct{ userID, title, body string }

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentPush
}

func (n *fakeNotifier) Notify(_ context.Context, userID, title, body string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentPush{userID, title, body})
	return nil
}

type fakeRefunds struct{ err error }

func (f fakeRefunds) ProcessRefund(context.Context, string) error { return f.err }
func (f fakeRefunds) RetryPendingRefunds(context.Context) error   { return f.err }

type fakeCredits struct {
	err      error
	credited []string
	swept    int
}

func (f *fakeCredits) CreditEarnings(_ context.Context, bookingID string) error {
	if f.err != nil {
		return f.err
	}
	f.credited = append(f.credited, bookingID)
	return nil
}

func (f *fakeCredits) ReconcileCredits(context.Context) error {
	f.swept++
	return f.err
}

var session = time.Date(2024, 2, 19, 7, 30, 0, 0, time.UTC) // 14.30 WIB

func newDeps(t *testing.T, status models.BookingStatus) (Deps, *fakeNotifier) {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Users.Create(ctx, &models.Client{User: models.User{ID: "c1", Email: "andi@pijatku.id", Name: "Andi"}}))
	require.NoError(t, store.Users.Create(ctx, &models.Therapist{
		User: models.User{ID: "t1", Email: "dewi@pijatku.id", Name: "Dewi"}, Gender: models.GenderFemale, HourlyRate: 150000,
	}))
	require.NoError(t, store.Bookings.Create(ctx, &models.Booking{
		ID: "b1", ClientID: "c1", TherapistID: "t1", ServiceID: "s1", Date: session, Duration: 60, Status: status,
		TotalAmount: 150000, PlatformFee: 15000, PaymentFee: 4500, TherapistEarning: 130500, Address: "Jl. Thamrin 1",
	}))
	n := &fakeNotifier{}
	return Deps{Bookings: store.Bookings, Users: store.Users, Refunds: fakeRefunds{}, Notifier: n, Logger: zap.NewNop()}, n
}

func reminderTask(t *testing.T, at time.Time) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(tasks.ReminderPayload{BookingID: "b1", SessionAt: at})
	require.NoError(t, err)
	return asynq.NewTask(tasks.TypeBookingReminder, b)
}

func TestReminder_NotifiesBothParties(t *testing.T) {
	d, n := newDeps(t, models.BookingConfirmed)

	require.NoError(t, handleReminderTask(d)(context.Background(), reminderTask(t, session)))

	require.Len(t, n.sent, 2)
	assert.Equal(t, "c1", n.sent[0].userID)
	assert.Contains(t, n.sent[0].body, "Dewi")
	assert.Contains(t, n.sent[0].body, "Sen, 19 Feb 2024 14.30")
	assert.Equal(t, "t1", n.sent[1].userID)
	assert.Contains(t, n.sent[1].body, "Andi")
}

func TestReminder_SkipsStaleBookings(t *testing.T) {
	d, n := newDeps(t, models.BookingCancelled)
	require.NoError(t, handleReminderTask(d)(context.Background(), reminderTask(t, session)))
	assert.Empty(t, n.sent)

	d, n = newDeps(t, models.BookingConfirmed)
	require.NoError(t, handleReminderTask(d)(context.Background(), reminderTask(t, session.Add(time.Hour))))
	assert.Empty(t, n.sent, "session moved since the reminder was queued")

	err := handleReminderTask(d)(context.Background(), asynq.NewTask(tasks.TypeBookingReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestRefundTask_RetryPolicy(t *testing.T) {
	d, _ := newDeps(t, models.BookingCancelled)
	payload, err := json.Marshal(tasks.RefundPayload{PaymentID: "p1"})
	require.NoError(t, err)
	task := asynq.NewTask(tasks.TypePaymentRefund, payload)

	require.NoError(t, handleRefundTask(d)(context.Background(), task))

	d.Refunds = fakeRefunds{err: errors.New("gateway timeout")}
	err = handleRefundTask(d)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	d.Refunds = fakeRefunds{err: models.NewNotFoundError("payment", "p1")}
	assert.ErrorIs(t, handleRefundTask(d)(context.Background(), task), asynq.SkipRetry)
}

func TestCreditTask_RetryPolicy(t *testing.T) {
	d, _ := newDeps(t, models.BookingCompleted)
	credits := &fakeCredits{}
	d.Credits = credits
	payload, err := json.Marshal(tasks.CreditPayload{BookingID: "b1"})
	require.NoError(t, err)
	task := asynq.NewTask(tasks.TypeBookingCredit, payload)

	require.NoError(t, handleCreditTask(d)(context.Background(), task))
	assert.Equal(t, []string{"b1"}, credits.credited)

	credits.err = errors.New("mongo unavailable")
	err = handleCreditTask(d)(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	credits.err = &models.InvalidTransitionError{Entity: "booking", From: "cancelled", To: "credited"}
	assert.ErrorIs(t, handleCreditTask(d)(context.Background(), task), asynq.SkipRetry)
}

func TestReconcile_RunsBothSweeps(t *testing.T) {
	d, _ := newDeps(t, models.BookingCompleted)
	credits := &fakeCredits{}
	d.Credits = credits

	require.NoError(t, Reconcile(context.Background(), d))
	assert.Equal(t, 1, credits.swept)

	d.Refunds = fakeRefunds{err: errors.New("gateway timeout")}
	credits.err = errors.New("mongo unavailable")
	err := Reconcile(context.Background(), d)
	assert.ErrorContains(t, err, "gateway timeout")
	assert.ErrorContains(t, err, "mongo unavailable")
	assert.Equal(t, 2, credits.swept, "a failing refund sweep does not skip credits")
}

func TestReconcileLoop_StopsWithContext(t *testing.T) {
	d, _ := newDeps(t, models.BookingCompleted)
	credits := &sweepCounter{}
	d.Credits = credits
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		RunReconcileLoop(ctx, 5*time.Millisecond, d)
		close(done)
	}()
	assert.Eventually(t, func() bool { return credits.count() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconcile loop kept running after cancel")
	}
}

type sweepCounter struct {
	mu sync.Mutex
	n  int
}

func (s *sweepCounter) CreditEarnings(context.Context, string) error { return nil }

func (s *sweepCounter) ReconcileCredits(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return nil
}

func (s *sweepCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
