package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pijatku/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer schedules background work on the asynq queue.
type Enqueuer struct {
	client *asynq.Client
	lead   time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewEnqueuer(client *asynq.Client, reminderLead time.Duration, logger *zap.Logger) *Enqueuer {
	return &Enqueuer{client: client, lead: reminderLead, logger: logger, now: time.Now}
}

// ScheduleReminder queues the reminder of a confirmed booking. Scheduling the
// same booking twice is a no-op.
func (e *Enqueuer) ScheduleReminder(ctx context.Context, b *models.Booking) error {
	fireAt, ok := ReminderTime(b.Date, e.lead, e.now())
	if !ok {
		e.logger.Debug("Session already started, no reminder", zap.String("booking", b.ID))
		return nil
	}
	task, opts, err := NewReminderTask(ReminderPayload{BookingID: b.ID, SessionAt: b.Date}, fireAt)
	if err != nil {
		return fmt.Errorf("build reminder task: %w", err)
	}
	return e.enqueue(ctx, task, opts, zap.String("booking", b.ID), zap.Time("fireAt", fireAt))
}

// EnqueueRefund queues the gateway refund of a payment.
func (e *Enqueuer) EnqueueRefund(ctx context.Context, paymentID string) error {
	task, opts, err := NewRefundTask(RefundPayload{PaymentID: paymentID})
	if err != nil {
		return fmt.Errorf("build refund task: %w", err)
	}
	return e.enqueue(ctx, task, opts, zap.String("payment", paymentID))
}

// EnqueueCredit queues another attempt at crediting a completed booking.
func (e *Enqueuer) EnqueueCredit(ctx context.Context, bookingID string) error {
	task, opts, err := NewCreditTask(CreditPayload{BookingID: bookingID})
	if err != nil {
		return fmt.Errorf("build credit task: %w", err)
	}
	return e.enqueue(ctx, task, opts, zap.String("booking", bookingID))
}

func (e *Enqueuer) enqueue(ctx context.Context, task *asynq.Task, opts []asynq.Option, fields ...zap.Field) error {
	info, err := e.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		e.logger.Debug("Task already queued", append(fields, zap.String("type", task.Type()))...)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	e.logger.Info("Task queued", append(fields, zap.String("type", task.Type()), zap.String("id", info.ID))...)
	return nil
}
