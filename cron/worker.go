package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pijatku/config"
	"pijatku/database"
	"pijatku/database/repository"
	"pijatku/models"
	"pijatku/services/notification"
	"pijatku/services/tasks"
	"pijatku/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RefundProcessor performs the gateway side of a refunded payment.
type RefundProcessor interface {
	ProcessRefund(ctx context.Context, paymentID string) error
	RetryPendingRefunds(ctx context.Context) error
}

// CreditProcessor folds completed bookings into therapist earnings.
type CreditProcessor interface {
	CreditEarnings(ctx context.Context, bookingID string) error
	ReconcileCredits(ctx context.Context) error
}

type Deps struct {
	Bookings repository.BookingRepository
	Users    repository.UserRepository
	Refunds  RefundProcessor
	Credits  CreditProcessor
	Notifier notification.Notifier
	Logger   *zap.Logger
}

// QueueRedisOpt is the asynq connection on the configured queue database.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewServeMux routes every background task type to its handler.
func NewServeMux(d Deps) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingReminder, handleReminderTask(d))
	mux.HandleFunc(tasks.TypePaymentRefund, handleRefundTask(d))
	mux.HandleFunc(tasks.TypeBookingCredit, handleCreditTask(d))
	mux.HandleFunc(tasks.TypeReconcile, func(ctx context.Context, _ *asynq.Task) error {
		return Reconcile(ctx, d)
	})
	return mux
}

// StartScheduler enqueues the reconcile sweep every interval. The caller
// shuts the scheduler down on exit.
func StartScheduler(interval time.Duration, logger *zap.Logger) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(QueueRedisOpt(), &asynq.SchedulerOpts{
		Logger:   logger.Sugar(),
		Location: time.UTC,
	})
	task, opts := tasks.NewReconcileTask(interval)
	if _, err := scheduler.Register("@every "+interval.String(), task, opts...); err != nil {
		return nil, fmt.Errorf("register reconcile: %w", err)
	}
	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("start scheduler: %w", err)
	}
	logger.Info("Reconcile scheduled", zap.Duration("every", interval))
	return scheduler, nil
}

// Reconcile credits missed completions and retries outstanding refunds.
func Reconcile(ctx context.Context, d Deps) error {
	var errs []error
	if d.Credits != nil {
		if err := d.Credits.ReconcileCredits(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if d.Refunds != nil {
		if err := d.Refunds.RetryPendingRefunds(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		d.Logger.Warn("Reconcile left work outstanding", zap.Error(err))
	}
	return err
}

// RunReconcileLoop runs Reconcile every interval until ctx is done. It stands
// in for the scheduler when no queue is available. A non-positive interval
// disables it.
func RunReconcileLoop(ctx context.Context, interval time.Duration, d Deps) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = Reconcile(ctx, d)
		}
	}
}

// StartWorker runs the async worker in the background. The caller owns the
// returned server and shuts it down on exit.
func StartWorker(d Deps) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: d.Logger.Sugar(),
		},
	)
	mux := NewServeMux(d)

	go func() {
		d.Logger.Info("Starting background worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			d.Logger.Warn("Background worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				d.Logger.Error("Background worker gave up; reminders and refunds will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleReminderTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			d.Logger.Error("Invalid reminder payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		b, err := d.Bookings.GetByID(ctx, p.BookingID)
		if errors.Is(err, database.ErrNotFound) {
			d.Logger.Debug("Reminder for missing booking dropped", zap.String("booking", p.BookingID))
			return nil
		}
		if err != nil {
			return err
		}
		// Cancelled or rescheduled sessions get no reminder.
		if b.Status != models.BookingConfirmed || !b.Date.Equal(p.SessionAt) {
			d.Logger.Debug("Reminder no longer applies", zap.String("booking", b.ID), zap.String("status", string(b.Status)))
			return nil
		}

		when := utils.FormatDateTimeID(b.Date)
		therapistName, clientName := "terapis Anda", "klien Anda"
		if t, err := d.Users.GetTherapist(ctx, b.TherapistID); err == nil {
			therapistName = t.Name
		}
		if c, err := d.Users.GetClient(ctx, b.ClientID); err == nil {
			clientName = c.Name
		}
		data := map[string]string{"type": "booking_reminder", "bookingId": b.ID}

		var errs []error
		if err := d.Notifier.Notify(ctx, b.ClientID, "Pengingat sesi pijat",
			fmt.Sprintf("Sesi dengan %s pada %s.", therapistName, when), data); err != nil {
			errs = append(errs, err)
		}
		if err := d.Notifier.Notify(ctx, b.TherapistID, "Pengingat sesi pijat",
			fmt.Sprintf("Sesi dengan %s pada %s di %s.", clientName, when, b.Address), data); err != nil {
			errs = append(errs, err)
		}
		if err := errors.Join(errs...); err != nil {
			d.Logger.Warn("Failed to send booking reminder", zap.String("booking", b.ID), zap.Error(err))
			return err
		}
		d.Logger.Info("Booking reminder sent", zap.String("booking", b.ID))
		return nil
	}
}

func handleRefundTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.RefundPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			d.Logger.Error("Invalid refund payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		err := d.Refunds.ProcessRefund(ctx, p.PaymentID)
		var it *models.InvalidTransitionError
		switch {
		case err == nil:
			return nil
		case models.IsNotFound(err), errors.As(err, &it):
			d.Logger.Warn("Refund task dropped", zap.String("payment", p.PaymentID), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		default:
			d.Logger.Warn("Gateway refund failed, will retry", zap.String("payment", p.PaymentID), zap.Error(err))
			return err
		}
	}
}

func handleCreditTask(d Deps) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CreditPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			d.Logger.Error("Invalid credit payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		err := d.Credits.CreditEarnings(ctx, p.BookingID)
		var it *models.InvalidTransitionError
		switch {
		case err == nil:
			return nil
		case models.IsNotFound(err), errors.As(err, &it):
			d.Logger.Warn("Credit task dropped", zap.String("booking", p.BookingID), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		default:
			d.Logger.Warn("Earnings credit failed, will retry", zap.String("booking", p.BookingID), zap.Error(err))
			return err
		}
	}
}
