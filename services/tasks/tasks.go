package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingReminder = "booking:reminder"
	TypeBookingCredit   = "booking:credit"
	TypePaymentRefund   = "payment:refund"
	TypeReconcile       = "maintenance:reconcile"
)

type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	SessionAt time.Time `json:"sessionAt"`
}

type RefundPayload struct {
	PaymentID string `json:"paymentId"`
}

type CreditPayload struct {
	BookingID string `json:"bookingId"`
}

// NewReminderTask builds the pre-session reminder for a booking, fired at fireAt.
func NewReminderTask(payload ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID("reminder:" + payload.BookingID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// NewRefundTask builds the gateway refund of a payment.
func NewRefundTask(payload RefundPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentRefund, b)
	opts := []asynq.Option{
		asynq.TaskID("refund:" + payload.PaymentID),
		asynq.MaxRetry(10),
		asynq.Timeout(time.Minute),
	}
	return task, opts, nil
}

// NewCreditTask builds the retry of a completed booking's earnings credit.
func NewCreditTask(payload CreditPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingCredit, b)
	opts := []asynq.Option{
		asynq.TaskID("credit:" + payload.BookingID),
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
	}
	return task, opts, nil
}

// NewReconcileTask builds the periodic sweep over uncredited completions and
// unsent refunds. Overlapping sweeps are deduplicated for interval.
func NewReconcileTask(interval time.Duration) (*asynq.Task, []asynq.Option) {
	return asynq.NewTask(TypeReconcile, nil), []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Unique(interval),
		asynq.Timeout(5 * time.Minute),
	}
}

// ReminderTime returns when the reminder of a session starting at sessionAt
// should fire. Sessions closer than lead are reminded right away; sessions
// already under way get no reminder.
func ReminderTime(sessionAt time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	if !sessionAt.After(now) {
		return time.Time{}, false
	}
	fireAt := sessionAt.Add(-lead)
	if fireAt.Before(now) {
		fireAt = now
	}
	return fireAt, true
}
