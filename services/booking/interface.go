package booking

import (
	"context"
	"time"

	"pijatku/models"
)

// CreateBookingRequest is what a client submits to book a therapist's service.
type CreateBookingRequest struct {
	ClientID    string    `json:"-"`
	TherapistID string    `json:"therapistId" binding:"required"`
	ServiceID   string    `json:"serviceId" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Address     string    `json:"address"`
	Notes       string    `json:"notes"`
}

// BookingService drives the booking lifecycle.
type BookingService interface {
	Create(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	Get(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	Transition(ctx context.Context, bookingID, actorID string, next models.BookingStatus) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string, tab Tab) ([]Card, error)
	// CreditEarnings moves the earning of a completed booking into the
	// therapist's balance. Repeated calls credit it once.
	CreditEarnings(ctx context.Context, bookingID string) error
	// ReconcileCredits credits every completed booking that was missed.
	ReconcileCredits(ctx context.Context) error
}

// Refunder flags the payment of a cancelled booking for refund.
type Refunder interface {
	RefundForBooking(ctx context.Context, bookingID string) error
}

// CreditQueue retries a failed earnings credit in the background.
type CreditQueue interface {
	EnqueueCredit(ctx context.Context, bookingID string) error
}

// ReminderScheduler schedules the pre-session reminder of a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b *models.Booking) error
}
