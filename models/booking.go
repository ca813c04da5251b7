package models

import (
	"strings"
	"time"
)

// BookingStatus is a state of the booking lifecycle.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, known := range BookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking is the join entity between a client, a therapist and one of the
// therapist's services.
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	ClientID         string        `bson:"clientId" json:"clientId"`
	TherapistID      string        `bson:"therapistId" json:"therapistId"`
	ServiceID        string        `bson:"serviceId" json:"serviceId"`
	Date             time.Time     `bson:"date" json:"date"`
	Duration         int           `bson:"duration" json:"duration"` // minutes
	Status           BookingStatus `bson:"status" json:"status"`
	TotalAmount      Rupiah        `bson:"totalAmount" json:"totalAmount"`
	PlatformFee      Rupiah        `bson:"platformFee" json:"platformFee"`
	PaymentFee       Rupiah        `bson:"paymentFee" json:"paymentFee"`
	TherapistEarning Rupiah        `bson:"therapistEarning" json:"therapistEarning"`
	Address          string        `bson:"address" json:"address"`
	Notes            string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt" json:"createdAt"`
	CompletedAt      *time.Time    `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Version          int64         `bson:"version" json:"-"`
	// EarningsCredited is set once TherapistEarning has reached the therapist.
	EarningsCredited bool `bson:"earningsCredited" json:"-"`
}

// NewBooking constructs a booking and validates it, including the fee sum.
func NewBooking(b Booking) (*Booking, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// HasParty reports whether userID is the client or the therapist of the booking.
func (b *Booking) HasParty(userID string) bool {
	return userID != "" && (b.ClientID == userID || b.TherapistID == userID)
}

// Counterpart returns the other party of the booking for userID.
func (b *Booking) Counterpart(userID string) string {
	if b.ClientID == userID {
		return b.TherapistID
	}
	return b.ClientID
}

func (b *Booking) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return NewValidationError("id", "is required")
	}
	if b.ClientID == "" {
		return NewValidationError("clientId", "is required")
	}
	if b.TherapistID == "" {
		return NewValidationError("therapistId", "is required")
	}
	if b.ServiceID == "" {
		return NewValidationError("serviceId", "is required")
	}
	if b.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	if b.Duration <= 0 {
		return NewValidationError("duration", "must be positive")
	}
	if !b.Status.Valid() {
		return NewValidationError("status", "unknown status "+string(b.Status))
	}
	if strings.TrimSpace(b.Address) == "" {
		return NewValidationError("address", "is required")
	}
	if b.PlatformFee < 0 || b.PaymentFee < 0 || b.TherapistEarning < 0 {
		return NewValidationError("fees", "must not be negative")
	}
	if b.TotalAmount != b.PlatformFee+b.PaymentFee+b.TherapistEarning {
		return NewValidationError("totalAmount", "must equal platformFee + paymentFee + therapistEarning")
	}
	if b.Status == BookingCompleted && b.CompletedAt == nil {
		return NewValidationError("completedAt", "is required once completed")
	}
	if b.Status != BookingCompleted && b.CompletedAt != nil {
		return NewValidationError("completedAt", "is only set for completed bookings")
	}
	return nil
}
