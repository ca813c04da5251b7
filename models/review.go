package models

import "time"

// Review left by a client for a completed booking.
type Review struct {
	ID          string    `bson:"id" json:"id"`
	BookingID   string    `bson:"bookingId" json:"bookingId"`
	ClientID    string    `bson:"clientId" json:"clientId"`
	TherapistID string    `bson:"therapistId" json:"therapistId"`
	Rating      int       `bson:"rating" json:"rating"`
	Comment     string    `bson:"comment" json:"comment"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

func (r *Review) Validate() error {
	if r.BookingID == "" {
		return NewValidationError("bookingId", "is required")
	}
	if r.Rating < MinReviewRating || r.Rating > MaxReviewRating {
		return NewValidationError("rating", "must be an integer between 1 and 5")
	}
	return nil
}
