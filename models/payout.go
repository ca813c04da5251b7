package models

import (
	"strings"
	"time"
)

type PayoutStatus string

const (
	PayoutPending   PayoutStatus = "pending"
	PayoutApproved  PayoutStatus = "approved"
	PayoutRejected  PayoutStatus = "rejected"
	PayoutCompleted PayoutStatus = "completed"
)

// PayoutRequest asks for part of a therapist's pending payout to be transferred.
type PayoutRequest struct {
	ID          string       `bson:"id" json:"id"`
	TherapistID string       `bson:"therapistId" json:"therapistId"`
	Amount      Rupiah       `bson:"amount" json:"amount"`
	Status      PayoutStatus `bson:"status" json:"status"`
	BankAccount string       `bson:"bankAccount" json:"bankAccount"`
	RequestedAt time.Time    `bson:"requestedAt" json:"requestedAt"`
	ProcessedAt *time.Time   `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}

func (p *PayoutRequest) Validate() error {
	if p.TherapistID == "" {
		return NewValidationError("therapistId", "is required")
	}
	if p.Amount <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	if strings.TrimSpace(p.BankAccount) == "" {
		return NewValidationError("bankAccount", "is required")
	}
	return nil
}
