package models

import "time"

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit-card"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodEWallet      PaymentMethod = "e-wallet"
	MethodCash         PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodBankTransfer, MethodEWallet, MethodCash:
		return true
	}
	return false
}

// Electronic reports whether the method settles through a gateway and
// therefore carries a transaction id once processed.
func (m PaymentMethod) Electronic() bool {
	return m != MethodCash
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment for a single booking.
type Payment struct {
	ID            string        `bson:"id" json:"id"`
	BookingID     string        `bson:"bookingId" json:"bookingId"`
	Amount        Rupiah        `bson:"amount" json:"amount"`
	Method        PaymentMethod `bson:"method" json:"method"`
	Status        PaymentStatus `bson:"status" json:"status"`
	TransactionID string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	// RefundPending is set when the payment moves to refunded and cleared once
	// the provider has returned the money.
	RefundPending bool      `bson:"refundPending,omitempty" json:"refundPending,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

func (p *Payment) Validate() error {
	if p.BookingID == "" {
		return NewValidationError("bookingId", "is required")
	}
	if p.Amount <= 0 {
		return NewValidationError("amount", "must be positive")
	}
	if !p.Method.Valid() {
		return NewValidationError("method", "unknown payment method "+string(p.Method))
	}
	settled := p.Status == PaymentCompleted || p.Status == PaymentRefunded
	if settled && p.Method.Electronic() && p.TransactionID == "" {
		return NewValidationError("transactionId", "is required once an electronic payment is settled")
	}
	return nil
}
