package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingBooking() Booking {
	return Booking{
		ID:               "b-1",
		ClientID:         "c-1",
		TherapistID:      "t-1",
		ServiceID:        "s-1",
		Date:             time.Date(2024, 2, 20, 14, 0, 0, 0, time.UTC),
		Duration:         60,
		Status:           BookingPending,
		PlatformFee:      10000,
		PaymentFee:       5000,
		TherapistEarning: 85000,
		TotalAmount:      100000,
		Address:          "Jl. Sudirman No. 1, Jakarta",
		CreatedAt:        time.Date(2024, 2, 18, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewBookingAcceptsMatchingFeeSum(t *testing.T) {
	b, err := NewBooking(pendingBooking())
	require.NoError(t, err)
	assert.Equal(t, Rupiah(100000), b.TotalAmount)
}

func TestNewBookingRejectsMismatchedFeeSum(t *testing.T) {
	in := pendingBooking()
	in.TotalAmount = 90000

	_, err := NewBooking(in)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "totalAmount", verr.Field)
}

func TestBookingCompletedAtOnlyForCompleted(t *testing.T) {
	now := time.Now()

	in := pendingBooking()
	in.CompletedAt = &now
	assert.Error(t, in.Validate())

	in.Status = BookingCompleted
	assert.NoError(t, in.Validate())

	in.CompletedAt = nil
	assert.Error(t, in.Validate())
}

func TestBookingRequiresAddressAndReferences(t *testing.T) {
	in := pendingBooking()
	in.Address = "   "
	assert.Error(t, in.Validate())

	in = pendingBooking()
	in.TherapistID = ""
	assert.Error(t, in.Validate())
}

func TestBookingParties(t *testing.T) {
	b := pendingBooking()
	assert.True(t, b.HasParty("c-1"))
	assert.True(t, b.HasParty("t-1"))
	assert.False(t, b.HasParty("x"))
	assert.False(t, b.HasParty(""))
	assert.Equal(t, "t-1", b.Counterpart("c-1"))
	assert.Equal(t, "c-1", b.Counterpart("t-1"))
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.True(t, BookingCompleted.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.False(t, BookingInProgress.Terminal())
	assert.False(t, BookingStatus("done").Valid())
}
