package booking

import (
	"testing"

	"pijatku/models"

	"github.com/stretchr/testify/assert"
)

var forwardOrder = []models.BookingStatus{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingInProgress,
	models.BookingCompleted,
}

func TestCanTransition_LegalPairs(t *testing.T) {
	legal := map[[2]models.BookingStatus]bool{
		{models.BookingPending, models.BookingConfirmed}:    true,
		{models.BookingConfirmed, models.BookingInProgress}: true,
		{models.BookingInProgress, models.BookingCompleted}: true,
		{models.BookingPending, models.BookingCancelled}:    true,
		{models.BookingConfirmed, models.BookingCancelled}:  true,
	}
	for _, from := range models.BookingStatuses {
		for _, to := range models.BookingStatuses {
			assert.Equal(t, legal[[2]models.BookingStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransition_NeverBackwardsOrSkipping(t *testing.T) {
	for i, from := range forwardOrder {
		for j, to := range forwardOrder {
			if j != i+1 {
				assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	}
	assert.False(t, CanTransition(models.BookingCompleted, models.BookingPending))
	assert.False(t, CanTransition(models.BookingInProgress, models.BookingCancelled))
	assert.False(t, CanTransition(models.BookingCancelled, models.BookingPending))
}

func TestPartition_EveryBookingInExactlyOneTab(t *testing.T) {
	var all []models.Booking
	for i, s := range models.BookingStatuses {
		all = append(all, models.Booking{ID: string(rune('a' + i)), Status: s})
		all = append(all, models.Booking{ID: string(rune('A' + i)), Status: s})
	}
	upcoming, past := Partition(all)
	assert.Len(t, upcoming, 6)
	assert.Len(t, past, 4)

	seen := map[string]int{}
	for _, b := range upcoming {
		seen[b.ID]++
		assert.True(t, IsUpcoming(b.Status))
	}
	for _, b := range past {
		seen[b.ID]++
		assert.False(t, IsUpcoming(b.Status))
	}
	assert.Len(t, seen, len(all))
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}

	empty, none := Partition(nil)
	assert.Empty(t, empty)
	assert.Empty(t, none)
}

func TestStatusTierAndLabel(t *testing.T) {
	tiers := map[Tier]bool{}
	for _, s := range models.BookingStatuses {
		tiers[StatusTier(s)] = true
	}
	assert.Len(t, tiers, 5, "each status has its own tier")
	assert.Equal(t, TierDanger, StatusTier(models.BookingCancelled))
	assert.Equal(t, TierSuccess, StatusTier(models.BookingCompleted))
	assert.Equal(t, "In progress", StatusLabel(models.BookingInProgress))
	assert.Equal(t, "Pending", StatusLabel(models.BookingPending))
}

func TestMessagingClosedAfterCancellation(t *testing.T) {
	assert.True(t, CanMessage(&models.Booking{Status: models.BookingConfirmed}))
	assert.True(t, CanMessage(&models.Booking{Status: models.BookingCompleted}))
	assert.False(t, CanMessage(&models.Booking{Status: models.BookingCancelled}))
}
