package bookingRepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"pijatku/database"
	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(id string, date time.Time) *models.Booking {
	return &models.Booking{
		ID: id, ClientID: "c1", TherapistID: "t1", ServiceID: "s1",
		Date: date, Duration: 60, Status: models.BookingPending,
		TotalAmount: 100000, PlatformFee: 10000, PaymentFee: 5000, TherapistEarning: 85000,
		Address: "Jl. Sudirman 1",
	}
}

func TestMemoryBookingRepo_UpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	require.NoError(t, repo.Create(ctx, pending("b1", time.Now())))

	updated, err := repo.UpdateStatus(ctx, "b1", models.BookingPending, 0, models.BookingConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Equal(t, int64(1), updated.Version)

	_, err = repo.UpdateStatus(ctx, "b1", models.BookingPending, 0, models.BookingCancelled, nil)
	assert.ErrorIs(t, err, database.ErrConflict)

	stored, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, stored.Status)
}

func TestMemoryBookingRepo_ConcurrentUpdatesHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	require.NoError(t, repo.Create(ctx, pending("b1", time.Now())))

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for _, next := range []models.BookingStatus{models.BookingConfirmed, models.BookingCancelled, models.BookingConfirmed, models.BookingCancelled} {
		wg.Add(1)
		go func(next models.BookingStatus) {
			defer wg.Done()
			if _, err := repo.UpdateStatus(ctx, "b1", models.BookingPending, 0, next, nil); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(next)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemoryBookingRepo_ListByPartyNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, pending("old", now.Add(-48*time.Hour))))
	require.NoError(t, repo.Create(ctx, pending("new", now.Add(48*time.Hour))))
	other := pending("other", now)
	other.ClientID, other.TherapistID = "c9", "t9"
	require.NoError(t, repo.Create(ctx, other))

	list, err := repo.ListByParty(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.ErrorIs(t, repo.Create(ctx, pending("old", now)), database.ErrDuplicate)
}

func TestMemoryBookingRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	require.NoError(t, repo.Create(ctx, pending("b1", time.Now())))

	b, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	b.Status = models.BookingCompleted

	again, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, again.Status)
}

func TestMemoryBookingRepo_ListUncreditedUntilMarked(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo()
	require.NoError(t, repo.Create(ctx, pending("b1", time.Now())))
	require.NoError(t, repo.Create(ctx, pending("b2", time.Now())))
	done := time.Now()
	for _, step := range []struct{ from, to models.BookingStatus }{
		{models.BookingPending, models.BookingConfirmed},
		{models.BookingConfirmed, models.BookingInProgress},
		{models.BookingInProgress, models.BookingCompleted},
	} {
		b, err := repo.GetByID(ctx, "b1")
		require.NoError(t, err)
		_, err = repo.UpdateStatus(ctx, "b1", step.from, b.Version, step.to, &done)
		require.NoError(t, err)
	}

	missed, err := repo.ListUncredited(ctx)
	require.NoError(t, err)
	require.Len(t, missed, 1, "pending bookings have nothing to credit")
	assert.Equal(t, "b1", missed[0].ID)

	require.NoError(t, repo.MarkCredited(ctx, "b1"))
	missed, err = repo.ListUncredited(ctx)
	require.NoError(t, err)
	assert.Empty(t, missed)

	assert.ErrorIs(t, repo.MarkCredited(ctx, "ghost"), database.ErrNotFound)
}
