package analytics

import (
	"context"
	"testing"
	"time"

	"pijatku/database/repository"
	"pijatku/database/seed"
	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCompute(t *testing.T) {
	jan := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)
	therapists := []models.Therapist{
		{User: models.User{ID: "t1"}, Location: models.Location{City: "Jakarta"}, IsAvailable: true, Rating: 4.8, ReviewCount: 10},
		{User: models.User{ID: "t2"}, Location: models.Location{City: "Bandung"}, IsAvailable: false, Rating: 4.2, ReviewCount: 3},
		{User: models.User{ID: "t3"}, Location: models.Location{City: "Bali"}, IsAvailable: true},
	}
	bookings := []models.Booking{
		{ID: "b1", ClientID: "c1", TherapistID: "t1", Status: models.BookingCompleted, TotalAmount: 150000, CompletedAt: &jan},
		{ID: "b2", ClientID: "c1", TherapistID: "t1", Status: models.BookingCompleted, TotalAmount: 100000, CompletedAt: &feb},
		{ID: "b3", ClientID: "c2", TherapistID: "t2", Status: models.BookingConfirmed, TotalAmount: 200000},
		{ID: "b4", ClientID: "c3", TherapistID: "t2", Status: models.BookingCancelled, TotalAmount: 90000},
		{ID: "b5", ClientID: "c4", TherapistID: "gone", Status: models.BookingPending, TotalAmount: 80000},
	}

	got := Compute(Input{Bookings: bookings, Therapists: therapists})

	assert.Equal(t, 5, got.TotalBookings)
	assert.Equal(t, models.Rupiah(250000), got.TotalRevenue)
	assert.Equal(t, 2, got.ActiveTherapists)
	assert.Equal(t, 3, got.ActiveClients, "c3 only has a cancelled booking")
	assert.InDelta(t, 4.5, got.AverageRating, 1e-9)
	assert.Equal(t, map[string]int{"Jakarta": 2, "Bandung": 2}, got.BookingsByCity)
	assert.Equal(t, map[string]models.Rupiah{"2024-01": 150000, "2024-02": 100000}, got.RevenueByMonth)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(Input{})
	assert.Zero(t, got.TotalBookings)
	assert.Zero(t, got.AverageRating)
	assert.NotNil(t, got.BookingsByCity)
	assert.NotNil(t, got.RevenueByMonth)
}

func TestDashboard_OverSeedData(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, seed.Load(ctx, store, zap.NewNop()))

	a, err := NewAnalyticsService(store.Users, store.Bookings, zap.NewNop()).Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, a.TotalBookings)
	assert.Equal(t, 4, a.ActiveTherapists, "Made is unavailable")
	assert.Greater(t, a.TotalRevenue, models.Rupiah(0))
}
