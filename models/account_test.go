package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTherapist() *Therapist {
	return &Therapist{
		User:        User{ID: "t-1", Email: "siti@example.com", Name: "Siti Nurhaliza", CreatedAt: time.Now()},
		Gender:      GenderFemale,
		Services:    []Service{{ID: "s-1", Name: "Traditional Thai", Duration: 90, Price: 250000, Category: CategoryThai}},
		Location:    Location{City: "Bandung", Latitude: -6.91, Longitude: 107.61},
		Rating:      4.8,
		HourlyRate:  200000,
		IsAvailable: true,
	}
}

func TestAccountVariantsCarryExactlyOneRole(t *testing.T) {
	u := User{ID: "u-1", Email: "a@b.id", Name: "Andi"}
	for _, role := range []Role{RoleClient, RoleTherapist, RoleAdmin} {
		acc, err := NewAccount(role, u)
		require.NoError(t, err)
		assert.Equal(t, role, acc.Role())
		assert.Equal(t, "u-1", acc.Identity().ID)
	}

	_, err := NewAccount("owner", u)
	assert.Error(t, err)
}

func TestTherapistValidation(t *testing.T) {
	require.NoError(t, validTherapist().Validate())

	th := validTherapist()
	th.Rating = 5.5
	assert.Error(t, th.Validate())

	th = validTherapist()
	th.PendingPayout = 10
	th.TotalEarnings = 5
	assert.Error(t, th.Validate())

	th = validTherapist()
	th.Services = append(th.Services, Service{ID: "s-2", Duration: 60, Price: 1, Category: "Shiatsu"})
	assert.Error(t, th.Validate())

	th = validTherapist()
	th.Services = append(th.Services, th.Services[0])
	assert.Error(t, th.Validate())
}

func TestTherapistServiceLookup(t *testing.T) {
	th := validTherapist()
	assert.True(t, th.OffersCategory(CategoryThai))
	assert.False(t, th.OffersCategory(CategorySwedish))

	s, ok := th.FindService("s-1")
	require.True(t, ok)
	assert.Equal(t, 90, s.Duration)
	_, ok = th.FindService("missing")
	assert.False(t, ok)
}

func TestPrimaryPhotoFallsBackToAvatar(t *testing.T) {
	th := validTherapist()
	th.Avatar = "avatar.jpg"
	assert.Equal(t, "avatar.jpg", th.PrimaryPhoto())
	th.Photos = []string{"one.jpg", "two.jpg"}
	assert.Equal(t, "one.jpg", th.PrimaryPhoto())
}

func TestReviewRatingRange(t *testing.T) {
	r := &Review{BookingID: "b-1", Rating: 0}
	assert.Error(t, r.Validate())
	r.Rating = 6
	assert.Error(t, r.Validate())
	r.Rating = 5
	assert.NoError(t, r.Validate())
}

func TestElectronicPaymentNeedsTransactionID(t *testing.T) {
	p := &Payment{BookingID: "b-1", Amount: 100000, Method: MethodEWallet, Status: PaymentCompleted}
	assert.Error(t, p.Validate())
	p.TransactionID = "tx-1"
	assert.NoError(t, p.Validate())

	cash := &Payment{BookingID: "b-1", Amount: 100000, Method: MethodCash, Status: PaymentCompleted}
	assert.NoError(t, cash.Validate())

	declined := &Payment{BookingID: "b-1", Amount: 100000, Method: MethodCreditCard, Status: PaymentFailed}
	assert.NoError(t, declined.Validate(), "a declined card may never have reached the gateway")
}

func TestRupiahString(t *testing.T) {
	assert.Equal(t, "Rp 100.000", Rupiah(100000).String())
	assert.Equal(t, "Rp 0", Rupiah(0).String())
	assert.Equal(t, "-Rp 1.500", Rupiah(-1500).String())
}

func TestKnownCities(t *testing.T) {
	assert.True(t, IsKnownCity("Jakarta"))
	assert.False(t, IsKnownCity("jakarta"))
	assert.Len(t, IndonesianCities, 14)
	assert.Len(t, ServiceCategories, 8)
}
