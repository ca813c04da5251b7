package userRepo

import (
	"context"
	"testing"

	"pijatku/database"
	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func therapist(id string) *models.Therapist {
	return &models.Therapist{
		User:       models.User{ID: id, Email: id + "@pijatku.id", Name: "Therapist " + id},
		Gender:     models.GenderFemale,
		HourlyRate: 150000,
		Services:   []models.Service{{ID: "s1", Duration: 60, Price: 150000, Category: models.CategoryThai}},
	}
}

func TestMemoryUserRepo_CreateRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))

	assert.ErrorIs(t, repo.Create(ctx, therapist("t1")), database.ErrDuplicate)

	sameEmail := &models.Client{User: models.User{ID: "c1", Email: "t1@pijatku.id", Name: "Budi"}}
	assert.ErrorIs(t, repo.Create(ctx, sameEmail), database.ErrDuplicate)
}

func TestMemoryUserRepo_VariantLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))
	require.NoError(t, repo.Create(ctx, &models.Client{User: models.User{ID: "c1", Email: "c1@pijatku.id", Name: "Budi"}}))

	_, err := repo.GetTherapist(ctx, "c1")
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = repo.GetClient(ctx, "t1")
	assert.ErrorIs(t, err, database.ErrNotFound)

	acc, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, acc.Role())

	therapists, err := repo.ListTherapists(ctx)
	require.NoError(t, err)
	assert.Len(t, therapists, 1)
	clients, err := repo.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestMemoryUserRepo_CreditEarningsOncePerBooking(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))

	require.NoError(t, repo.CreditEarnings(ctx, "t1", "b1", 85000))
	require.NoError(t, repo.CreditEarnings(ctx, "t1", "b1", 85000))
	require.NoError(t, repo.CreditEarnings(ctx, "t1", "b2", 50000))
	assert.ErrorIs(t, repo.CreditEarnings(ctx, "ghost", "b3", 1000), database.ErrNotFound)

	th, err := repo.GetTherapist(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.Rupiah(135000), th.TotalEarnings)
	assert.Equal(t, models.Rupiah(135000), th.PendingPayout)
}

func TestMemoryUserRepo_AdjustPayoutBalanceGuardsReservation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))
	require.NoError(t, repo.CreditEarnings(ctx, "t1", "b1", 85000))

	require.NoError(t, repo.AdjustPayoutBalance(ctx, "t1", 0, 50000))
	assert.ErrorIs(t, repo.AdjustPayoutBalance(ctx, "t1", 0, 50000), database.ErrConflict, "only 35000 left unreserved")
	require.NoError(t, repo.AdjustPayoutBalance(ctx, "t1", -50000, -50000))
	assert.ErrorIs(t, repo.AdjustPayoutBalance(ctx, "t1", 0, -1), database.ErrConflict)

	th, err := repo.GetTherapist(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.Rupiah(85000), th.TotalEarnings)
	assert.Equal(t, models.Rupiah(35000), th.PendingPayout)
	assert.Equal(t, models.Rupiah(0), th.ReservedPayout)
}

func TestMemoryUserRepo_UpdateProfileKeepsBalances(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))

	stale, err := repo.GetTherapist(ctx, "t1")
	require.NoError(t, err)
	require.NoError(t, repo.CreditEarnings(ctx, "t1", "b1", 85000))
	require.NoError(t, repo.ApplyReview(ctx, "t1", 5))

	stale.Bio = "Pijat tradisional"
	stale.Email = "changed@pijatku.id"
	require.NoError(t, repo.UpdateProfile(ctx, stale))

	th, err := repo.GetTherapist(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Pijat tradisional", th.Bio)
	assert.Equal(t, "t1@pijatku.id", th.Email)
	assert.Equal(t, models.Rupiah(85000), th.TotalEarnings)
	assert.Equal(t, models.Rupiah(85000), th.PendingPayout)
	assert.Equal(t, 1, th.ReviewCount)

	asClient := &models.Client{User: th.User}
	assert.ErrorIs(t, repo.UpdateProfile(ctx, asClient), database.ErrConflict)
	assert.ErrorIs(t, repo.UpdateProfile(ctx, therapist("ghost")), database.ErrNotFound)
}

func TestMemoryUserRepo_ApplyReviewRunningMean(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	require.NoError(t, repo.Create(ctx, therapist("t1")))

	require.NoError(t, repo.ApplyReview(ctx, "t1", 5))
	require.NoError(t, repo.ApplyReview(ctx, "t1", 4))
	require.NoError(t, repo.ApplyReview(ctx, "t1", 3))

	th, err := repo.GetTherapist(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 3, th.ReviewCount)
	assert.InDelta(t, 4.0, th.Rating, 1e-9)
}

func TestMemoryUserRepo_ReplaceSwapsVariant(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()
	c := &models.Client{User: models.User{ID: "u1", Email: "u1@pijatku.id", Name: "Ayu"}}
	require.NoError(t, repo.Create(ctx, c))

	th := therapist("u1")
	th.User = c.User
	require.NoError(t, repo.Replace(ctx, th))

	acc, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTherapist, acc.Role())
	assert.ErrorIs(t, repo.Replace(ctx, therapist("ghost")), database.ErrNotFound)
}
