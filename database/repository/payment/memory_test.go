package paymentRepo

import (
	"context"
	"testing"
	"time"

	"pijatku/database"
	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPaymentRepo_RefundStaysPendingUntilCleared(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPaymentRepo()
	now := time.Now()
	for i, id := range []string{"p1", "p2"} {
		require.NoError(t, repo.Create(ctx, &models.Payment{
			ID: id, BookingID: "b" + id, Amount: 150000, Method: models.MethodCreditCard,
			Status: models.PaymentCompleted, TransactionID: "tx-" + id, CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	for _, id := range []string{"p2", "p1"} {
		refunded, err := repo.UpdateStatus(ctx, id, models.PaymentCompleted, models.PaymentRefunded, "")
		require.NoError(t, err)
		assert.True(t, refunded.RefundPending)
		assert.Equal(t, "tx-"+id, refunded.TransactionID)
	}

	pending, err := repo.ListRefundPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "p1", pending[0].ID, "oldest payment first")

	require.NoError(t, repo.ClearRefundPending(ctx, "p1"))
	pending, err = repo.ListRefundPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "p2", pending[0].ID)

	assert.ErrorIs(t, repo.ClearRefundPending(ctx, "ghost"), database.ErrNotFound)
}
