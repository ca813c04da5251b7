package directory

import (
	"context"
	"testing"
	"time"

	"pijatku/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer_NewerRequestSupersedesInFlight(t *testing.T) {
	seq := NewSequencer()
	started := make(chan struct{})
	type outcome struct {
		res []models.Therapist
		err error
	}
	first := make(chan outcome, 1)

	go func() {
		res, err := seq.Run(context.Background(), "s1", 1, func(ctx context.Context) ([]models.Therapist, error) {
			close(started)
			<-ctx.Done()
			return fixture(), nil
		})
		first <- outcome{res, err}
	}()
	<-started

	res, err := seq.Run(context.Background(), "s1", 2, func(ctx context.Context) ([]models.Therapist, error) {
		return fixture()[:1], nil
	})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	select {
	case out := <-first:
		assert.ErrorIs(t, out.err, ErrStaleSearch)
		assert.Nil(t, out.res)
	case <-time.After(2 * time.Second):
		t.Fatal("older search was not cancelled")
	}
}

func TestSequencer_LateOlderRequestIsStale(t *testing.T) {
	seq := NewSequencer()
	ok := func(ctx context.Context) ([]models.Therapist, error) { return fixture(), nil }

	_, err := seq.Run(context.Background(), "s1", 5, ok)
	require.NoError(t, err)

	called := false
	_, err = seq.Run(context.Background(), "s1", 3, func(ctx context.Context) ([]models.Therapist, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrStaleSearch)
	assert.False(t, called)

	_, err = seq.Run(context.Background(), "other", 1, ok)
	assert.NoError(t, err, "sessions are independent")
}

func TestSequencer_ForgetsIdleSessions(t *testing.T) {
	seq := NewSequencer()
	now := time.Now()
	seq.now = func() time.Time { return now }
	ok := func(ctx context.Context) ([]models.Therapist, error) { return nil, nil }

	_, err := seq.Run(context.Background(), "s1", 9, ok)
	require.NoError(t, err)

	now = now.Add(sessionIdleTTL + time.Minute)
	_, err = seq.Run(context.Background(), "s1", 1, ok)
	assert.NoError(t, err)
}
