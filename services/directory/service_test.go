package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"pijatku/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLister struct {
	therapists []models.Therapist
	calls      int
	err        error
}

func (s *stubLister) ListTherapists(context.Context) ([]models.Therapist, error) {
	s.calls++
	return s.therapists, s.err
}

func (s *stubLister) GetTherapist(_ context.Context, id string) (*models.Therapist, error) {
	for _, t := range s.therapists {
		if t.ID == id {
			found := t
			return &found, nil
		}
	}
	return nil, errors.New("therapist " + id + ": record not found")
}

func TestDirectoryService_Search(t *testing.T) {
	lister := &stubLister{therapists: fixture()}
	svc := NewDirectoryService(lister, lister, zap.NewNop())

	got, err := svc.Search(context.Background(), ParseQuery("", "Jakarta", "", ""))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5"}, ids(got))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Search(ctx, ParseQuery("", "", "", ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirectoryService_Options(t *testing.T) {
	svc := NewDirectoryService(&stubLister{}, &stubLister{}, zap.NewNop())
	opts := svc.Options()
	assert.Equal(t, AllCities, opts.Cities[0])
	assert.Len(t, opts.Cities, len(models.IndonesianCities)+1)
	assert.Len(t, opts.Categories, 8)
	assert.Equal(t, []string{"All", "male", "female"}, opts.Genders)
}

func TestCachedLister_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	lister := &stubLister{therapists: fixture()}
	cached := NewCachedLister(lister, client, time.Minute, zap.NewNop())

	got, err := cached.ListTherapists(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 1, lister.calls)
	cached.Invalidate(context.Background())
}
