package directory

import (
	"context"
	"encoding/json"
	"time"

	"pijatku/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const therapistListKey = "directory:therapists"

// CachedLister keeps the therapist listing in Redis as JSON. Redis failures
// are logged and the call falls through to the wrapped lister.
type CachedLister struct {
	next   TherapistLister
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedLister(next TherapistLister, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLister {
	return &CachedLister{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedLister) ListTherapists(ctx context.Context) ([]models.Therapist, error) {
	raw, err := c.client.Get(ctx, therapistListKey).Bytes()
	switch {
	case err == nil:
		var cached []models.Therapist
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		c.logger.Warn("Discarding corrupt directory cache entry")
	case err != redis.Nil:
		c.logger.Warn("Directory cache unavailable", zap.Error(err))
	}

	therapists, err := c.next.ListTherapists(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(therapists); err == nil {
		if err := c.client.Set(ctx, therapistListKey, data, c.ttl).Err(); err != nil {
			c.logger.Debug("Directory cache not refreshed", zap.Error(err))
		}
	}
	return therapists, nil
}

// Invalidate drops the cached listing; call it after any therapist write.
func (c *CachedLister) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, therapistListKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate directory cache", zap.Error(err))
	}
}
