package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

const healthInterval = 60 * time.Second

// HealthStatus represents current status of external services. Services that
// are not configured are left out.
type HealthStatus struct {
	Mongo     *bool           `json:"mongo,omitempty"`
	Redis     map[string]bool `json:"redis,omitempty"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// Healthy reports whether every configured service answered the last check.
func (h HealthStatus) Healthy() bool {
	if h.Mongo != nil && !*h.Mongo {
		return false
	}
	for _, ok := range h.Redis {
		if !ok {
			return false
		}
	}
	return true
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor checks the backing services now and then periodically
// until ctx ends. mongoClient may be nil when repositories live in memory.
func StartHealthMonitor(ctx context.Context, redisClients map[string]*redis.Client, mongoClient *mongo.Client) {
	check := func() {
		status := HealthStatus{CheckedAt: time.Now()}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if len(redisClients) > 0 {
			status.Redis = make(map[string]bool, len(redisClients))
			for name, client := range redisClients {
				status.Redis[name] = client.Ping(pingCtx).Err() == nil
			}
		}
		if mongoClient != nil {
			ok := mongoClient.Ping(pingCtx, nil) == nil
			status.Mongo = &ok
		}

		mu.Lock()
		currentHealth = status
		mu.Unlock()
		if !status.Healthy() {
			GetLogger().Warn("Backing service unhealthy")
		}
	}

	check()
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()
}
