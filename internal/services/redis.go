package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/transeast/tripmaster-backend/internal/models"
)

var RedisClient *redis.Client

// InitRedis initializes the Redis client
func InitRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://redis:6379" // Default Redis address for Docker
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	RedisClient = redis.NewClient(opt)

	// Test the connection
	ctx := context.Background()
	_, err = RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return nil
}

const tripSnapshotKey = "trips:snapshot"

// SnapshotCache keeps the last successfully fetched trip list so the report
// view still has data when the remote store is down. Writes are best effort
// and never fail a save path; callers log and move on.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// SaveSnapshot overwrites the cached list. No TTL: the last known good list
// must survive an outage of any length.
func (c *SnapshotCache) SaveSnapshot(ctx context.Context, trips []models.TripRecord) error {
	data, err := json.Marshal(trips)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, tripSnapshotKey, data, 0).Err()
}

// LoadSnapshot returns the cached list, or nil when no snapshot has ever
// been written.
func (c *SnapshotCache) LoadSnapshot(ctx context.Context) ([]models.TripRecord, error) {
	data, err := c.client.Get(ctx, tripSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trips []models.TripRecord
	if err := json.Unmarshal([]byte(data), &trips); err != nil {
		return nil, err
	}
	return trips, nil
}
