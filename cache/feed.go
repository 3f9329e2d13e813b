package cache

import (
	"battlefeed/storage/models"
	"context"
	"encoding/json"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const FeedSnapshotRedisKey = "feed__snapshot"

// FeedCache holds the last ranked projection that was read successfully.
// It is only served when the store read path is down, so entries may be
// stale but their order is always one the store produced.
type FeedCache struct {
	redisClient *redis.Client
}

func NewFeedCache(options *redis.Options) *FeedCache {
	return &FeedCache{
		redisClient: redis.NewClient(options),
	}
}

func (c *FeedCache) SetSnapshot(ctx context.Context, entries []models.FeedEntry) {
	bytes, err := json.Marshal(entries)
	if err != nil {
		log.Errorf("Error marshalling feed snapshot: %s", err)
		return
	}
	if err := c.redisClient.Set(ctx, FeedSnapshotRedisKey, bytes, 0).Err(); err != nil {
		log.Errorf("Error storing feed snapshot: %s", err)
	}
}

func (c *FeedCache) GetSnapshot(ctx context.Context) (bool, []models.FeedEntry) {
	val, err := c.redisClient.Get(ctx, FeedSnapshotRedisKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Errorf("Error reading feed snapshot: %s", err)
		}
		return false, nil
	}

	var entries []models.FeedEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		log.Errorf("Error unmarshalling feed snapshot: %s", err)
		return false, nil
	}
	return true, entries
}
