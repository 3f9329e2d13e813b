package cache

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// ViewersCache remembers which entries a viewer context has already liked.
// It is advisory: there is no authoritative viewer identity, so it guards
// against repeat clicks from the same device, not against a second device.
// Failures degrade to "not liked" rather than blocking the action.
type ViewersCache struct {
	redisClient *redis.Client
}

func NewViewersCache(options *redis.Options) *ViewersCache {
	return &ViewersCache{
		redisClient: redis.NewClient(options),
	}
}

func (c *ViewersCache) HasLiked(ctx context.Context, viewerID string, assetID string) bool {
	liked, err := c.redisClient.SIsMember(
		ctx,
		c.getRedisKey(viewerID),
		assetID,
	).Result()
	if err != nil {
		log.Errorf("Error checking viewer likes: %s", err)
		return false
	}
	return liked
}

func (c *ViewersCache) RecordLike(ctx context.Context, viewerID string, assetID string) {
	err := c.redisClient.SAdd(
		ctx,
		c.getRedisKey(viewerID),
		assetID,
	).Err()
	if err != nil {
		log.Errorf("Error recording viewer like: %s", err)
	}
}

func (c *ViewersCache) getRedisKey(viewerID string) string {
	return fmt.Sprintf("viewer_likes__%s", viewerID)
}
