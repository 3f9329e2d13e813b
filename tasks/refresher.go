package tasks

import (
	"battlefeed/feeds"
	"battlefeed/monitoring"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// RefreshProjection keeps the redis snapshot warm and the feed gauges
// current even when no viewer is reading.
func RefreshProjection(projector *feeds.Projector, interval time.Duration) {
	for {
		select {
		case <-time.After(interval):
			entries, err := projector.Project(context.Background())
			if err != nil {
				log.Errorf("Error refreshing projection: %v", err)
				continue
			}
			monitoring.FeedEntries.Set(float64(len(entries)))
			if len(entries) > 0 {
				monitoring.LeaderLikes.Set(float64(entries[0].LikeCount))
			} else {
				monitoring.LeaderLikes.Set(0)
			}
		}
	}
}
