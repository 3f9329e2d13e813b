package feeds

import (
	"battlefeed/storage/models"
	"context"
	"sort"

	log "github.com/sirupsen/logrus"
)

type Store interface {
	GetFeed(ctx context.Context) ([]models.FeedEntry, error)
}

type Snapshot interface {
	SetSnapshot(ctx context.Context, entries []models.FeedEntry)
	GetSnapshot(ctx context.Context) (bool, []models.FeedEntry)
}

// Projector is the ranked read view over the feed store. It holds no state
// of its own and is safe to call concurrently from any number of viewers.
type Projector struct {
	store    Store
	snapshot Snapshot
}

func NewProjector(store Store, snapshot Snapshot) *Projector {
	return &Projector{
		store:    store,
		snapshot: snapshot,
	}
}

// Project returns all entries with their comments, most liked first. When the
// store read fails it falls back to the last good snapshot rather than an
// empty feed; the underlying error is only returned when no snapshot exists.
func (p *Projector) Project(ctx context.Context) ([]models.FeedEntry, error) {
	entries, err := p.store.GetFeed(ctx)
	if err != nil {
		log.Errorf("Error projecting feed: %v", err)
		if ok, cached := p.snapshot.GetSnapshot(ctx); ok {
			return cached, nil
		}
		return nil, err
	}

	rankEntries(entries)
	p.snapshot.SetSnapshot(ctx, entries)
	return entries, nil
}

// Leader returns the first entry of the projection, or nil on an empty feed.
func (p *Projector) Leader(ctx context.Context) (*models.FeedEntry, error) {
	entries, err := p.Project(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// rankEntries orders by like count descending. Ties break on admission order
// and then asset id, so repeated reads of unchanged data agree.
func rankEntries(entries []models.FeedEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].LikeCount != entries[j].LikeCount {
			return entries[i].LikeCount > entries[j].LikeCount
		}
		if !entries[i].AdmittedAt.Equal(entries[j].AdmittedAt) {
			return entries[i].AdmittedAt.Before(entries[j].AdmittedAt)
		}
		return entries[i].AssetID < entries[j].AssetID
	})
}
