package storage

import (
	"battlefeed/monitoring/middleware"
	"battlefeed/storage/db"
	"battlefeed/storage/models"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

const foreignKeyViolationCode = "23503"

// Manager owns every write to the feed store and the comment log. All
// mutations are single-row operations; the like counter in particular is
// bumped inside the database, never read-modify-write from here.
type Manager struct {
	queries db.Querier
	ops     *middleware.StorageMiddleware
}

func NewManager(queries db.Querier) *Manager {
	return &Manager{
		queries: queries,
		ops:     middleware.NewStorageMiddleware(),
	}
}

// AdmitEntry publishes an owned asset into the shared feed. Admitting the
// same asset again updates its display fields in place and keeps the like
// counter, so callers may retry freely.
func (m *Manager) AdmitEntry(ctx context.Context, assetID, displayName, imageRef string) (models.FeedEntry, error) {
	if strings.TrimSpace(assetID) == "" {
		return models.FeedEntry{}, fmt.Errorf("%w: %w", ErrAdmissionFailed, ErrEmptyAssetID)
	}

	var row db.FeedEntry
	err := m.ops.Do("admit", func() error {
		var err error
		row, err = m.queries.UpsertEntry(ctx, db.UpsertEntryParams{
			AssetID:     assetID,
			DisplayName: displayName,
			ImageRef:    imageRef,
		})
		return err
	})
	if err != nil {
		log.Errorf("Error admitting entry '%s': %v", assetID, err)
		return models.FeedEntry{}, fmt.Errorf("%w: %v", ErrAdmissionFailed, err)
	}

	return entryFromRow(row), nil
}

// LikeEntry applies one like to an existing entry and returns the new count.
// Viewer-level dedup is not enforced here; that guard lives with the caller.
func (m *Manager) LikeEntry(ctx context.Context, assetID string) (int64, error) {
	var likeCount int64
	err := m.ops.Do("like", func() error {
		var err error
		likeCount, err = m.queries.IncrementLikes(ctx, assetID)
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %w", ErrEngagementFailed, ErrUnknownAsset)
		}
		log.Errorf("Error liking entry '%s': %v", assetID, err)
		return 0, fmt.Errorf("%w: %v", ErrEngagementFailed, err)
	}
	return likeCount, nil
}

// CreateComment appends a comment to an existing entry. Duplicate submissions
// produce duplicate comments; the log keeps no dedup key.
func (m *Manager) CreateComment(ctx context.Context, assetID, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, fmt.Errorf("%w: %w", ErrCommentFailed, ErrEmptyComment)
	}

	var row db.EntryComment
	err := m.ops.Do("comment", func() error {
		var err error
		row, err = m.queries.CreateComment(ctx, db.CreateCommentParams{
			AssetID: assetID,
			Body:    text,
		})
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode {
			return models.Comment{}, fmt.Errorf("%w: %w", ErrCommentFailed, ErrUnknownAsset)
		}
		log.Errorf("Error commenting entry '%s': %v", assetID, err)
		return models.Comment{}, fmt.Errorf("%w: %v", ErrCommentFailed, err)
	}

	return commentFromRow(row), nil
}

// GetFeed reads all entries with their comments, ranked by like count with a
// stable tie-break on admission order and asset id.
func (m *Manager) GetFeed(ctx context.Context) ([]models.FeedEntry, error) {
	var (
		entryRows   []db.FeedEntry
		commentRows []db.EntryComment
	)
	err := m.ops.Do("project", func() error {
		var err error
		entryRows, err = m.queries.GetEntries(ctx)
		if err != nil {
			return err
		}
		commentRows, err = m.queries.GetAllComments(ctx)
		return err
	})
	if err != nil {
		log.Errorf("Error reading feed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrProjectionUnavailable, err)
	}

	commentsByAsset := make(map[string][]models.Comment)
	for _, row := range commentRows {
		commentsByAsset[row.AssetID] = append(commentsByAsset[row.AssetID], commentFromRow(row))
	}

	entries := make([]models.FeedEntry, len(entryRows))
	for i, row := range entryRows {
		entry := entryFromRow(row)
		entry.Comments = commentsByAsset[row.AssetID]
		if entry.Comments == nil {
			entry.Comments = []models.Comment{}
		}
		entries[i] = entry
	}
	return entries, nil
}

func entryFromRow(row db.FeedEntry) models.FeedEntry {
	return models.FeedEntry{
		AssetID:     row.AssetID,
		DisplayName: row.DisplayName,
		ImageRef:    row.ImageRef,
		LikeCount:   row.LikeCount,
		AdmittedAt:  row.AdmittedAt.Time,
		Comments:    []models.Comment{},
	}
}

func commentFromRow(row db.EntryComment) models.Comment {
	return models.Comment{
		ID:        row.ID,
		AssetID:   row.AssetID,
		Text:      row.Body,
		CreatedAt: row.CreatedAt.Time,
	}
}
