package db

import "context"

type Querier interface {
	UpsertEntry(ctx context.Context, arg UpsertEntryParams) (FeedEntry, error)
	IncrementLikes(ctx context.Context, assetID string) (int64, error)
	GetEntries(ctx context.Context) ([]FeedEntry, error)
	CreateComment(ctx context.Context, arg CreateCommentParams) (EntryComment, error)
	GetComments(ctx context.Context, assetID string) ([]EntryComment, error)
	GetAllComments(ctx context.Context) ([]EntryComment, error)
}

var _ Querier = (*Queries)(nil)
