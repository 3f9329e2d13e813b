package db

import "github.com/jackc/pgx/v5/pgtype"

type FeedEntry struct {
	AssetID     string
	DisplayName string
	ImageRef    string
	LikeCount   int64
	AdmittedAt  pgtype.Timestamptz
}

type EntryComment struct {
	ID        int64
	AssetID   string
	Body      string
	CreatedAt pgtype.Timestamptz
}
