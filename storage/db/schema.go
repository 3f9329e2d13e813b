package db

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS feed_entries (
		asset_id     TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		image_ref    TEXT NOT NULL,
		like_count   BIGINT NOT NULL DEFAULT 0 CHECK (like_count >= 0),
		admitted_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS entry_comments (
		id         BIGSERIAL PRIMARY KEY,
		asset_id   TEXT NOT NULL REFERENCES feed_entries (asset_id),
		body       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS entry_comments_asset_id_idx ON entry_comments (asset_id, id)`,
	`CREATE INDEX IF NOT EXISTS feed_entries_ranking_idx ON feed_entries (like_count DESC, admitted_at ASC, asset_id ASC)`,
}

func CreateSchema(ctx context.Context, db DBTX) error {
	for _, statement := range schema {
		if _, err := db.Exec(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}
