package db

import "context"

const upsertEntry = `
INSERT INTO feed_entries (asset_id, display_name, image_ref)
VALUES ($1, $2, $3)
ON CONFLICT (asset_id) DO UPDATE
    SET display_name = EXCLUDED.display_name,
        image_ref    = EXCLUDED.image_ref
RETURNING asset_id, display_name, image_ref, like_count, admitted_at
`

type UpsertEntryParams struct {
	AssetID     string
	DisplayName string
	ImageRef    string
}

// UpsertEntry admits an asset into the feed. The conflict update only touches
// the display fields, so like_count survives re-admission.
func (q *Queries) UpsertEntry(ctx context.Context, arg UpsertEntryParams) (FeedEntry, error) {
	row := q.db.QueryRow(ctx, upsertEntry, arg.AssetID, arg.DisplayName, arg.ImageRef)
	var i FeedEntry
	err := row.Scan(
		&i.AssetID,
		&i.DisplayName,
		&i.ImageRef,
		&i.LikeCount,
		&i.AdmittedAt,
	)
	return i, err
}

const incrementLikes = `
UPDATE feed_entries
SET like_count = like_count + 1
WHERE asset_id = $1
RETURNING like_count
`

// IncrementLikes bumps the counter in a single row update, so concurrent
// likes from different sessions never overwrite each other.
func (q *Queries) IncrementLikes(ctx context.Context, assetID string) (int64, error) {
	row := q.db.QueryRow(ctx, incrementLikes, assetID)
	var likeCount int64
	err := row.Scan(&likeCount)
	return likeCount, err
}

const getEntries = `
SELECT asset_id, display_name, image_ref, like_count, admitted_at
FROM feed_entries
ORDER BY like_count DESC, admitted_at ASC, asset_id ASC
`

func (q *Queries) GetEntries(ctx context.Context) ([]FeedEntry, error) {
	rows, err := q.db.Query(ctx, getEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []FeedEntry{}
	for rows.Next() {
		var i FeedEntry
		if err := rows.Scan(
			&i.AssetID,
			&i.DisplayName,
			&i.ImageRef,
			&i.LikeCount,
			&i.AdmittedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
