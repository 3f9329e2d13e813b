package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const createComment = `
INSERT INTO entry_comments (asset_id, body)
VALUES ($1, $2)
RETURNING id, asset_id, body, created_at
`

type CreateCommentParams struct {
	AssetID string
	Body    string
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (EntryComment, error) {
	row := q.db.QueryRow(ctx, createComment, arg.AssetID, arg.Body)
	var i EntryComment
	err := row.Scan(
		&i.ID,
		&i.AssetID,
		&i.Body,
		&i.CreatedAt,
	)
	return i, err
}

const getComments = `
SELECT id, asset_id, body, created_at
FROM entry_comments
WHERE asset_id = $1
ORDER BY id ASC
`

func (q *Queries) GetComments(ctx context.Context, assetID string) ([]EntryComment, error) {
	rows, err := q.db.Query(ctx, getComments, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

const getAllComments = `
SELECT id, asset_id, body, created_at
FROM entry_comments
ORDER BY asset_id ASC, id ASC
`

func (q *Queries) GetAllComments(ctx context.Context) ([]EntryComment, error) {
	rows, err := q.db.Query(ctx, getAllComments)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func scanComments(rows pgx.Rows) ([]EntryComment, error) {
	items := []EntryComment{}
	for rows.Next() {
		var i EntryComment
		if err := rows.Scan(
			&i.ID,
			&i.AssetID,
			&i.Body,
			&i.CreatedAt,
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
