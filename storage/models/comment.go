package models

import "time"

// Comment rows are append-only and keep their insertion order.
type Comment struct {
	ID        int64     `json:"id"`
	AssetID   string    `json:"asset_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
