package models

import "time"

// FeedEntry is the shared feed representation of one admitted asset. There is
// at most one entry per asset id; re-admission overwrites the display fields
// and leaves the like counter alone.
type FeedEntry struct {
	AssetID     string    `json:"asset_id"`
	DisplayName string    `json:"display_name"`
	ImageRef    string    `json:"image_ref"`
	LikeCount   int64     `json:"like_count"`
	AdmittedAt  time.Time `json:"admitted_at"`
	Comments    []Comment `json:"comments"`
}
