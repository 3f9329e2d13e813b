package server

import (
	"battlefeed/assets"
	"battlefeed/storage/models"
)

type admitRequest struct {
	AssetID     string `json:"asset_id"`
	DisplayName string `json:"display_name"`
	ImageRef    string `json:"image_ref"`
}

type likeRequest struct {
	AssetID string `json:"asset_id"`
}

type commentRequest struct {
	AssetID string `json:"asset_id"`
	Text    string `json:"text"`
}

type likeResponse struct {
	AssetID   string `json:"asset_id"`
	LikeCount int64  `json:"like_count"`
}

type feedResponse struct {
	Entries []models.FeedEntry `json:"feed"`
}

type assetsResponse struct {
	Assets []assets.Asset `json:"assets"`
}
