package storage

import "errors"

// One sentinel per user-facing operation, plus the causes callers are
// expected to branch on. Wrapped with %w so errors.Is works on both levels.
var (
	ErrAdmissionFailed       = errors.New("admission failed")
	ErrEngagementFailed      = errors.New("engagement failed")
	ErrCommentFailed         = errors.New("comment failed")
	ErrProjectionUnavailable = errors.New("projection unavailable")

	ErrEmptyAssetID = errors.New("empty asset id")
	ErrEmptyComment = errors.New("empty comment text")
	ErrUnknownAsset = errors.New("unknown asset")
)
