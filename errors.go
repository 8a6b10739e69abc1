package warehouse

import "errors"

// Validation rejections. They are returned before any mutation.
var (
	ErrUnknownPartner        = errors.New("unknown partner")
	ErrUnknownItem           = errors.New("unknown item")
	ErrUnknownAsset          = errors.New("unknown asset")
	ErrSignalRequired        = errors.New("signal number is required for serialized items")
	ErrAssetNotAvailable     = errors.New("asset is not available")
	ErrAssetAlreadyAvailable = errors.New("asset is already available")
	ErrDuplicateSignal       = errors.New("signal number is already available in stock")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrInvalid               = errors.New("invalid record")
	ErrDuplicateID           = errors.New("duplicate id")
)

// ErrSnapshotFormat is returned when a snapshot cannot be decoded or misses a collection.
var ErrSnapshotFormat = errors.New("invalid snapshot format")

// ErrStalePlan is returned when committing a plan computed against an older state.
var ErrStalePlan = errors.New("plan is stale, the inventory changed since it was made")
