// Package cache stores resolved tile URL templates keyed by the exact
// request parameters. The cache is best-effort: lookups and writes may fail
// without affecting request outcomes.
package cache

import (
	"context"
	"time"
)

type Store interface {
	// Get returns the cached tile URL for a key, and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, tileURL string, ttl time.Duration) error
	// PurgeAsset removes every cached entry for an asset, returning how many
	// keys were deleted.
	PurgeAsset(ctx context.Context, assetID string) (int, error)
}
