package cache

import (
	"context"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/openterra/tilegate/internal/cache/keys"
	"github.com/openterra/tilegate/internal/cache/redisstore"
	"github.com/openterra/tilegate/internal/observability"
)

// Tiered places a small in-process LRU in front of Redis. The LRU serves
// repeat lookups without a round trip; Redis makes entries shared across
// replicas and purgeable by the invalidation consumer.
type Tiered struct {
	local     *lru.Cache[string, string]
	remote    *redisstore.Client
	opTimeout time.Duration
}

func NewTiered(lruSize int, remote *redisstore.Client, opTimeout time.Duration) (*Tiered, error) {
	local, err := lru.New[string, string](lruSize)
	if err != nil {
		return nil, err
	}
	return &Tiered{
		local:     local,
		remote:    remote,
		opTimeout: opTimeout,
	}, nil
}

func (t *Tiered) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := t.local.Get(key); ok {
		observability.IncCacheHit()
		return v, true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()

	v, ok, err := t.remote.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		observability.IncCacheMiss()
		return "", false, nil
	}
	observability.IncCacheHit()
	t.local.Add(key, v)
	return v, true, nil
}

func (t *Tiered) Set(ctx context.Context, key, tileURL string, ttl time.Duration) error {
	t.local.Add(key, tileURL)

	ctx, cancel := context.WithTimeout(ctx, t.opTimeout)
	defer cancel()
	return t.remote.Set(ctx, key, tileURL, ttl)
}

func (t *Tiered) PurgeAsset(ctx context.Context, assetID string) (int, error) {
	prefix := keys.Prefix(assetID)

	for _, k := range t.local.Keys() {
		if strings.HasPrefix(k, prefix) {
			t.local.Remove(k)
		}
	}

	// Prefix scans may walk many keys; give them more room than point ops.
	ctx, cancel := context.WithTimeout(ctx, 10*t.opTimeout)
	defer cancel()
	return t.remote.DelPrefix(ctx, prefix)
}
