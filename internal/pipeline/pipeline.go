// Package pipeline composes asset resolution, filtering, visualization
// normalization and tile URL formatting into the single operation both
// request surfaces call.
package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/openterra/tilegate/internal/cache"
	"github.com/openterra/tilegate/internal/cache/keys"
	"github.com/openterra/tilegate/internal/ee"
	"github.com/openterra/tilegate/internal/logger"
	"github.com/openterra/tilegate/internal/model"
	"github.com/openterra/tilegate/internal/observability"
	"github.com/openterra/tilegate/internal/vis"
)

// Stage labels used in failure metrics and logs.
const (
	stageResolve = "resolve"
	stageFilter  = "filter"
	stageVis     = "vis"
	stageFormat  = "format"
)

type Pipeline struct {
	logger  *slog.Logger
	backend ee.Backend

	// nil when caching is disabled
	store cache.Store
	ttl   time.Duration
}

func New(log *slog.Logger, backend ee.Backend) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{logger: log, backend: backend}
}

// WithCache enables best-effort caching of successful resolutions.
func (p *Pipeline) WithCache(store cache.Store, ttl time.Duration) *Pipeline {
	p.store = store
	p.ttl = ttl
	return p
}

// GetTile runs the full resolution pipeline. Every stage error is flattened
// into the uniform failure string; no error escapes this boundary.
func (p *Pipeline) GetTile(ctx context.Context, req model.TileRequest) model.TileResult {
	ctx = logger.WithAsset(ctx, req.AssetID)
	start := time.Now()

	key, cacheable := p.cacheKey(req)
	if cacheable {
		if url, ok := p.cacheGet(ctx, key); ok {
			observability.IncTileResolution("cache_hit")
			return model.TileResult{TileURL: url}
		}
	}

	h, err := p.Resolve(ctx, req.AssetID)
	if err != nil {
		return p.fail(ctx, stageResolve, err)
	}

	h, err = ApplyFilters(h, model.TemporalRange{Start: req.StartDate, End: req.EndDate}, req.BBox)
	if err != nil {
		return p.fail(ctx, stageFilter, err)
	}

	visParams, err := vis.Normalize(req.VisSource)
	if err != nil {
		return p.fail(ctx, stageVis, err)
	}

	url, err := p.backend.TileTemplate(ctx, h, visParams)
	if err != nil {
		return p.fail(ctx, stageFormat, err)
	}

	if cacheable {
		p.cacheSet(ctx, key, url)
	}

	observability.IncTileResolution("success")
	p.logger.LogAttrs(ctx, slog.LevelDebug, "tile url resolved",
		slog.String("kind", h.Kind().String()),
		slog.String("duration", time.Since(start).String()),
	)
	return model.TileResult{TileURL: url}
}

func (p *Pipeline) fail(ctx context.Context, stage string, err error) model.TileResult {
	observability.IncTileResolution("failure")
	observability.IncPipelineFailure(stage)
	p.logger.LogAttrs(ctx, slog.LevelInfo, "tile resolution failed",
		slog.String("stage", stage),
		slog.String("err", err.Error()),
	)
	return model.TileResult{Failure: model.Failure(err)}
}

func (p *Pipeline) cacheKey(req model.TileRequest) (string, bool) {
	if p.store == nil {
		return "", false
	}
	visKey, ok := canonicalVisKey(req.VisSource)
	if !ok {
		return "", false
	}
	return keys.ForRequest(req.AssetID, req.StartDate, req.EndDate, req.BBox, visKey), true
}

// canonicalVisKey folds the vis source into a stable string. Unsupported
// source types are not cacheable; the pipeline rejects them later anyway.
func canonicalVisKey(src any) (string, bool) {
	switch v := src.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(v), true
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	case model.VisParams:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return "", false
	}
}

func (p *Pipeline) cacheGet(ctx context.Context, key string) (string, bool) {
	url, ok, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "cache get failed", slog.String("err", err.Error()))
		return "", false
	}
	return url, ok
}

func (p *Pipeline) cacheSet(ctx context.Context, key, url string) {
	if err := p.store.Set(ctx, key, url, p.ttl); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "cache set failed", slog.String("err", err.Error()))
	}
}
