package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/schematic/pkg/cache"
	"github.com/matzehuels/schematic/pkg/circuit"
	"github.com/matzehuels/schematic/pkg/layout"
	"github.com/matzehuels/schematic/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTLs for cached layouts and artifacts. Zero uses the cache defaults.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		LayoutTTL:   cache.LayoutTTL,
		ArtifactTTL: cache.ArtifactTTL,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, cfg circuit.Config, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	d, issues, hit, err := r.layout(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Issues = issues
	result.SourceHash = SourceHash(cfg)
	result.Stats.Components = len(d.Components)
	result.Stats.Connections = len(d.Connections)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Debug("computed layout",
		"strategy", d.Strategy,
		"components", len(d.Components),
		"wires", len(d.Connections),
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo compiles a config with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, cfg circuit.Config, opts Options) (*circuit.Diagram, []circuit.Issue, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, false, err
	}
	return r.layout(ctx, cfg, opts)
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Layout(ctx context.Context, cfg circuit.Config, opts Options) (*circuit.Diagram, []circuit.Issue, error) {
	d, issues, _, err := r.LayoutWithCacheInfo(ctx, cfg, opts)
	return d, issues, err
}

// cachedLayout is the msgpack payload of a layout cache entry.
type cachedLayout struct {
	Diagram *circuit.Diagram `json:"diagram"`
	Issues  []circuit.Issue  `json:"issues,omitempty"`
}

func (r *Runner) layout(ctx context.Context, cfg circuit.Config, opts Options) (*circuit.Diagram, []circuit.Issue, bool, error) {
	cacheKey := r.Keyer.LayoutKey(SourceHash(cfg), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		} else if hit {
			var cached cachedLayout
			if err := decodeMsgpack(data, &cached); err == nil && cached.Diagram != nil {
				observability.Cache().OnCacheHit(ctx, keyTypeLayout)
				return cached.Diagram, cached.Issues, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	hooks := observability.Pipeline()
	strategy := opts.Strategy
	if strategy == layout.StrategyAuto {
		strategy = layout.Select(cfg, opts.Layout).Name()
	}
	hooks.OnLayoutStart(ctx, strategy, len(cfg.Components))
	start := time.Now()
	d, issues, err := GenerateLayout(ctx, cfg, opts)
	hooks.OnLayoutComplete(ctx, strategy, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	if data, err := encodeMsgpack(cachedLayout{Diagram: d, Issues: issues}); err == nil {
		r.store(ctx, cacheKey, keyTypeLayout, data, r.LayoutTTL)
	}
	return d, issues, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *circuit.Diagram, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Compute cache key from layout data
	layoutData, err := encodeMsgpack(d)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render the missing formats
	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, d, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		r.store(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), keyTypeArtifact, data, r.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, d *circuit.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// store writes a cache entry. Cache failures never fail the pipeline.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func encodeMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
