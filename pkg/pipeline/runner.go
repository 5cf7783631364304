package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/gangsheet/pkg/artifact"
	"github.com/matzehuels/gangsheet/pkg/cache"
	"github.com/matzehuels/gangsheet/pkg/layout"
	"github.com/matzehuels/gangsheet/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and HTTP service use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger and defaults - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Defaults is the planning configuration options are applied on top of.
	Defaults layout.Config
	// Presets resolves Options.Preset.
	Presets layout.Presets
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
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Defaults: layout.DefaultConfig(),
		Presets:  layout.BuiltinPresets(),
	}
}

// Execute runs the complete decode → plan → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	result, err := r.Plan(ctx, data, opts)
	if err != nil {
		return nil, err
	}
	opts.SetDefaults()
	logger := r.logger(opts)

	renderStart := time.Now()
	artifacts, pages, renderHit, err := r.RenderWithCacheInfo(ctx, result.Source, result.Plan, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Pages = pages
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Plan runs decode and plan, without rendering.
func (r *Runner) Plan(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	opts.SetDefaults()
	logger := r.logger(opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Decode
	decodeStart := time.Now()
	src, err := r.Decode(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Source = src
	result.SourceHash = cache.Hash(data)
	result.Stats.DecodeTime = time.Since(decodeStart)

	logger.Info("decoded artwork",
		"format", src.Format,
		"width", src.Artifact.NativeWidth,
		"height", src.Artifact.NativeHeight,
		"density", src.Artifact.Density)

	// Stage 2: Plan
	planStart := time.Now()
	plan, planHit, err := r.PlanWithCacheInfo(ctx, src, result.SourceHash, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Plan = plan
	result.Stats.PlanTime = time.Since(planStart)
	result.Stats.Sheets = len(plan.Sheets)
	result.Stats.Placements = plan.Total()
	result.CacheInfo.PlanHit = planHit

	logger.Info("planned sheets",
		"footprint", fmt.Sprintf("%.3gx%.3g in", plan.Footprint.Width, plan.Footprint.Height),
		"per_sheet", plan.Capacity.PerSheet,
		"sheets", result.Stats.Sheets,
		"duration", result.Stats.PlanTime)

	return result, nil
}

// Decode sniffs and measures the artwork.
func (r *Runner) Decode(ctx context.Context, data []byte, opts Options) (*artifact.Source, error) {
	start := time.Now()

	page := opts.Page
	if page == 0 {
		page = 1
	}
	src, err := artifact.Decode(data, artifact.WithPage(page))

	ev := observability.DecodeEvent{Bytes: len(data), Duration: time.Since(start), Err: err}
	if src != nil {
		ev.Format = src.Format
		ev.Vector = src.IsVector()
	}
	observability.Pipeline().OnDecode(ctx, ev)
	return src, err
}

// PlanWithCacheInfo computes the plan with caching and returns cache hit info.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, src *artifact.Source, sourceHash string, opts Options) (layout.Plan, bool, error) {
	cfg, err := opts.Config(r.Defaults, r.Presets)
	if err != nil {
		return layout.Plan{}, false, err
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	cacheKey := r.Keyer.PlanKey(sourceHash, opts.PlanKeyOpts(cfg))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var plan layout.Plan
			if err := json.Unmarshal(data, &plan); err == nil {
				cacheHooks.OnCacheHit(ctx, observability.KindPlan, "")
				hooks.OnPlan(ctx, planEvent(plan, opts.Quantity, true, 0, nil))
				return plan, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, observability.KindPlan, "")
	}

	start := time.Now()
	plan, err := layout.NewPlanner(cfg).Plan(src.Artifact, opts.Request())
	hooks.OnPlan(ctx, planEvent(plan, opts.Quantity, false, time.Since(start), err))
	if err != nil {
		return layout.Plan{}, false, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan); err == nil {
			cacheHooks.OnCacheSet(ctx, observability.KindPlan, "", len(data))
		} else {
			r.logger(opts).Warn("cache write failed", "key", "plan", "error", err)
		}
	}
	return plan, false, nil
}

// RenderWithCacheInfo renders every requested format, serving cached
// artifacts where possible. Missing formats render concurrently. The bool
// reports whether all formats came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, src *artifact.Source, plan layout.Plan, opts Options) (map[string][]byte, [][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, nil, false, err
	}
	if src.Page > 0 {
		opts.Page = src.Page
	}

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	planData, err := json.Marshal(plan)
	if err != nil {
		return nil, nil, false, fmt.Errorf("serialize plan for cache key: %w", err)
	}
	planHash := cache.Hash(planData)
	sourceHash := cache.Hash(src.Data)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var pages [][]byte
	var missing []string

	for _, format := range opts.Formats {
		if _, seen := artifacts[format]; seen || slices.Contains(missing, format) {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format, planHash))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				if format == FormatPNG {
					if err := json.Unmarshal(data, &pages); err != nil || len(pages) == 0 {
						cacheHooks.OnCacheMiss(ctx, observability.KindArtifact, format)
						missing = append(missing, format)
						continue
					}
					data = pages[0]
				}
				cacheHooks.OnCacheHit(ctx, observability.KindArtifact, format)
				artifacts[format] = data
				continue
			}
			cacheHooks.OnCacheMiss(ctx, observability.KindArtifact, format)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, pages, true, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range missing {
		g.Go(func() error {
			start := time.Now()
			data, pngPages, err := RenderFormat(gctx, src, plan, format, opts)
			hooks.OnRender(gctx, observability.RenderEvent{
				Format:   format,
				Sheets:   len(plan.Sheets),
				Bytes:    len(data),
				Duration: time.Since(start),
				Err:      err,
			})
			if err != nil {
				return err
			}

			cached := data
			if format == FormatPNG {
				if cached, err = json.Marshal(pngPages); err != nil {
					return fmt.Errorf("serialize png pages: %w", err)
				}
			}
			key := r.Keyer.ArtifactKey(sourceHash, opts.ArtifactKeyOpts(format, planHash))
			if err := r.Cache.Set(gctx, key, cached, cache.TTLArtifact); err == nil {
				cacheHooks.OnCacheSet(gctx, observability.KindArtifact, format, len(cached))
			}

			mu.Lock()
			defer mu.Unlock()
			artifacts[format] = data
			if format == FormatPNG {
				pages = pngPages
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, false, err
	}
	return artifacts, pages, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, src *artifact.Source, plan layout.Plan, opts Options) (map[string][]byte, [][]byte, error) {
	artifacts, pages, _, err := r.RenderWithCacheInfo(ctx, src, plan, opts)
	return artifacts, pages, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func planEvent(plan layout.Plan, quantity int, cached bool, d time.Duration, err error) observability.PlanEvent {
	sum := plan.Summary()
	return observability.PlanEvent{
		Quantity:    quantity,
		Sheets:      sum.Sheets,
		Placements:  sum.Placements,
		PerSheet:    sum.PerSheet,
		Utilization: sum.Utilization,
		Cached:      cached,
		Duration:    d,
		Err:         err,
	}
}

// logger returns the per-call logger, falling back to the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
