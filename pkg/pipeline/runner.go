package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/cache"
	"github.com/matzehuels/darkroom/pkg/observability"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state; the easel memo inside Engine is safe
// for concurrent use. Multiple goroutines can share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Engine *border.Engine
	Logger *log.Logger

	// TTL overrides the per-kind cache lifetimes (cache.TTLCalculation,
	// cache.TTLPreview) when positive.
	TTL time.Duration
}

// NewRunner creates a runner. Nil arguments get defaults: a DefaultKeyer,
// a NullCache (caching disabled), an engine with the default easel memo
// size and the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, engine *border.Engine, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if engine == nil {
		engine = border.NewEngine(border.DefaultEaselCacheSize)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Engine: engine,
		Logger: logger,
	}
}

// Execute runs calculate → render with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	result.Calculation = r.Calculate(ctx, opts.Input)
	result.Stats.CalculateTime = time.Since(start)
	result.Stats.Warnings = len(result.Calculation.Warnings)

	start = time.Now()
	artifacts, info, err := r.RenderWithCacheInfo(ctx, result.Calculation, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(start)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", info.RenderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Calculate runs the border engine and reports the calculation to the
// registered hooks.
func (r *Runner) Calculate(ctx context.Context, in border.Input) border.PrintCalculation {
	start := time.Now()
	calc := r.Engine.Calculate(in)
	d := time.Since(start)

	observability.Calculation().OnCalculate(ctx, in.PaperSize, in.AspectRatio, len(calc.Warnings), d)
	r.Logger.Debug("calculated borders",
		"paper", fmt.Sprintf("%gx%g", calc.PaperWidth, calc.PaperHeight),
		"print", fmt.Sprintf("%.2fx%.2f", calc.PrintWidth, calc.PrintHeight),
		"easel", calc.Easel.EaselSize.Label,
		"warnings", len(calc.Warnings))
	for _, w := range calc.Warnings {
		r.Logger.Debug("calculation warning", "warning", w)
	}
	return calc
}

// RenderWithCacheInfo renders every requested format, reading and writing
// the cache per format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, calc border.PrintCalculation, opts Options) (map[string][]byte, CacheInfo, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	info := CacheInfo{Hits: make(map[string]bool, len(opts.Formats)), RenderHit: true}

	for _, format := range opts.Formats {
		key, ttl, keyType := r.artifactKey(opts, format)

		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, keyType)
				artifacts[format] = data
				info.Hits[format] = true
				continue
			}
			observability.Cache().OnCacheMiss(ctx, keyType)
		}
		info.RenderHit = false

		start := time.Now()
		data, err := RenderFormat(ctx, calc, format, opts)
		observability.Calculation().OnRender(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, info, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyType, len(data))
		}
	}
	return artifacts, info, nil
}

// Render is a convenience wrapper that discards the cache info.
func (r *Runner) Render(ctx context.Context, calc border.PrintCalculation, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, calc, opts)
	return artifacts, err
}

// OptimalMinBorder returns the border near in.MinBorder that puts the
// blade readings closest to quarter-inch marks.
func (r *Runner) OptimalMinBorder(ctx context.Context, in border.Input) float64 {
	best := r.Engine.OptimalMinBorder(in)
	r.Logger.Debug("optimal border", "start", in.MinBorder, "best", best)
	return best
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactKey(opts Options, format string) (key string, ttl time.Duration, keyType string) {
	if format == FormatJSON {
		return r.Keyer.CalculationKey(opts.Input), r.ttl(cache.TTLCalculation), "calculation"
	}
	return r.Keyer.PreviewKey(opts.Input, opts.PreviewKeyOpts(format)), r.ttl(cache.TTLPreview), "preview"
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}
