// Package estimate predicts export file sizes. Heuristic estimates are
// instant and approximate; exact estimates run the real raster pipeline
// in memory and are cached so repeated queries for the same inputs do
// not re-encode.
package estimate

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/ankek/mermaid-export/internal/logging"
	"github.com/ankek/mermaid-export/internal/raster"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// Strategy identifies how an estimate was produced.
type Strategy string

const (
	StrategyHeuristic Strategy = "heuristic"
	StrategyExact     Strategy = "exact"
)

// Estimate is a predicted export size. Known is false when the heuristic
// could not compute a figure at all, in which case Label still carries a
// placeholder suitable for display.
type Estimate struct {
	Bytes    int64
	Known    bool
	Label    string
	Strategy Strategy
}

// Bytes-per-pixel after compression, tiered by markup density (markup
// bytes per unscaled pixel). Dense markup means more paths and text per
// pixel, which compresses worse, so the constant rises with density.
type bytesPerPixel struct {
	sparse, medium, dense float64
}

var formatBytesPerPixel = map[raster.Format]bytesPerPixel{
	raster.FormatPNG:  {0.10, 0.15, 0.25},
	raster.FormatJPG:  {0.08, 0.12, 0.20},
	raster.FormatWebP: {0.05, 0.09, 0.15},
}

const (
	mediumDensityThreshold = 2
	highDensityThreshold   = 10

	cacheCapacity = 32

	// Number of evenly spaced bytes hashed from the markup when building
	// a cache key. Hashing the whole document would defeat the point of
	// an instant lookup on large diagrams.
	hashSamples = 32
)

// rasterizer is the encoding surface Exact needs from the raster pipeline.
type rasterizer interface {
	Rasterize(ctx context.Context, format raster.Format, markup string, opts raster.Options) (raster.Blob, error)
}

// Estimator produces file size estimates for an export configuration.
type Estimator struct {
	probe    *svgdoc.Probe
	pipeline rasterizer
	cache    *fifoCache
}

// NewEstimator returns an Estimator backed by the given probe and raster
// pipeline. The exact-estimate cache holds at most 32 entries and evicts
// in insertion order.
func NewEstimator(probe *svgdoc.Probe, pipeline *raster.Pipeline) *Estimator {
	return &Estimator{
		probe:    probe,
		pipeline: pipeline,
		cache:    newFIFOCache(cacheCapacity),
	}
}

// Heuristic returns an instant estimate from the probed diagram size and
// per-format density tiers. It never blocks on rendering or encoding.
func (e *Estimator) Heuristic(svg string, format raster.Format, opts raster.Options) Estimate {
	if format == raster.FormatSVG {
		n := int64(len(svg))
		return Estimate{Bytes: n, Known: true, Label: formatBytes(n), Strategy: StrategyHeuristic}
	}
	tiers, ok := formatBytesPerPixel[format]
	if !ok {
		return Estimate{Label: "unknown", Strategy: StrategyHeuristic}
	}

	size := e.probe.Measure(svg, svgdoc.MeasureOptions{})
	if size.Width <= 0 || size.Height <= 0 {
		return Estimate{Label: "unknown", Strategy: StrategyHeuristic}
	}

	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	pixels := size.Width * scale * size.Height * scale

	density := float64(len(svg)) / (size.Width * size.Height)
	perPixel := tiers.sparse
	switch {
	case density > highDensityThreshold:
		perPixel = tiers.dense
	case density > mediumDensityThreshold:
		perPixel = tiers.medium
	}

	n := int64(pixels * perPixel)
	if n < 0 {
		n = 0
	}
	return Estimate{Bytes: n, Known: true, Label: formatBytes(n), Strategy: StrategyHeuristic}
}

// Exact encodes the diagram through the real raster pipeline and returns
// the byte count of the result. Results are cached by the full input
// tuple; a cancelled call returns the cancellation cause and leaves no
// cache entry behind.
func (e *Estimator) Exact(ctx context.Context, svg string, format raster.Format, opts raster.Options) (Estimate, error) {
	if format == raster.FormatSVG {
		n := int64(len(svg))
		return Estimate{Bytes: n, Known: true, Label: formatBytes(n), Strategy: StrategyExact}, nil
	}

	key := e.cacheKey(svg, format, opts)
	if n, ok := e.cache.Get(key); ok {
		return Estimate{Bytes: n, Known: true, Label: formatBytes(n), Strategy: StrategyExact}, nil
	}

	blob, err := e.pipeline.Rasterize(ctx, format, svg, opts)
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			return Estimate{}, cause
		}
		return Estimate{}, fmt.Errorf("exact estimate: %w", err)
	}
	// A token cancelled during the final encode stage can still yield a
	// blob. Drop the late result and keep the cache untouched.
	if cause := context.Cause(ctx); cause != nil {
		return Estimate{}, cause
	}

	n := int64(len(blob.Data))
	e.cache.Add(key, n)
	logging.Logger().Debug("exact size estimate", "format", string(format), "bytes", n)
	return Estimate{Bytes: n, Known: true, Label: formatBytes(n), Strategy: StrategyExact}, nil
}

// cacheKey folds every input that affects the encoded size into a string.
// The markup contributes its length plus a hash of evenly sampled bytes,
// so edits anywhere in the document change the key without hashing the
// whole text.
func (e *Estimator) cacheKey(svg string, format raster.Format, opts raster.Options) string {
	size := e.probe.Measure(svg, svgdoc.MeasureOptions{})
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%g|%t|%t|%d|%g|%g|%d|%x",
		format, opts.Scale, opts.IncludeBackground, opts.DarkMode, opts.PaddingPx,
		size.Width, size.Height, len(svg), sampleHash(svg))
	return b.String()
}

func sampleHash(s string) uint64 {
	h := fnv.New64a()
	if len(s) <= hashSamples {
		h.Write([]byte(s))
		return h.Sum64()
	}
	step := len(s) / hashSamples
	for i := 0; i < hashSamples; i++ {
		h.Write([]byte{s[i*step]})
	}
	return h.Sum64()
}

// formatBytes renders a byte count for display: whole bytes under 1 KB,
// one-decimal kilobytes under 1 MB, one-decimal megabytes above.
func formatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
