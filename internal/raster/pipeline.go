package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/chai2010/webp"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/ankek/mermaid-export/internal/logging"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// Background colors composited behind transparent exports, chosen by the
// light/dark mode of the host. A fixed two-value policy.
const (
	backgroundLight = "#ffffff"
	backgroundDark  = "#222222"
)

// lossyQuality is the encoder quality for JPEG and WebP output.
const lossyQuality = 92

// Options control one rasterization.
type Options struct {
	// Scale multiplies the optimized document's base dimensions.
	Scale float64
	// IncludeBackground composites the mode background behind the diagram.
	// Ignored for JPEG, which always gets one.
	IncludeBackground bool
	// PaddingPx is the requested export padding handed to the optimizer.
	PaddingPx int
	// DarkMode selects the dark background color when one is painted.
	DarkMode bool
}

// Pipeline rasterizes SVG markup. Every call optimizes first, so the painted
// bounds that get encoded are the same bounds an SVG export would carry.
type Pipeline struct {
	optimizer *svgdoc.Optimizer
	probe     *svgdoc.Probe
	log       *slog.Logger
}

// NewPipeline creates a raster pipeline sharing the given optimizer and
// probe.
func NewPipeline(optimizer *svgdoc.Optimizer, probe *svgdoc.Probe) *Pipeline {
	return &Pipeline{optimizer: optimizer, probe: probe, log: logging.Logger()}
}

// Rasterize converts markup into an encoded image blob. The context is
// checked between pipeline stages; a cancelled call returns the
// cancellation cause, never a generic error.
func (p *Pipeline) Rasterize(ctx context.Context, format Format, markup string, opts Options) (Blob, error) {
	if !format.IsRaster() {
		return Blob{}, fmt.Errorf("format %s is not a raster format", format)
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	optimized := p.optimizer.Optimize(markup, opts.PaddingPx)
	if err := ctx.Err(); err != nil {
		return Blob{}, context.Cause(ctx)
	}

	baseW, baseH := p.baseSize(optimized)
	targetW := int(math.Round(baseW * opts.Scale))
	targetH := int(math.Round(baseH * opts.Scale))
	if targetW < 1 {
		targetW = 1
	}
	if targetH < 1 {
		targetH = 1
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(optimized), oksvg.IgnoreErrorMode)
	if err != nil {
		return Blob{}, &EncodingError{
			Stage:   "svg decode",
			Message: "failed to decode optimized SVG for rasterization",
			Err:     err,
		}
	}
	if err := ctx.Err(); err != nil {
		return Blob{}, context.Cause(ctx)
	}

	surface := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	if opts.IncludeBackground || !format.HasAlpha() {
		bg := backgroundLight
		if opts.DarkMode {
			bg = backgroundDark
		}
		draw.Draw(surface, surface.Bounds(), image.NewUniform(parseHexColor(bg)), image.Point{}, draw.Src)
	}

	if err := p.draw(icon, surface, targetW, targetH); err != nil {
		return Blob{}, err
	}
	if err := ctx.Err(); err != nil {
		return Blob{}, context.Cause(ctx)
	}

	data, err := encode(format, surface)
	if err != nil {
		return Blob{}, err
	}

	p.log.Debug("rasterized diagram",
		"format", format,
		"width", targetW,
		"height", targetH,
		"bytes", len(data),
	)
	return Blob{Data: data, MIME: format.MIME()}, nil
}

// baseSize reads the optimized document's dimensions, falling back to a
// tight measurement when the attributes are absent or non-positive.
func (p *Pipeline) baseSize(optimized string) (float64, float64) {
	if doc, err := svgdoc.Parse(optimized); err == nil {
		w, okW := doc.FloatAttr("width")
		h, okH := doc.FloatAttr("height")
		if okW && okH && w > 0 && h > 0 {
			return w, h
		}
	}
	s := p.probe.Measure(optimized, svgdoc.MeasureOptions{})
	return s.Width, s.Height
}

// draw renders the icon across the full target surface. The viewBox is left
// untouched so the scaling stays uniform.
func (p *Pipeline) draw(icon *oksvg.SvgIcon, surface *image.RGBA, w, h int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &EncodingError{
				Stage:   "svg draw",
				Message: fmt.Sprintf("rasterizer panic: %v", r),
			}
		}
	}()
	scanner := rasterx.NewScannerGV(w, h, surface, surface.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(dasher, 1.0)
	return nil
}

func encode(format Format, img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(buf, img)
	case FormatJPG:
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: lossyQuality})
	case FormatWebP:
		err = webp.Encode(buf, img, &webp.Options{Quality: lossyQuality})
	default:
		return nil, &EncodingError{Stage: "encode", Message: fmt.Sprintf("no encoder for %s", format)}
	}
	if err != nil {
		return nil, &EncodingError{
			Stage:   "encode",
			Message: fmt.Sprintf("failed to encode %s", format),
			Err:     err,
		}
	}
	return buf.Bytes(), nil
}

// parseHexColor parses a #rrggbb color string.
func parseHexColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	if len(hex) == 6 {
		fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
	}
	return color.RGBA{r, g, b, 255}
}
