package svgdoc

import (
	"image"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/ankek/mermaid-export/internal/logging"
)

// Default size returned when every measurement technique fails.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// SafetyMargin is the fixed margin added to both dimensions when measuring
// for display. Export arithmetic uses the tight measurement and applies its
// own padding policy instead.
const SafetyMargin = 20

// maxProbePixels caps the offscreen surface used by the geometric probe so a
// degenerate viewBox cannot allocate an unbounded image.
const maxProbePixels = 2048

// MeasureOptions controls the margin policy of a measurement.
type MeasureOptions struct {
	// IncludeSafetyMargin adds SafetyMargin to both dimensions. Display
	// sizing wants the breathing room; export sizing must not.
	IncludeSafetyMargin bool
}

// Probe measures the true rendered size of SVG markup. Measure never fails:
// each technique in the fallback chain is independently guarded and the
// fixed default is returned when all of them come up empty.
type Probe struct {
	log *slog.Logger
}

// NewProbe creates a size probe.
func NewProbe() *Probe {
	return &Probe{log: logging.Logger()}
}

var (
	widthAttrRe  = regexp.MustCompile(`width=["']([\d.]+)(?:px)?["']`)
	heightAttrRe = regexp.MustCompile(`height=["']([\d.]+)(?:px)?["']`)
)

// Measure determines the rendered size of the markup using a strict fallback
// order, first success wins: painted content bounds, intrinsic parsed size,
// explicit width/height attributes, viewBox, raw-markup regex, fixed
// default.
func (p *Probe) Measure(markup string, opts MeasureOptions) Size {
	size, technique := p.measure(markup)
	p.log.Debug("svg size measured",
		"technique", technique,
		"width", size.Width,
		"height", size.Height,
	)
	if opts.IncludeSafetyMargin {
		size.Width = math.Ceil(size.Width) + SafetyMargin
		size.Height = math.Ceil(size.Height) + SafetyMargin
	}
	return size
}

func (p *Probe) measure(markup string) (Size, string) {
	// Painted content bounds. The box is unioned with the origin so content
	// starting at negative coordinates still fits.
	if box, ok := p.ContentBounds(markup); ok {
		left := math.Min(0, box.MinX)
		top := math.Min(0, box.MinY)
		w := math.Max(box.MaxX-left, box.Width())
		h := math.Max(box.MaxY-top, box.Height())
		if w > 1 && h > 1 {
			return Size{Width: w, Height: h}, "content-bounds"
		}
	}

	// Intrinsic size of the parsed document, the offline analog of the
	// rendered layout box.
	if w, h, ok := p.intrinsicSize(markup); ok && w > 1 && h > 1 {
		return Size{Width: w, Height: h}, "intrinsic"
	}

	if doc, err := Parse(markup); err == nil {
		// Explicit width/height attributes.
		if w, okW := doc.FloatAttr("width"); okW {
			if h, okH := doc.FloatAttr("height"); okH && w > 1 && h > 1 {
				return Size{Width: w, Height: h}, "attributes"
			}
		}
		// viewBox dimensions.
		if vb, ok := doc.ViewBox(); ok && vb.Width > 1 && vb.Height > 1 {
			return Size{Width: vb.Width, Height: vb.Height}, "viewbox"
		}
	}

	// Raw markup regex, for markup the XML parser cannot digest.
	if wm := widthAttrRe.FindStringSubmatch(markup); wm != nil {
		if hm := heightAttrRe.FindStringSubmatch(markup); hm != nil {
			w, errW := strconv.ParseFloat(wm[1], 64)
			h, errH := strconv.ParseFloat(hm[1], 64)
			if errW == nil && errH == nil && w > 1 && h > 1 {
				return Size{Width: w, Height: h}, "regex"
			}
		}
	}

	return Size{Width: DefaultWidth, Height: DefaultHeight}, "default"
}

// ContentBounds computes the tight painted bounding box of the markup in SVG
// user coordinates: path geometry including strokes from an offscreen
// rasterization, unioned with estimated text extents. Reports false when no
// geometry could be established.
func (p *Probe) ContentBounds(markup string) (Rect, bool) {
	bounds, havePaint := p.paintedBounds(markup)

	if doc, err := Parse(markup); err == nil {
		if tb, ok := guardedTextBounds(doc); ok {
			if havePaint {
				bounds = bounds.Union(tb)
			} else {
				bounds = tb
				havePaint = true
			}
		}
	}

	if !havePaint || bounds.Width() <= 0 || bounds.Height() <= 0 {
		return Rect{}, false
	}
	return bounds, true
}

// paintedBounds draws the markup onto an oversized offscreen surface and
// scans for the opaque extent, so strokes and arrowheads that overflow the
// declared viewBox are included. The surface extends past the viewBox by a
// margin on every side to catch that overflow.
func (p *Probe) paintedBounds(markup string) (bounds Rect, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("geometric probe panicked", "panic", r)
			bounds, ok = Rect{}, false
		}
	}()

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil || icon == nil {
		return Rect{}, false
	}
	vb := icon.ViewBox
	if !(vb.W > 0 && vb.H > 0) {
		return Rect{}, false
	}

	margin := math.Max(32, 0.25*math.Max(vb.W, vb.H))
	scale := math.Min(1, maxProbePixels/math.Max(vb.W+2*margin, vb.H+2*margin))
	devW := int(math.Ceil((vb.W + 2*margin) * scale))
	devH := int(math.Ceil((vb.H + 2*margin) * scale))
	if devW < 1 || devH < 1 {
		return Rect{}, false
	}

	img := image.NewRGBA(image.Rect(0, 0, devW, devH))
	scanner := rasterx.NewScannerGV(devW, devH, img, img.Bounds())
	dasher := rasterx.NewDasher(devW, devH, scanner)
	icon.SetTarget(margin*scale, margin*scale, vb.W*scale, vb.H*scale)
	icon.Draw(dasher, 1.0)

	minX, minY, maxX, maxY, found := opaqueExtent(img)
	if !found {
		return Rect{}, false
	}

	// Device pixel i covers [i, i+1); map back through the probe transform.
	toUserX := func(dev float64) float64 { return dev/scale - margin + vb.X }
	toUserY := func(dev float64) float64 { return dev/scale - margin + vb.Y }
	return Rect{
		MinX: toUserX(float64(minX)),
		MinY: toUserY(float64(minY)),
		MaxX: toUserX(float64(maxX + 1)),
		MaxY: toUserY(float64(maxY + 1)),
	}, true
}

// intrinsicSize reports the parsed document's normalized viewBox dimensions.
func (p *Probe) intrinsicSize(markup string) (w, h float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			w, h, ok = 0, 0, false
		}
	}()
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil || icon == nil {
		return 0, 0, false
	}
	return icon.ViewBox.W, icon.ViewBox.H, true
}

// opaqueExtent scans the alpha channel for the painted pixel bounds.
func opaqueExtent(img *image.RGBA) (minX, minY, maxX, maxY int, found bool) {
	b := img.Bounds()
	minX, minY = b.Max.X, b.Max.Y
	maxX, maxY = b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// guardedTextBounds shields the measurement chain from a panicking font
// stack; one failing technique must not abort the chain.
func guardedTextBounds(doc *Document) (r Rect, ok bool) {
	defer func() {
		if recover() != nil {
			r, ok = Rect{}, false
		}
	}()
	return textBounds(doc)
}
