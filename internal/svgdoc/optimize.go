package svgdoc

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/ankek/mermaid-export/internal/logging"
)

// Padding constants for viewBox optimization.
const (
	// ClipGuardPadding is the minimal always-applied margin keeping
	// anti-aliased edges inside the box.
	ClipGuardPadding = 1
	// BaseOptimizeMargin is added whenever any named padding beyond "none"
	// is requested.
	BaseOptimizeMargin = 10
)

// PaddingLevel is a named export padding amount.
type PaddingLevel string

const (
	PaddingNone   PaddingLevel = "none"
	PaddingSmall  PaddingLevel = "small"
	PaddingMedium PaddingLevel = "medium"
	PaddingLarge  PaddingLevel = "large"
)

// Pixels maps the level to its pixel value.
func (l PaddingLevel) Pixels() int {
	switch l {
	case PaddingSmall:
		return 10
	case PaddingMedium:
		return 20
	case PaddingLarge:
		return 40
	default:
		return 0
	}
}

// ParsePaddingLevel validates a user-supplied padding level name.
func ParsePaddingLevel(s string) (PaddingLevel, error) {
	switch PaddingLevel(strings.ToLower(strings.TrimSpace(s))) {
	case PaddingNone, "":
		return PaddingNone, nil
	case PaddingSmall:
		return PaddingSmall, nil
	case PaddingMedium:
		return PaddingMedium, nil
	case PaddingLarge:
		return PaddingLarge, nil
	}
	return "", fmt.Errorf("unknown padding level: %q (want none, small, medium or large)", s)
}

const (
	xmlProlog  = `<?xml version="1.0" encoding="UTF-8"?>`
	svgDoctype = `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`
	svgXMLNS   = "http://www.w3.org/2000/svg"

	// Embedded compatibility style for viewers that ignore external fonts.
	embeddedStyle = `<style type="text/css"><![CDATA[
  text { font-family: sans-serif; }
]]></style>`
)

var svgOpenTagRe = regexp.MustCompile(`<svg([^>]*)>`)

// Optimizer re-derives a clipping-safe viewBox for rendered markup. The
// engine's own viewBox is frequently tight around a nominal layout box, not
// the true painted extent; strokes, arrowheads and text overflow it and get
// clipped on export. Optimize is the single source of truth for safe bounds.
type Optimizer struct {
	probe *Probe
	log   *slog.Logger
}

// NewOptimizer creates an optimizer measuring with the given probe.
func NewOptimizer(probe *Probe) *Optimizer {
	return &Optimizer{probe: probe, log: logging.Logger()}
}

// Optimize returns a new serialized document whose viewBox is guaranteed to
// contain every painted pixel plus the requested padding. It never fails:
// when optimization is impossible the original markup is returned with only
// the XML prolog prepended, because a failed optimization must never block
// an export.
func (o *Optimizer) Optimize(markup string, paddingPx int) string {
	out, err := o.optimize(markup, paddingPx)
	if err != nil {
		o.log.Warn("svg optimization failed, passing markup through", "error", err)
		return ensureProlog(markup)
	}
	return out
}

func (o *Optimizer) optimize(markup string, paddingPx int) (string, error) {
	if paddingPx < 0 {
		paddingPx = 0
	}
	doc, err := Parse(markup)
	if err != nil {
		return "", err
	}

	box, ok := o.probe.ContentBounds(markup)
	if !ok {
		box, ok = o.declaredBounds(doc)
	}
	if !ok {
		s := o.probe.Measure(markup, MeasureOptions{})
		box = Rect{MinX: 0, MinY: 0, MaxX: s.Width, MaxY: s.Height}
	}

	pad := float64(totalPadding(paddingPx))
	minX := int(math.Floor(box.MinX - pad))
	minY := int(math.Floor(box.MinY - pad))
	maxX := int(math.Ceil(box.MaxX + pad))
	maxY := int(math.Ceil(box.MaxY + pad))

	// Never shrink an existing viewBox: re-optimizing an already padded
	// document with less padding must keep its bounds stable.
	if vb, exists := doc.ViewBox(); exists && vb.Width > 0 && vb.Height > 0 {
		r := vb.Rect()
		minX = minInt(minX, int(math.Floor(r.MinX)))
		minY = minInt(minY, int(math.Floor(r.MinY)))
		maxX = maxInt(maxX, int(math.Ceil(r.MaxX)))
		maxY = maxInt(maxY, int(math.Ceil(r.MaxY)))
	}

	width := maxX - minX
	height := maxY - minY
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("degenerate optimized bounds %dx%d", width, height)
	}

	doc.SetAttr("width", fmt.Sprintf("%d", width))
	doc.SetAttr("height", fmt.Sprintf("%d", height))
	doc.SetAttr("viewBox", fmt.Sprintf("%d %d %d %d", minX, minY, width, height))
	if doc.Attr("xmlns") == "" {
		doc.SetAttr("xmlns", svgXMLNS)
	}
	if doc.Attr("preserveAspectRatio") == "" {
		doc.SetAttr("preserveAspectRatio", "xMidYMid meet")
	}

	out, err := doc.Serialize()
	if err != nil {
		return "", err
	}
	out = ensureDeclarations(out)
	out = ensureEmbeddedStyle(out)
	return out, nil
}

// declaredBounds derives a content box from explicit width/height
// attributes, anchored at the origin.
func (o *Optimizer) declaredBounds(doc *Document) (Rect, bool) {
	w, okW := doc.FloatAttr("width")
	h, okH := doc.FloatAttr("height")
	if !okW || !okH || w <= 0 || h <= 0 {
		return Rect{}, false
	}
	return Rect{MinX: 0, MinY: 0, MaxX: w, MaxY: h}, true
}

// totalPadding combines the clip-guard constant, the base optimize margin
// (only when padding was requested at all) and the requested padding.
func totalPadding(paddingPx int) int {
	total := int(math.Ceil(ClipGuardPadding)) + paddingPx
	if paddingPx > 0 {
		total += BaseOptimizeMargin
	}
	return total
}

func ensureProlog(markup string) string {
	if strings.HasPrefix(markup, "<?xml") {
		return markup
	}
	return xmlProlog + "\n" + markup
}

func ensureDeclarations(markup string) string {
	if strings.HasPrefix(markup, "<?xml") {
		return markup
	}
	return xmlProlog + "\n" + svgDoctype + "\n" + markup
}

func ensureEmbeddedStyle(markup string) string {
	if strings.Contains(markup, "<style") || !strings.Contains(markup, "<svg") {
		return markup
	}
	// Inject after the root opening tag only; nested svg elements keep
	// their markup untouched.
	loc := svgOpenTagRe.FindStringIndex(markup)
	if loc == nil {
		return markup
	}
	return markup[:loc[1]] + embeddedStyle + markup[loc[1]:]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
