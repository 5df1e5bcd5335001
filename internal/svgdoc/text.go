package svgdoc

import (
	"strings"
	"sync"

	"github.com/beevik/etree"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// The geometric probe rasterizes paths but has no text layout, so text
// extents are estimated separately from font metrics and unioned into the
// measured bounds. A generic sans-serif face is close enough for sizing:
// exports embed a sans-serif style block anyway.

const defaultFontSize = 16

var (
	fontOnce   sync.Once
	fontSource *opentype.Font
	faceMu     sync.Mutex
	faceCache  = map[float64]font.Face{}
)

func textFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		fontSource = f
	})
	if fontSource == nil {
		return nil
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f
	}
	f, err := opentype.NewFace(fontSource, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	faceCache[size] = f
	return f
}

// textBounds walks every text element in the document and estimates its
// painted box from font metrics, applying cumulative translate transforms on
// the element and its ancestors. Rotations and scales are rare in rendered
// diagrams and are ignored; the clip-guard padding absorbs the residue.
func textBounds(doc *Document) (Rect, bool) {
	var (
		bounds Rect
		found  bool
	)
	for _, el := range doc.Root().FindElements("//text") {
		r, ok := textElementBounds(el)
		if !ok {
			continue
		}
		if !found {
			bounds = r
			found = true
		} else {
			bounds = bounds.Union(r)
		}
	}
	return bounds, found
}

func textElementBounds(el *etree.Element) (Rect, bool) {
	content := strings.TrimSpace(elementText(el))
	if content == "" {
		return Rect{}, false
	}

	size := defaultFontSize * 1.0
	if v, ok := parseLength(el.SelectAttrValue("font-size", "")); ok && v > 0 {
		size = v
	}
	face := textFace(size)
	if face == nil {
		return Rect{}, false
	}

	x, _ := parseLength(el.SelectAttrValue("x", "0"))
	y, _ := parseLength(el.SelectAttrValue("y", "0"))
	tx, ty := cumulativeTranslate(el)
	x += tx
	y += ty

	width := float26ToFloat(font.MeasureString(face, content))
	metrics := face.Metrics()
	ascent := float26ToFloat(metrics.Ascent)
	descent := float26ToFloat(metrics.Descent)

	switch el.SelectAttrValue("text-anchor", "") {
	case "middle":
		x -= width / 2
	case "end":
		x -= width
	}

	return Rect{MinX: x, MinY: y - ascent, MaxX: x + width, MaxY: y + descent}, true
}

// elementText gathers the character data of the element and its descendants,
// covering tspan-structured labels.
func elementText(el *etree.Element) string {
	var b strings.Builder
	b.WriteString(el.Text())
	for _, child := range el.ChildElements() {
		b.WriteString(elementText(child))
	}
	return b.String()
}

// cumulativeTranslate sums translate(...) components of the element's own
// and ancestor transform attributes.
func cumulativeTranslate(el *etree.Element) (float64, float64) {
	var tx, ty float64
	for e := el; e != nil; e = e.Parent() {
		dx, dy := parseTranslate(e.SelectAttrValue("transform", ""))
		tx += dx
		ty += dy
	}
	return tx, ty
}

func parseTranslate(transform string) (float64, float64) {
	idx := strings.Index(transform, "translate(")
	if idx < 0 {
		return 0, 0
	}
	rest := transform[idx+len("translate("):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return 0, 0
	}
	parts := strings.FieldsFunc(rest[:end], func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var tx, ty float64
	if len(parts) > 0 {
		tx, _ = parseLength(parts[0])
	}
	if len(parts) > 1 {
		ty, _ = parseLength(parts[1])
	}
	return tx, ty
}

// float26ToFloat converts a 26.6 fixed-point length to float64 pixels.
func float26ToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
