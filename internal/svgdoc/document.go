// Package svgdoc owns the SVG side of the export pipeline: a light document
// model over rendered markup, true-size measurement with a layered fallback
// chain, and viewBox optimization that guarantees clipping-safe exports.
package svgdoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Size is a measured width/height in pixels.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned box in SVG user coordinates.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Union returns the smallest box containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MinY: math.Min(r.MinY, o.MinY),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MaxY: math.Max(r.MaxY, o.MaxY),
	}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.MinX >= r.MinX && o.MinY >= r.MinY && o.MaxX <= r.MaxX && o.MaxY <= r.MaxY
}

// ViewBox is a parsed SVG viewBox attribute.
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

// Rect converts the viewBox to its bounding rectangle.
func (v ViewBox) Rect() Rect {
	return Rect{MinX: v.MinX, MinY: v.MinY, MaxX: v.MinX + v.Width, MaxY: v.MinY + v.Height}
}

// Document wraps a parsed SVG document and its root element.
type Document struct {
	tree *etree.Document
	root *etree.Element
}

// Parse reads SVG markup into a Document. It fails when the markup is not
// well-formed XML or contains no root svg element.
func Parse(markup string) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(markup); err != nil {
		return nil, fmt.Errorf("failed to parse SVG markup: %w", err)
	}
	root := tree.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return nil, fmt.Errorf("no root svg element found")
	}
	return &Document{tree: tree, root: root}, nil
}

// Root returns the root svg element.
func (d *Document) Root() *etree.Element { return d.root }

// Attr returns the value of an attribute on the root element, or "".
func (d *Document) Attr(name string) string {
	return d.root.SelectAttrValue(name, "")
}

// SetAttr sets an attribute on the root element.
func (d *Document) SetAttr(name, value string) {
	d.root.CreateAttr(name, value)
}

// FloatAttr parses a numeric attribute on the root element. Unit suffixes of
// "px" are tolerated; percentages and other units are rejected.
func (d *Document) FloatAttr(name string) (float64, bool) {
	return parseLength(d.Attr(name))
}

// ViewBox parses the root viewBox attribute, accepting whitespace or comma
// separated components.
func (d *Document) ViewBox() (ViewBox, bool) {
	return parseViewBox(d.Attr("viewBox"))
}

// Serialize writes the document back to markup. The output never includes an
// XML declaration; callers add the prolog as needed.
func (d *Document) Serialize() (string, error) {
	s, err := d.tree.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to serialize SVG document: %w", err)
	}
	return strings.TrimLeft(s, "\n"), nil
}

// parseLength parses an SVG length value, stripping a "px" suffix.
func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if v == "" || strings.HasSuffix(v, "%") {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseViewBox parses "minX minY width height" with whitespace or comma
// separators.
func parseViewBox(v string) (ViewBox, bool) {
	parts := strings.FieldsFunc(v, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	if len(parts) != 4 {
		return ViewBox{}, false
	}
	var nums [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return ViewBox{}, false
		}
		nums[i] = f
	}
	return ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, true
}
