package svgdoc

import (
	"strings"
	"testing"
)

func newTestOptimizer() *Optimizer {
	return NewOptimizer(NewProbe())
}

const plainRectSVG = `<svg width="100" height="50"><rect x="0" y="0" width="100" height="50"/></svg>`

func optimizedViewBox(t *testing.T, markup string) ViewBox {
	t.Helper()
	doc, err := Parse(markup)
	if err != nil {
		t.Fatalf("optimized markup does not parse: %v", err)
	}
	vb, ok := doc.ViewBox()
	if !ok {
		t.Fatalf("optimized markup has no viewBox: %s", markup)
	}
	return vb
}

func TestOptimizeRectScenario(t *testing.T) {
	o := newTestOptimizer()
	out := o.Optimize(plainRectSVG, 0)

	doc, err := Parse(out)
	if err != nil {
		t.Fatalf("optimized output does not parse: %v", err)
	}
	if got := doc.Attr("viewBox"); got != "-1 -1 102 52" {
		t.Errorf("viewBox = %q, want %q", got, "-1 -1 102 52")
	}
	if got := doc.Attr("width"); got != "102" {
		t.Errorf("width = %q, want 102", got)
	}
	if got := doc.Attr("height"); got != "52" {
		t.Errorf("height = %q, want 52", got)
	}
}

func TestOptimizeDeclarations(t *testing.T) {
	o := newTestOptimizer()
	out := o.Optimize(plainRectSVG, 0)

	if !strings.HasPrefix(out, xmlProlog) {
		t.Error("missing XML prolog")
	}
	if !strings.Contains(out, "DTD SVG 1.1") {
		t.Error("missing SVG 1.1 DOCTYPE")
	}
	if !strings.Contains(out, `xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("missing xmlns attribute")
	}
	if !strings.Contains(out, `preserveAspectRatio="xMidYMid meet"`) {
		t.Error("missing preserveAspectRatio attribute")
	}
	if !strings.Contains(out, "<style") || !strings.Contains(out, "sans-serif") {
		t.Error("missing embedded compatibility style block")
	}
}

func TestOptimizeKeepsExistingStyle(t *testing.T) {
	markup := `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50"><style>text{fill:red}</style><rect width="100" height="50"/></svg>`
	o := newTestOptimizer()
	out := o.Optimize(markup, 0)

	if strings.Count(out, "<style") != 1 {
		t.Errorf("expected exactly one style block, got:\n%s", out)
	}
}

func TestOptimizeIdempotence(t *testing.T) {
	o := newTestOptimizer()

	for _, padding := range []int{0, 10, 40} {
		first := o.Optimize(plainRectSVG, padding)
		second := o.Optimize(first, 0)

		vb1 := optimizedViewBox(t, first)
		vb2 := optimizedViewBox(t, second)
		if vb1 != vb2 {
			t.Errorf("padding %d: re-optimizing changed bounds %+v -> %+v", padding, vb1, vb2)
		}
	}
}

func TestOptimizeMonotonicPadding(t *testing.T) {
	o := newTestOptimizer()

	small := optimizedViewBox(t, o.Optimize(plainRectSVG, PaddingSmall.Pixels()))
	large := optimizedViewBox(t, o.Optimize(plainRectSVG, PaddingLarge.Pixels()))

	if !large.Rect().Contains(small.Rect()) || large == small {
		t.Errorf("padding %d bounds %+v do not strictly contain padding %d bounds %+v",
			PaddingLarge.Pixels(), large, PaddingSmall.Pixels(), small)
	}
}

func TestOptimizeNoClipInvariant(t *testing.T) {
	p := NewProbe()
	o := NewOptimizer(p)

	content, ok := p.ContentBounds(plainRectSVG)
	if !ok {
		t.Fatal("no content bounds for test fixture")
	}
	guard := Rect{
		MinX: content.MinX - ClipGuardPadding,
		MinY: content.MinY - ClipGuardPadding,
		MaxX: content.MaxX + ClipGuardPadding,
		MaxY: content.MaxY + ClipGuardPadding,
	}

	for _, padding := range []int{0, 5, 10, 20, 40} {
		vb := optimizedViewBox(t, o.Optimize(plainRectSVG, padding))
		if !vb.Rect().Contains(guard) {
			t.Errorf("padding %d: viewBox %+v does not contain content+guard %+v", padding, vb, guard)
		}
	}
}

func TestOptimizeUnparseableFallback(t *testing.T) {
	o := newTestOptimizer()

	in := `<svg width="100"` // truncated, not parseable
	out := o.Optimize(in, 0)

	if !strings.HasPrefix(out, xmlProlog) {
		t.Error("fallback output missing XML prolog")
	}
	if !strings.Contains(out, in) {
		t.Error("fallback output must carry the original markup unchanged")
	}
}

func TestParsePaddingLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    PaddingLevel
		wantErr bool
	}{
		{"none", PaddingNone, false},
		{"", PaddingNone, false},
		{"Small", PaddingSmall, false},
		{"MEDIUM", PaddingMedium, false},
		{" large ", PaddingLarge, false},
		{"huge", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePaddingLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePaddingLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParsePaddingLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPaddingLevelPixels(t *testing.T) {
	tests := []struct {
		level PaddingLevel
		want  int
	}{
		{PaddingNone, 0},
		{PaddingSmall, 10},
		{PaddingMedium, 20},
		{PaddingLarge, 40},
	}
	for _, tt := range tests {
		if got := tt.level.Pixels(); got != tt.want {
			t.Errorf("%s.Pixels() = %d, want %d", tt.level, got, tt.want)
		}
	}
}
