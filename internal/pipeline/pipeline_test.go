package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/ankek/mermaid-export/internal/config"
	"github.com/ankek/mermaid-export/internal/engine"
	"github.com/ankek/mermaid-export/internal/export"
	"github.com/ankek/mermaid-export/internal/raster"
)

// fakeEngine returns a fixed SVG and records the configs it was given.
type fakeEngine struct {
	svg     string
	configs []engine.Config
}

func (f *fakeEngine) Name() string      { return "fake" }
func (f *fakeEngine) IsAvailable() bool { return true }

func (f *fakeEngine) Configure(cfg engine.Config) error {
	f.configs = append(f.configs, cfg)
	return nil
}

func (f *fakeEngine) Render(_ context.Context, _, _, _ string) (engine.RenderedDiagram, error) {
	return engine.RenderedDiagram{SVG: f.svg}, nil
}

type memorySaver struct {
	path string
	data []byte
}

func (s *memorySaver) Save(_ context.Context, path string, data []byte) error {
	s.path = path
	s.data = data
	return nil
}

type nopClipboard struct {
	text string
}

func (n *nopClipboard) WriteText(_ context.Context, text string) error {
	n.text = text
	return nil
}
func (n *nopClipboard) WriteImage(context.Context, string, []byte) error { return nil }

const engineSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50"><rect x="0" y="0" width="100" height="50" fill="red"/></svg>`

func newTestService(eng engine.Engine, saver export.Saver, clip *nopClipboard) *Service {
	if clip == nil {
		clip = &nopClipboard{}
	}
	return New(config.Default(), eng, saver, clip)
}

func TestRenderReturnsEngineMarkup(t *testing.T) {
	svc := newTestService(&fakeEngine{svg: engineSVG}, &memorySaver{}, nil)

	svg, err := svc.Render(context.Background(), "graph TD\n  A-->B\n")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if svg != engineSVG {
		t.Fatalf("svg = %q", svg)
	}
}

func TestExportWritesFile(t *testing.T) {
	saver := &memorySaver{}
	svc := newTestService(&fakeEngine{svg: engineSVG}, saver, nil)

	res, err := svc.Export(context.Background(), "graph TD\n  A-->B\n", export.Request{
		Format: raster.FormatSVG,
		Dir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasSuffix(res.Path, export.DefaultBaseName+".svg") {
		t.Fatalf("path = %q", res.Path)
	}
	if !strings.Contains(string(saver.data), "viewBox") {
		t.Fatal("exported markup not optimized")
	}
}

func TestCopyWritesClipboard(t *testing.T) {
	clip := &nopClipboard{}
	svc := newTestService(&fakeEngine{svg: engineSVG}, &memorySaver{}, clip)

	if _, err := svc.Copy(context.Background(), "graph TD\n  A-->B\n", export.Request{
		Format: raster.FormatSVG,
	}); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if !strings.Contains(clip.text, "<svg") {
		t.Fatal("clipboard did not receive markup")
	}
}

func TestSetModeReconfiguresEngine(t *testing.T) {
	eng := &fakeEngine{svg: engineSVG}
	svc := newTestService(eng, &memorySaver{}, nil)

	svc.SetMode(config.ModeDark)
	if _, err := svc.Render(context.Background(), "graph TD\n  A-->B\n"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(eng.configs) == 0 {
		t.Fatal("engine never configured")
	}
	last := eng.configs[len(eng.configs)-1]
	if last.ThemeVariables["primaryColor"] != "#1e1e1e" {
		t.Fatalf("primaryColor = %q, want dark palette value", last.ThemeVariables["primaryColor"])
	}
}

func TestReconfigureAppliesNewThemeOverrides(t *testing.T) {
	eng := &fakeEngine{svg: engineSVG}
	svc := newTestService(eng, &memorySaver{}, nil)

	next := config.Default()
	next.Mode = config.ModeDark
	svc.Reconfigure(next)
	if _, err := svc.Render(context.Background(), "graph TD\n  A-->B\n"); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(eng.configs) == 0 {
		t.Fatal("engine never configured")
	}
	last := eng.configs[len(eng.configs)-1]
	if last.ThemeVariables["primaryColor"] != "#1e1e1e" {
		t.Fatalf("primaryColor = %q, want dark palette value", last.ThemeVariables["primaryColor"])
	}
}

func TestEstimateHeuristicMatchesFormat(t *testing.T) {
	svc := newTestService(&fakeEngine{svg: engineSVG}, &memorySaver{}, nil)

	est, err := svc.EstimateSize(context.Background(), "graph TD\n  A-->B\n",
		raster.FormatSVG, export.Request{}, false)
	if err != nil {
		t.Fatalf("EstimateSize: %v", err)
	}
	if est.Bytes != int64(len(engineSVG)) {
		t.Fatalf("bytes = %d, want markup length %d", est.Bytes, len(engineSVG))
	}
}

func TestEstimateExactMatchesExport(t *testing.T) {
	saver := &memorySaver{}
	svc := newTestService(&fakeEngine{svg: engineSVG}, saver, nil)

	req := export.Request{Format: raster.FormatPNG, Dir: t.TempDir()}
	est, err := svc.EstimateSize(context.Background(), "graph TD\n", raster.FormatPNG, req, true)
	if err != nil {
		t.Fatalf("EstimateSize: %v", err)
	}
	res, err := svc.Export(context.Background(), "graph TD\n", req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if est.Bytes != int64(res.Bytes) {
		t.Fatalf("estimate %d != exported size %d", est.Bytes, res.Bytes)
	}
}

func TestExportDefaultsScaleFromConfig(t *testing.T) {
	saver := &memorySaver{}
	cfg := config.Default()
	cfg.Export.Scale = 2
	svc := New(cfg, &fakeEngine{svg: engineSVG}, saver, &nopClipboard{})

	res1, err := svc.Export(context.Background(), "graph TD\n", export.Request{
		Format: raster.FormatPNG,
		Dir:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	res2, err := svc.Export(context.Background(), "graph TD\n", export.Request{
		Format:  raster.FormatPNG,
		Dir:     t.TempDir(),
		Options: raster.Options{Scale: 1},
	})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res1.Bytes <= res2.Bytes {
		t.Fatalf("configured 2x export (%d bytes) not larger than explicit 1x (%d bytes)", res1.Bytes, res2.Bytes)
	}
}
