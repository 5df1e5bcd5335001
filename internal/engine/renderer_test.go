package engine

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeEngine records interactions and plays back a scripted result.
type fakeEngine struct {
	svg        string
	err        error
	configured []Config
	lastSource string
	lastDir    string
}

func (f *fakeEngine) Name() string      { return "fake" }
func (f *fakeEngine) IsAvailable() bool { return true }

func (f *fakeEngine) Configure(cfg Config) error {
	f.configured = append(f.configured, cfg)
	return nil
}

func (f *fakeEngine) Render(ctx context.Context, id, source, workdir string) (RenderedDiagram, error) {
	f.lastSource = source
	f.lastDir = workdir
	if f.err != nil {
		return RenderedDiagram{}, f.err
	}
	return RenderedDiagram{SVG: f.svg}, nil
}

func TestRendererSuccess(t *testing.T) {
	fake := &fakeEngine{svg: "<svg></svg>"}
	r := NewRenderer(fake)

	got, err := r.Render(context.Background(), "graph TD\n A --> B")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got.SVG != "<svg></svg>" {
		t.Errorf("SVG = %q", got.SVG)
	}
}

func TestRendererConfiguresBeforeEachRender(t *testing.T) {
	fake := &fakeEngine{svg: "<svg></svg>"}
	r := NewRenderer(fake)

	vars := ThemeVariables{"primaryColor": "#222222"}
	r.Reconfigure(vars)

	if _, err := r.Render(context.Background(), "graph TD\n A"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if _, err := r.Render(context.Background(), "graph TD\n B"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if len(fake.configured) != 2 {
		t.Fatalf("Configure called %d times, want once per render", len(fake.configured))
	}
	for i, cfg := range fake.configured {
		if cfg.ThemeVariables["primaryColor"] != "#222222" {
			t.Errorf("render %d: theme variables not applied: %+v", i, cfg.ThemeVariables)
		}
	}
}

func TestRendererInjectsGanttDirective(t *testing.T) {
	fake := &fakeEngine{svg: "<svg></svg>"}
	r := NewRenderer(fake)

	src := "gantt\n    title Plan\n    A :a1, 2024-01-01, 10d\n"
	if _, err := r.Render(context.Background(), src); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(fake.lastSource, `%%{init: {"gantt":`) {
		t.Errorf("gantt directive not injected:\n%s", fake.lastSource)
	}

	fake.lastSource = ""
	if _, err := r.Render(context.Background(), "graph TD\n A --> B"); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(fake.lastSource, "%%{init") {
		t.Errorf("directive injected for a non-gantt diagram:\n%s", fake.lastSource)
	}
}

func TestRendererClassifiesEngineErrors(t *testing.T) {
	fake := &fakeEngine{err: errors.New("Parse error on line 3")}
	r := NewRenderer(fake)

	_, err := r.Render(context.Background(), "graph TD\n A --> B")
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("error %T is not a RenderError", err)
	}
	if rerr.Code != CodeSyntax {
		t.Errorf("Code = %s, want %s", rerr.Code, CodeSyntax)
	}
}

func TestRendererRemovesWorkspace(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeEngine
	}{
		{"on success", &fakeEngine{svg: "<svg></svg>"}},
		{"on failure", &fakeEngine{err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(tt.fake)
			_, _ = r.Render(context.Background(), "graph TD\n A")
			if tt.fake.lastDir == "" {
				t.Fatal("engine never received a workspace")
			}
			if _, err := os.Stat(tt.fake.lastDir); !os.IsNotExist(err) {
				t.Errorf("workspace %s not removed (stat err: %v)", tt.fake.lastDir, err)
			}
		})
	}
}

func TestRendererCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fake := &fakeEngine{err: errors.New("interrupted")}
	r := NewRenderer(fake)

	_, err := r.Render(ctx, "graph TD\n A")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
