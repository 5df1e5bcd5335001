package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ankek/mermaid-export/internal/diagram"
	"github.com/ankek/mermaid-export/internal/logging"
)

// Renderer drives the engine for one host: it prepares the source
// (diagram-type detection, Gantt sizing directives), applies the current
// theme configuration immediately before each render, scopes a scratch
// workspace around the engine call, and classifies failures.
//
// Theme state is explicit: the host calls Reconfigure whenever its ambient
// theme changes. Rendering without having pushed a theme change the host
// knows about yields stale colors; avoiding that is the host's job.
type Renderer struct {
	engine Engine
	gantt  diagram.GanttOptions
	log    *slog.Logger

	mu  sync.Mutex
	cfg Config

	seq atomic.Int64
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithGanttOptions overrides the Gantt auto-sizing constants.
func WithGanttOptions(opts diagram.GanttOptions) RendererOption {
	return func(r *Renderer) { r.gantt = opts }
}

// WithConfig replaces the base engine configuration.
func WithConfig(cfg Config) RendererOption {
	return func(r *Renderer) { r.cfg = cfg }
}

// NewRenderer creates a renderer around the given engine.
func NewRenderer(e Engine, opts ...RendererOption) *Renderer {
	r := &Renderer{
		engine: e,
		gantt:  diagram.DefaultGanttOptions(),
		log:    logging.Logger(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconfigure replaces the theme variables applied before subsequent
// renders. Hosts call this on every ambient theme change.
func (r *Renderer) Reconfigure(vars ThemeVariables) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.ThemeVariables = vars
}

// Render turns diagram source into a RenderedDiagram. Failures are returned
// as a *RenderError; the scratch workspace is released on every exit path.
func (r *Renderer) Render(ctx context.Context, source string) (RenderedDiagram, error) {
	r.mu.Lock()
	cfg := r.cfg
	r.mu.Unlock()

	// The engine's theme configuration is ambient process-wide state, so it
	// is re-applied immediately before every render call.
	if err := r.engine.Configure(cfg); err != nil {
		return RenderedDiagram{}, fmt.Errorf("failed to configure engine: %w", err)
	}

	if diagram.IsGantt(source) {
		source = diagram.InjectSizingDirective(source, r.gantt)
		r.log.Debug("injected gantt sizing directive")
	}

	workdir, err := os.MkdirTemp("", "mermaid-render-")
	if err != nil {
		return RenderedDiagram{}, fmt.Errorf("failed to create render workspace: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(workdir); rmErr != nil {
			r.log.Warn("failed to remove render workspace", "dir", workdir, "error", rmErr)
		}
	}()

	id := fmt.Sprintf("mermaid-diagram-%d", r.seq.Add(1))
	rendered, err := r.engine.Render(ctx, id, source, workdir)
	if err != nil {
		if ctx.Err() != nil {
			return RenderedDiagram{}, context.Cause(ctx)
		}
		classified := Classify(err)
		r.log.Debug("render failed", "code", classified.Code, "error", err)
		return RenderedDiagram{}, classified
	}
	return rendered, nil
}
