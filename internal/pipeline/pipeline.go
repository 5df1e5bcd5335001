// Package pipeline assembles the full render-measure-optimize-export
// chain behind one service type, so commands and the file watcher share
// identical behavior.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ankek/mermaid-export/internal/clipboard"
	"github.com/ankek/mermaid-export/internal/config"
	"github.com/ankek/mermaid-export/internal/engine"
	"github.com/ankek/mermaid-export/internal/estimate"
	"github.com/ankek/mermaid-export/internal/export"
	"github.com/ankek/mermaid-export/internal/logging"
	"github.com/ankek/mermaid-export/internal/raster"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// Service runs diagram operations end to end: render source text, then
// optimize, rasterize, estimate, save or copy as requested.
type Service struct {
	cfg       *config.Config
	renderer  *engine.Renderer
	probe     *svgdoc.Probe
	optimizer *svgdoc.Optimizer
	raster    *raster.Pipeline
	estimator *estimate.Estimator
	exporter  *export.Orchestrator
	log       *slog.Logger
}

// New assembles a Service from configuration. Pass nil saver or clip to
// use the platform defaults.
func New(cfg *config.Config, eng engine.Engine, saver export.Saver, clip clipboard.Writer) *Service {
	probe := svgdoc.NewProbe()
	optimizer := svgdoc.NewOptimizer(probe)
	rp := raster.NewPipeline(optimizer, probe)

	renderer := engine.NewRenderer(eng,
		engine.WithGanttOptions(cfg.Gantt),
		engine.WithConfig(cfg.Engine))
	renderer.Reconfigure(cfg.ThemeVariables(cfg.Mode))

	return &Service{
		cfg:       cfg,
		renderer:  renderer,
		probe:     probe,
		optimizer: optimizer,
		raster:    rp,
		estimator: estimate.NewEstimator(probe, rp),
		exporter:  export.NewOrchestrator(optimizer, rp, saver, clip),
		log:       logging.Logger(),
	}
}

// SetMode switches between light and dark rendering. Takes effect on
// the next render; already-rendered markup is unaffected.
func (s *Service) SetMode(mode config.Mode) {
	s.cfg.Mode = mode
	s.renderer.Reconfigure(s.cfg.ThemeVariables(mode))
}

// Reconfigure swaps in a freshly loaded configuration and reapplies its
// theme variables. Takes effect on the next render.
func (s *Service) Reconfigure(cfg *config.Config) {
	s.cfg = cfg
	s.renderer.Reconfigure(cfg.ThemeVariables(cfg.Mode))
}

// Render produces SVG markup from diagram source text.
func (s *Service) Render(ctx context.Context, source string) (string, error) {
	rd, err := s.renderer.Render(ctx, source)
	if err != nil {
		return "", err
	}
	return rd.SVG, nil
}

// Measure reports the diagram's display size, including the safety
// margin used for on-screen sizing.
func (s *Service) Measure(svg string) svgdoc.Size {
	return s.probe.Measure(svg, svgdoc.MeasureOptions{IncludeSafetyMargin: true})
}

// Optimize rewrites markup with clip-safe bounds and the given padding.
func (s *Service) Optimize(svg string, paddingPx int) string {
	return s.optimizer.Optimize(svg, paddingPx)
}

// options maps the request and service configuration onto raster
// pipeline options.
func (s *Service) options(req export.Request) raster.Options {
	opts := req.Options
	if opts.Scale <= 0 {
		opts.Scale = s.cfg.Export.Scale
	}
	opts.DarkMode = s.cfg.Mode == config.ModeDark
	return opts
}

// Export renders source text and writes it to a file in the requested
// format.
func (s *Service) Export(ctx context.Context, source string, req export.Request) (export.Result, error) {
	svg, err := s.Render(ctx, source)
	if err != nil {
		return export.Result{}, err
	}
	return s.ExportMarkup(ctx, svg, req)
}

// ExportMarkup writes already-rendered markup to a file. Callers that
// export several formats render once and fan out through here.
func (s *Service) ExportMarkup(ctx context.Context, svg string, req export.Request) (export.Result, error) {
	req.Options = s.options(req)
	return s.exporter.ExportToFile(ctx, svg, req)
}

// Copy renders source text and places it on the system clipboard.
func (s *Service) Copy(ctx context.Context, source string, req export.Request) (export.Result, error) {
	svg, err := s.Render(ctx, source)
	if err != nil {
		return export.Result{}, err
	}
	req.Options = s.options(req)
	return s.exporter.CopyToClipboard(ctx, svg, req)
}

// EstimateSize renders source text and predicts the export size for a
// format. Exact estimates run the real encoder; heuristic ones are
// instant.
func (s *Service) EstimateSize(ctx context.Context, source string, format raster.Format, req export.Request, exact bool) (estimate.Estimate, error) {
	svg, err := s.Render(ctx, source)
	if err != nil {
		return estimate.Estimate{}, err
	}
	opts := s.options(req)
	if exact {
		return s.estimator.Exact(ctx, svg, format, opts)
	}
	est := s.estimator.Heuristic(svg, format, opts)
	if !est.Known {
		return est, fmt.Errorf("no estimate available for format %s", format)
	}
	return est, nil
}
