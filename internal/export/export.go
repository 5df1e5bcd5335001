// Package export sequences the final stage of the pipeline: taking
// rendered SVG markup and delivering it to a file or the system
// clipboard in the requested format.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ankek/mermaid-export/internal/clipboard"
	"github.com/ankek/mermaid-export/internal/logging"
	"github.com/ankek/mermaid-export/internal/raster"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// Saver persists an export result. The orchestrator hands it a full
// path including extension.
type Saver interface {
	Save(ctx context.Context, path string, data []byte) error
}

// FileSaver writes exports to the local filesystem.
type FileSaver struct{}

func (FileSaver) Save(ctx context.Context, path string, data []byte) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	if err := ValidateOutputPath(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Request describes one export operation.
type Request struct {
	Format raster.Format
	// BaseName is the file name without extension. Blank or
	// whitespace-only falls back to DefaultBaseName.
	BaseName string
	// Dir is the output directory for file exports.
	Dir     string
	Options raster.Options
}

// Result reports what an export operation actually produced.
type Result struct {
	// Path is the written file path. Empty for clipboard operations.
	Path string
	// Format is the format actually delivered, which differs from the
	// request only when a clipboard fallback occurred.
	Format raster.Format
	// Bytes is the size of the delivered payload.
	Bytes int
	// FallbackUsed is set when the clipboard rejected the requested
	// format and the payload was re-encoded as PNG instead.
	FallbackUsed bool
}

// Orchestrator dispatches exports to the optimizer or raster pipeline
// and delivers results through its collaborators.
type Orchestrator struct {
	optimizer *svgdoc.Optimizer
	pipeline  *raster.Pipeline
	saver     Saver
	clip      clipboard.Writer
	log       *slog.Logger
}

// NewOrchestrator wires the export stage. Pass nil saver or clip to use
// the platform defaults.
func NewOrchestrator(optimizer *svgdoc.Optimizer, pipeline *raster.Pipeline, saver Saver, clip clipboard.Writer) *Orchestrator {
	if saver == nil {
		saver = FileSaver{}
	}
	if clip == nil {
		clip = clipboard.NewSystemWriter()
	}
	return &Orchestrator{
		optimizer: optimizer,
		pipeline:  pipeline,
		saver:     saver,
		clip:      clip,
		log:       logging.Logger(),
	}
}

// encode produces the final payload for a request. SVG goes through the
// optimizer only; raster formats run the full pipeline.
func (o *Orchestrator) encode(ctx context.Context, svg string, format raster.Format, opts raster.Options) ([]byte, error) {
	if format == raster.FormatSVG {
		out := o.optimizer.Optimize(svg, opts.PaddingPx)
		return []byte(out), nil
	}
	blob, err := o.pipeline.Rasterize(ctx, format, svg, opts)
	if err != nil {
		return nil, err
	}
	return blob.Data, nil
}

// ExportToFile encodes the markup in the requested format and writes it
// to <dir>/<basename>.<ext>.
func (o *Orchestrator) ExportToFile(ctx context.Context, svg string, req Request) (Result, error) {
	data, err := o.encode(ctx, svg, req.Format, req.Options)
	if err != nil {
		return Result{}, fmt.Errorf("export %s: %w", req.Format, err)
	}

	base := SanitizeBaseName(strings.TrimSpace(req.BaseName))
	path := filepath.Join(req.Dir, base+"."+req.Format.Ext())
	if err := o.saver.Save(ctx, path, data); err != nil {
		return Result{}, fmt.Errorf("export %s: %w", req.Format, err)
	}

	o.log.Info("exported diagram", "path", path, "format", string(req.Format), "bytes", len(data))
	return Result{Path: path, Format: req.Format, Bytes: len(data)}, nil
}

// CopyToClipboard encodes the markup and places it on the system
// clipboard. SVG is copied as text. Raster formats are copied as image
// data; if the clipboard rejects the requested image type, the diagram
// is re-encoded as PNG and the result reports that a fallback occurred.
func (o *Orchestrator) CopyToClipboard(ctx context.Context, svg string, req Request) (Result, error) {
	data, err := o.encode(ctx, svg, req.Format, req.Options)
	if err != nil {
		return Result{}, fmt.Errorf("copy %s: %w", req.Format, err)
	}

	if req.Format == raster.FormatSVG {
		if err := o.clip.WriteText(ctx, string(data)); err != nil {
			return Result{}, fmt.Errorf("copy svg: %w", err)
		}
		return Result{Format: req.Format, Bytes: len(data)}, nil
	}

	err = o.clip.WriteImage(ctx, req.Format.MIME(), data)
	if err == nil {
		return Result{Format: req.Format, Bytes: len(data)}, nil
	}
	if !errors.Is(err, clipboard.ErrUnsupportedMIME) || req.Format == raster.FormatPNG {
		return Result{}, fmt.Errorf("copy %s: %w", req.Format, err)
	}

	// Retry once as PNG, the only image type clipboards reliably take.
	o.log.Info("clipboard rejected format, retrying as png", "requested", string(req.Format))
	data, err = o.encode(ctx, svg, raster.FormatPNG, req.Options)
	if err != nil {
		return Result{}, fmt.Errorf("copy %s (png fallback): %w", req.Format, err)
	}
	if err := o.clip.WriteImage(ctx, raster.FormatPNG.MIME(), data); err != nil {
		return Result{}, fmt.Errorf("copy %s (png fallback): %w", req.Format, err)
	}
	return Result{Format: raster.FormatPNG, Bytes: len(data), FallbackUsed: true}, nil
}
