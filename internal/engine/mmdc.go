package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ankek/mermaid-export/internal/logging"
)

// CLIEngine renders through the mermaid-cli binary (mmdc). It is the default
// Engine implementation for non-browser environments.
type CLIEngine struct {
	binary string
	log    *slog.Logger

	mu  sync.Mutex
	cfg Config
}

// NewCLIEngine creates an engine backed by the given binary name or path.
// Pass "" for the default "mmdc".
func NewCLIEngine(binary string) *CLIEngine {
	if binary == "" {
		binary = "mmdc"
	}
	return &CLIEngine{
		binary: binary,
		log:    logging.Logger(),
		cfg:    DefaultConfig(),
	}
}

// Name implements Engine.
func (e *CLIEngine) Name() string { return "mermaid-cli" }

// IsAvailable reports whether the binary is on PATH.
func (e *CLIEngine) IsAvailable() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Configure stores the configuration applied to subsequent renders.
func (e *CLIEngine) Configure(cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	return nil
}

// Render writes the source and configuration into the scratch directory,
// invokes the binary and reads the produced SVG back. Engine stderr becomes
// the error text so render failures stay classifiable.
func (e *CLIEngine) Render(ctx context.Context, id, source, workdir string) (RenderedDiagram, error) {
	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	inputPath := filepath.Join(workdir, id+".mmd")
	outputPath := filepath.Join(workdir, id+".svg")
	configPath := filepath.Join(workdir, id+".config.json")

	if err := os.WriteFile(inputPath, []byte(source), 0o600); err != nil {
		return RenderedDiagram{}, fmt.Errorf("failed to stage diagram source: %w", err)
	}
	configJSON, err := json.Marshal(map[string]any{
		"theme":          cfg.Theme,
		"themeVariables": cfg.ThemeVariables,
		"fontFamily":     cfg.FontFamily,
		"securityLevel":  cfg.SecurityLevel,
		"startOnLoad":    false,
	})
	if err != nil {
		return RenderedDiagram{}, fmt.Errorf("failed to encode engine config: %w", err)
	}
	if err := os.WriteFile(configPath, configJSON, 0o600); err != nil {
		return RenderedDiagram{}, fmt.Errorf("failed to stage engine config: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binary,
		"--input", inputPath,
		"--output", outputPath,
		"--configFile", configPath,
		"--quiet",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.log.Debug("invoking rendering engine", "engine", e.Name(), "id", id)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return RenderedDiagram{}, context.Cause(ctx)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return RenderedDiagram{}, fmt.Errorf("%s", msg)
	}

	svg, err := os.ReadFile(outputPath)
	if err != nil {
		return RenderedDiagram{}, fmt.Errorf("engine produced no output: %w", err)
	}
	return RenderedDiagram{SVG: string(svg)}, nil
}
