// Package engine wraps the external mermaid rendering engine: the opaque
// collaborator that turns diagram source into SVG markup. This package owns
// only the pre- and post-processing around it: type-specific sizing
// directives, theme configuration, workspace lifecycle and a stable error
// taxonomy. The diagram grammar belongs to the engine.
package engine

import "context"

// ThemeVariables are the engine's color variables. The engine treats them as
// ambient global configuration, so they are re-applied immediately before
// every render.
type ThemeVariables map[string]string

// Config is the engine configuration snapshot applied before a render.
type Config struct {
	// Theme is the engine's named base theme; themeVariables only take
	// effect on top of "base".
	Theme          string
	ThemeVariables ThemeVariables
	FontFamily     string
	SecurityLevel  string
}

// DefaultConfig returns the configuration used when the host never calls
// Reconfigure.
func DefaultConfig() Config {
	return Config{
		Theme:         "base",
		FontFamily:    "sans-serif",
		SecurityLevel: "loose",
	}
}

// RenderedDiagram is the product of a successful render. It is superseded by
// the next render and never mutated in place.
type RenderedDiagram struct {
	// SVG is the rendered markup.
	SVG string
	// Bind is an optional post-insertion callback some engines return for
	// interactive diagrams. Nil for engines without one.
	Bind func() error
}

// Engine renders mermaid source into SVG markup. Implementations are
// treated as opaque: they own parsing, validation and layout.
type Engine interface {
	// Name identifies the engine for logs and error messages.
	Name() string

	// IsAvailable reports whether the engine can run in this environment.
	IsAvailable() bool

	// Configure applies global engine configuration. It must be called
	// before Render whenever the ambient theme may have changed.
	Configure(cfg Config) error

	// Render turns source text into a rendered diagram. The workdir is a
	// scoped scratch directory owned by the caller; the engine may write
	// intermediate files there but must not retain it.
	Render(ctx context.Context, id, source, workdir string) (RenderedDiagram, error)
}
