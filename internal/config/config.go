// Package config loads tool configuration from HCL files. Every setting
// has a default, so a missing file yields a fully usable configuration.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/ankek/mermaid-export/internal/diagram"
	"github.com/ankek/mermaid-export/internal/engine"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// Mode selects the color scheme used for rendering and backgrounds.
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ExportDefaults are the settings applied when a CLI flag is not given.
type ExportDefaults struct {
	Format     string
	Scale      float64
	Background bool
	Dir        string
	BaseName   string
}

// Config is the resolved tool configuration.
type Config struct {
	Mode    Mode
	Padding svgdoc.PaddingLevel
	Export  ExportDefaults
	Gantt   diagram.GanttOptions
	Engine  engine.Config

	// overrides are user theme variables layered on the built-in
	// palettes, keyed by mode.
	overrides map[Mode]engine.ThemeVariables
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Mode:    ModeLight,
		Padding: svgdoc.PaddingMedium,
		Export: ExportDefaults{
			Format:     "png",
			Scale:      1,
			Background: true,
			Dir:        ".",
		},
		Gantt:     diagram.DefaultGanttOptions(),
		Engine:    engine.DefaultConfig(),
		overrides: map[Mode]engine.ThemeVariables{},
	}
}

// ThemeVariables returns the engine theme variables for a mode: the
// built-in palette with any configured overrides applied on top.
func (c *Config) ThemeVariables(mode Mode) engine.ThemeVariables {
	var vars engine.ThemeVariables
	if mode == ModeDark {
		vars = darkThemeVariables()
	} else {
		vars = lightThemeVariables()
	}
	for k, v := range c.overrides[mode] {
		vars[k] = v
	}
	return vars
}

// HCL file schema. Blocks are optional and merge over Default.
type fileConfig struct {
	Mode    *string `hcl:"mode,optional"`
	Padding *string `hcl:"padding,optional"`

	Export *exportBlock `hcl:"export,block"`
	Gantt  *ganttBlock  `hcl:"gantt,block"`
	Engine *engineBlock `hcl:"engine,block"`

	Themes []themeBlock `hcl:"theme_variables,block"`
}

type exportBlock struct {
	Format     *string  `hcl:"format,optional"`
	Scale      *float64 `hcl:"scale,optional"`
	Background *bool    `hcl:"background,optional"`
	Dir        *string  `hcl:"dir,optional"`
	BaseName   *string  `hcl:"base_name,optional"`
}

type ganttBlock struct {
	PixelsPerDay *float64 `hcl:"pixels_per_day,optional"`
	MinWidth     *int     `hcl:"min_width,optional"`
	MaxWidth     *int     `hcl:"max_width,optional"`
}

type engineBlock struct {
	Theme         *string `hcl:"theme,optional"`
	FontFamily    *string `hcl:"font_family,optional"`
	SecurityLevel *string `hcl:"security_level,optional"`
}

type themeBlock struct {
	Mode string   `hcl:"mode,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load reads an HCL configuration file and merges it over the defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %s", path, diags.Error())
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %s", path, diags.Error())
	}
	if err := cfg.apply(&fc); err != nil {
		return nil, fmt.Errorf("apply %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(fc *fileConfig) error {
	if fc.Mode != nil {
		switch Mode(*fc.Mode) {
		case ModeLight, ModeDark:
			c.Mode = Mode(*fc.Mode)
		default:
			return fmt.Errorf("unknown mode %q (want light or dark)", *fc.Mode)
		}
	}
	if fc.Padding != nil {
		level, err := svgdoc.ParsePaddingLevel(*fc.Padding)
		if err != nil {
			return err
		}
		c.Padding = level
	}

	if fc.Export != nil {
		if fc.Export.Format != nil {
			c.Export.Format = *fc.Export.Format
		}
		if fc.Export.Scale != nil {
			if *fc.Export.Scale <= 0 {
				return fmt.Errorf("export scale must be positive, got %g", *fc.Export.Scale)
			}
			c.Export.Scale = *fc.Export.Scale
		}
		if fc.Export.Background != nil {
			c.Export.Background = *fc.Export.Background
		}
		if fc.Export.Dir != nil {
			c.Export.Dir = *fc.Export.Dir
		}
		if fc.Export.BaseName != nil {
			c.Export.BaseName = *fc.Export.BaseName
		}
	}

	if fc.Gantt != nil {
		if fc.Gantt.PixelsPerDay != nil {
			c.Gantt.PixelsPerDay = *fc.Gantt.PixelsPerDay
		}
		if fc.Gantt.MinWidth != nil {
			c.Gantt.MinWidth = *fc.Gantt.MinWidth
		}
		if fc.Gantt.MaxWidth != nil {
			c.Gantt.MaxWidth = *fc.Gantt.MaxWidth
		}
		if c.Gantt.MinWidth > c.Gantt.MaxWidth {
			return fmt.Errorf("gantt min_width %d exceeds max_width %d", c.Gantt.MinWidth, c.Gantt.MaxWidth)
		}
	}

	if fc.Engine != nil {
		if fc.Engine.Theme != nil {
			c.Engine.Theme = *fc.Engine.Theme
		}
		if fc.Engine.FontFamily != nil {
			c.Engine.FontFamily = *fc.Engine.FontFamily
		}
		if fc.Engine.SecurityLevel != nil {
			c.Engine.SecurityLevel = *fc.Engine.SecurityLevel
		}
	}

	for _, tb := range fc.Themes {
		mode := Mode(tb.Mode)
		if mode != ModeLight && mode != ModeDark {
			return fmt.Errorf("unknown theme_variables mode %q (want light or dark)", tb.Mode)
		}
		vars, err := decodeThemeVariables(tb.Body)
		if err != nil {
			return err
		}
		c.overrides[mode] = vars
	}
	return nil
}

// decodeThemeVariables reads a theme_variables block's attributes as a
// free-form string map. Theme variable names are open-ended, so no fixed
// schema applies.
func decodeThemeVariables(body hcl.Body) (engine.ThemeVariables, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("theme variables: %s", diags.Error())
	}
	vars := make(engine.ThemeVariables, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("theme variable %s: %s", name, diags.Error())
		}
		s, err := ctyToString(val)
		if err != nil {
			return nil, fmt.Errorf("theme variable %s: %w", name, err)
		}
		vars[name] = s
	}
	return vars, nil
}

func ctyToString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), nil
	case cty.Number:
		return val.AsBigFloat().Text('f', -1), nil
	case cty.Bool:
		if val.True() {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("unsupported value type %s", val.Type().FriendlyName())
}
