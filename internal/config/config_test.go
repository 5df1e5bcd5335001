package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ankek/mermaid-export/internal/svgdoc"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mermaid-export.hcl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeLight {
		t.Fatalf("mode = %q, want light", cfg.Mode)
	}
	if cfg.Padding != svgdoc.PaddingMedium {
		t.Fatalf("padding = %q, want medium", cfg.Padding)
	}
	if cfg.Export.Format != "png" || cfg.Export.Scale != 1 {
		t.Fatalf("export defaults = %+v", cfg.Export)
	}
}

func TestLoadFullFile(t *testing.T) {
	path := writeConfig(t, `
mode    = "dark"
padding = "large"

export {
  format     = "webp"
  scale      = 2
  background = false
  dir        = "/tmp/out"
  base_name  = "release-plan"
}

gantt {
  pixels_per_day = 40
  min_width      = 1000
  max_width      = 3000
}

engine {
  font_family = "monospace"
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeDark {
		t.Fatalf("mode = %q", cfg.Mode)
	}
	if cfg.Padding != svgdoc.PaddingLarge {
		t.Fatalf("padding = %q", cfg.Padding)
	}
	if cfg.Export.Format != "webp" || cfg.Export.Scale != 2 || cfg.Export.Background {
		t.Fatalf("export = %+v", cfg.Export)
	}
	if cfg.Export.BaseName != "release-plan" {
		t.Fatalf("base name = %q", cfg.Export.BaseName)
	}
	if cfg.Gantt.PixelsPerDay != 40 || cfg.Gantt.MinWidth != 1000 || cfg.Gantt.MaxWidth != 3000 {
		t.Fatalf("gantt = %+v", cfg.Gantt)
	}
	if cfg.Engine.FontFamily != "monospace" {
		t.Fatalf("engine font = %q", cfg.Engine.FontFamily)
	}
	// Untouched engine fields keep their defaults.
	if cfg.Engine.Theme != "base" {
		t.Fatalf("engine theme = %q, want base", cfg.Engine.Theme)
	}
}

func TestLoadFractionalGanttScale(t *testing.T) {
	path := writeConfig(t, `
gantt {
  pixels_per_day = 12.5
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gantt.PixelsPerDay != 12.5 {
		t.Fatalf("pixels per day = %g, want 12.5", cfg.Gantt.PixelsPerDay)
	}
}

func TestLoadThemeVariableOverrides(t *testing.T) {
	path := writeConfig(t, `
theme_variables "dark" {
  primaryColor = "#000000"
  fontSize     = 16
}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dark := cfg.ThemeVariables(ModeDark)
	if dark["primaryColor"] != "#000000" {
		t.Fatalf("primaryColor = %q, want override", dark["primaryColor"])
	}
	if dark["fontSize"] != "16" {
		t.Fatalf("fontSize = %q, want 16", dark["fontSize"])
	}
	// Base palette entries the override does not touch survive.
	if dark["lineColor"] != "#e0e0e0" {
		t.Fatalf("lineColor = %q, want palette value", dark["lineColor"])
	}
	// The other mode is unaffected.
	if light := cfg.ThemeVariables(ModeLight); light["primaryColor"] != "#f4f4f4" {
		t.Fatalf("light primaryColor = %q", light["primaryColor"])
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad mode", `mode = "sepia"`},
		{"bad padding", `padding = "huge"`},
		{"negative scale", "export {\n scale = -1\n}"},
		{"inverted gantt bounds", "gantt {\n min_width = 3000\n max_width = 1000\n}"},
		{"bad theme mode", "theme_variables \"sepia\" {\n}"},
		{"syntax error", `mode = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestThemeVariablesReturnsFreshMap(t *testing.T) {
	cfg := Default()
	a := cfg.ThemeVariables(ModeLight)
	a["primaryColor"] = "mutated"
	if b := cfg.ThemeVariables(ModeLight); b["primaryColor"] == "mutated" {
		t.Fatal("palette shared between calls")
	}
}
