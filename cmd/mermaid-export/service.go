package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankek/mermaid-export/internal/config"
	"github.com/ankek/mermaid-export/internal/engine"
	"github.com/ankek/mermaid-export/internal/export"
	"github.com/ankek/mermaid-export/internal/logging"
	"github.com/ankek/mermaid-export/internal/pipeline"
	"github.com/ankek/mermaid-export/internal/raster"
	"github.com/ankek/mermaid-export/internal/source"
	"github.com/ankek/mermaid-export/internal/svgdoc"
)

// buildService assembles the pipeline from persistent flags and the
// config file. Every subcommand that renders goes through here.
func buildService(cmd *cobra.Command) (*pipeline.Service, *config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		switch config.Mode(mode) {
		case config.ModeLight, config.ModeDark:
			cfg.Mode = config.Mode(mode)
		default:
			return nil, nil, fmt.Errorf("unknown mode %q (want light or dark)", mode)
		}
	}

	binary, _ := cmd.Flags().GetString("engine")
	eng := engine.NewCLIEngine(binary)
	if !eng.IsAvailable() {
		return nil, nil, fmt.Errorf("mermaid engine %q not found in PATH (install @mermaid-js/mermaid-cli)", binary)
	}

	return pipeline.New(cfg, eng, nil, nil), cfg, nil
}

// sessionStore opens the autosave store, or returns nil when the user
// config dir cannot be resolved. Autosave is best-effort.
func sessionStore() *source.FileStore {
	path, err := source.DefaultStatePath()
	if err != nil {
		return nil
	}
	return source.NewFileStore(path)
}

// loadSource resolves the positional source argument (path, URL or "-").
// With no argument, the last autosaved source is used, falling back to
// the built-in example. Loaded text is autosaved for the next run.
func loadSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 {
		if store := sessionStore(); store != nil {
			if text, err := store.Get(source.SourceKey); err == nil {
				return text, nil
			}
		}
		return source.DefaultSource, nil
	}

	text, err := source.NewLoader().Load(cmd.Context(), args[0])
	if err != nil {
		return "", err
	}
	if store := sessionStore(); store != nil {
		if err := store.Set(source.SourceKey, text); err != nil {
			logging.Logger().Warn("autosave failed", "error", err)
		}
	}
	return text, nil
}

// buildRequest turns the shared export flags into an export request.
func buildRequest(cmd *cobra.Command, cfg *config.Config, format raster.Format) (export.Request, error) {
	scale, _ := cmd.Flags().GetFloat64("scale")
	background, _ := cmd.Flags().GetBool("background")
	dir, _ := cmd.Flags().GetString("out-dir")
	name, _ := cmd.Flags().GetString("name")
	paddingName, _ := cmd.Flags().GetString("padding")

	padding := cfg.Padding
	if paddingName != "" {
		level, err := svgdoc.ParsePaddingLevel(paddingName)
		if err != nil {
			return export.Request{}, err
		}
		padding = level
	}
	if dir == "" {
		dir = cfg.Export.Dir
	}
	if name == "" {
		name = cfg.Export.BaseName
	}

	return export.Request{
		Format:   format,
		BaseName: name,
		Dir:      dir,
		Options: raster.Options{
			Scale:             scale,
			IncludeBackground: background,
			PaddingPx:         padding.Pixels(),
		},
	}, nil
}

// addExportFlags registers the flags shared by export, copy, estimate
// and watch.
func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("scale", 0, "raster scale factor (0 uses the configured default)")
	cmd.Flags().Bool("background", true, "composite a background color")
	cmd.Flags().String("out-dir", "", "output directory")
	cmd.Flags().String("name", "", "output file base name")
	cmd.Flags().String("padding", "", "export padding (none|small|medium|large)")
}
