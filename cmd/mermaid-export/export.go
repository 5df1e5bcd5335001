package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ankek/mermaid-export/internal/raster"
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] [source]",
	Short: "Export a diagram to one or more image files",
	Long: `Export renders mermaid source and writes it in each requested format.
Formats: svg, png, jpg, webp. Multiple formats are exported
concurrently.`,
	Args: cobra.MaximumNArgs(1),
	RunE: exportExecution,
}

func init() {
	exportCmd.Flags().String("format", "", "comma-separated output formats (defaults to config)")
	addExportFlags(exportCmd)
}

func parseFormats(cmd *cobra.Command, fallback string) ([]raster.Format, error) {
	raw, _ := cmd.Flags().GetString("format")
	if raw == "" {
		raw = fallback
	}
	var formats []raster.Format
	seen := map[raster.Format]bool{}
	for _, part := range strings.Split(raw, ",") {
		f, err := raster.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}
	return formats, nil
}

func exportExecution(cmd *cobra.Command, args []string) error {
	svc, cfg, err := buildService(cmd)
	if err != nil {
		return err
	}
	formats, err := parseFormats(cmd, cfg.Export.Format)
	if err != nil {
		return err
	}
	text, err := loadSource(cmd, args)
	if err != nil {
		return err
	}

	// Render once, export each format from the same markup.
	svg, err := svc.Render(cmd.Context(), text)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	results := make([]string, len(formats))
	for i, format := range formats {
		i, format := i, format
		g.Go(func() error {
			req, err := buildRequest(cmd, cfg, format)
			if err != nil {
				return err
			}
			res, err := svc.ExportMarkup(ctx, svg, req)
			if err != nil {
				return err
			}
			results[i] = fmt.Sprintf("%s (%d bytes)", res.Path, res.Bytes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, line := range results {
		color.Green("Exported %s", line)
	}
	return nil
}
