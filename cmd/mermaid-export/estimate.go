package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ankek/mermaid-export/internal/export"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate [flags] [source]",
	Short: "Estimate export file sizes",
	Long: `Estimate predicts the exported file size per format. The default
heuristic is instant; --exact runs the real encoder for a precise
figure.`,
	Args: cobra.MaximumNArgs(1),
	RunE: estimateExecution,
}

func init() {
	estimateCmd.Flags().String("format", "svg,png,jpg,webp", "comma-separated formats to estimate")
	estimateCmd.Flags().Bool("exact", false, "encode for real instead of using the heuristic")
	addExportFlags(estimateCmd)
}

func estimateExecution(cmd *cobra.Command, args []string) error {
	svc, cfg, err := buildService(cmd)
	if err != nil {
		return err
	}
	formats, err := parseFormats(cmd, cfg.Export.Format)
	if err != nil {
		return err
	}
	exact, _ := cmd.Flags().GetBool("exact")
	text, err := loadSource(cmd, args)
	if err != nil {
		return err
	}

	for _, format := range formats {
		req, err := buildRequest(cmd, cfg, format)
		if err != nil {
			return err
		}
		req.Options.IncludeBackground = true
		est, err := svc.EstimateSize(cmd.Context(), text, format, export.Request{Options: req.Options}, exact)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-5s %10s (%s)\n", format, est.Label, est.Strategy)
	}
	return nil
}
