package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ankek/mermaid-export/internal/svgdoc"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] [source]",
	Short: "Render diagram source to optimized SVG on stdout",
	Long: `Render reads mermaid source from a file, URL, or stdin ("-"), renders
it, optimizes the viewBox for clip-safe bounds, and writes the SVG
document to stdout or a file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: renderExecution,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "write SVG to a file instead of stdout")
	renderCmd.Flags().String("padding", "", "export padding (none|small|medium|large)")
}

func renderExecution(cmd *cobra.Command, args []string) error {
	svc, cfg, err := buildService(cmd)
	if err != nil {
		return err
	}
	text, err := loadSource(cmd, args)
	if err != nil {
		return err
	}

	svg, err := svc.Render(cmd.Context(), text)
	if err != nil {
		return err
	}

	padding := cfg.Padding
	if paddingName, _ := cmd.Flags().GetString("padding"); paddingName != "" {
		padding, err = svgdoc.ParsePaddingLevel(paddingName)
		if err != nil {
			return err
		}
	}
	optimized := svc.Optimize(svg, padding.Pixels())

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(cmd.OutOrStdout(), optimized)
		return nil
	}
	if err := os.WriteFile(output, []byte(optimized), 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
