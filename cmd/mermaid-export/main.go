// Package main implements the mermaid-export CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ankek/mermaid-export/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mermaid-export",
	Short: "Render and export mermaid diagrams",
	Long: `mermaid-export renders mermaid diagram source into SVG and exports it
as SVG, PNG, JPG or WebP with clip-safe bounds, optional padding and
scaling.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(watchCmd)

	rootCmd.PersistentFlags().String("config", "", "path to HCL config file")
	rootCmd.PersistentFlags().String("mode", "", "color mode (light|dark)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().String("engine", "mmdc", "mermaid engine binary")

	cobra.OnInitialize(func() {
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	})

	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
