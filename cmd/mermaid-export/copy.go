package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ankek/mermaid-export/internal/raster"
)

var copyCmd = &cobra.Command{
	Use:   "copy [flags] [source]",
	Short: "Copy a rendered diagram to the system clipboard",
	Long: `Copy renders mermaid source and places it on the clipboard: SVG as
text, raster formats as image data. If the clipboard rejects the
requested image type, the diagram is copied as PNG instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: copyExecution,
}

func init() {
	copyCmd.Flags().String("format", "svg", "clipboard format (svg|png|jpg|webp)")
	addExportFlags(copyCmd)
}

func copyExecution(cmd *cobra.Command, args []string) error {
	svc, cfg, err := buildService(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := raster.ParseFormat(formatName)
	if err != nil {
		return err
	}
	text, err := loadSource(cmd, args)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, cfg, format)
	if err != nil {
		return err
	}
	res, err := svc.Copy(cmd.Context(), text, req)
	if err != nil {
		return err
	}

	if res.FallbackUsed {
		color.Yellow("Clipboard does not accept %s; copied as %s instead", format, res.Format)
		return nil
	}
	color.Green("Copied %s to clipboard (%d bytes)", res.Format, res.Bytes)
	return nil
}
