package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ankek/mermaid-export/internal/config"
	"github.com/ankek/mermaid-export/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <source-file>",
	Short: "Re-export a diagram whenever its source file changes",
	Long: `Watch observes a local mermaid source file and re-runs the export on
each change. Rapid edits are debounced; an edit during an export
cancels it and starts over. When --config names a file, theme changes
to it are picked up too. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: watchExecution,
}

func init() {
	watchCmd.Flags().String("format", "", "comma-separated output formats (defaults to config)")
	watchCmd.Flags().Duration("debounce", watch.DefaultDelay, "delay before re-exporting after a change")
	addExportFlags(watchCmd)
}

func watchExecution(cmd *cobra.Command, args []string) error {
	svc, cfg, err := buildService(cmd)
	if err != nil {
		return err
	}
	formats, err := parseFormats(cmd, cfg.Export.Format)
	if err != nil {
		return err
	}
	delay, _ := cmd.Flags().GetDuration("debounce")
	path := args[0]

	// The source watcher and the config watcher run concurrently and
	// both read cfg, so exports are serialized.
	var mu sync.Mutex

	exportOnce := func(ctx context.Context) {
		mu.Lock()
		defer mu.Unlock()
		text, err := loadSource(cmd, args)
		if err != nil {
			color.Red("Error: %v", err)
			return
		}
		svg, err := svc.Render(ctx, text)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			color.Red("Error: %v", err)
			return
		}
		for _, format := range formats {
			req, err := buildRequest(cmd, cfg, format)
			if err != nil {
				color.Red("Error: %v", err)
				return
			}
			res, err := svc.ExportMarkup(ctx, svg, req)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				color.Red("Error: %v", err)
				return
			}
			color.Green("%s  Exported %s (%d bytes)",
				time.Now().Format("15:04:05"), res.Path, res.Bytes)
		}
	}

	configPath, _ := cmd.Flags().GetString("config")
	modeFlag, _ := cmd.Flags().GetString("mode")

	applyTheme := func(ctx context.Context) {
		next, err := config.Load(configPath)
		if err != nil {
			color.Red("Error: %v", err)
			return
		}
		if modeFlag != "" {
			next.Mode = config.Mode(modeFlag)
		}
		mu.Lock()
		cfg = next
		svc.Reconfigure(next)
		mu.Unlock()
		color.Yellow("%s  Theme configuration reloaded", time.Now().Format("15:04:05"))
		exportOnce(ctx)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Export the current state before waiting for changes.
	exportOnce(ctx)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watch.NewWatcher(path, delay).Run(ctx, exportOnce)
	})
	if _, err := os.Stat(configPath); configPath != "" && err == nil {
		// Theme edits use a much shorter debounce than source edits so
		// the preview follows color tweaks closely.
		g.Go(func() error {
			return watch.NewWatcher(configPath, watch.ThemeDelay).Run(ctx, applyTheme)
		})
	}
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
