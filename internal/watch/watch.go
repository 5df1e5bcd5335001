package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ankek/mermaid-export/internal/logging"
)

// Watcher observes a diagram source file and invokes a callback with
// debouncing whenever it changes. Editors that write via rename are
// handled by watching the parent directory rather than the file itself.
type Watcher struct {
	path     string
	debounce *Debouncer
	log      *slog.Logger
}

// NewWatcher watches path with the given debounce delay. Zero delay
// means DefaultDelay.
func NewWatcher(path string, delay time.Duration) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: NewDebouncer(delay),
		log:      logging.Logger(),
	}
}

// Run blocks until ctx ends, calling onChange (debounced) after each
// modification of the watched file. onChange receives a context that is
// cancelled when a newer change supersedes the run.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	defer w.debounce.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.log.Info("watching for changes", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("source changed", "op", event.Op.String())
			w.debounce.Trigger(onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
