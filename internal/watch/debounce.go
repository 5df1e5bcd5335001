// Package watch re-runs the pipeline when diagram sources change, with
// debouncing so rapid edits collapse into one render.
package watch

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultDelay collapses bursts of source edits.
	DefaultDelay = 500 * time.Millisecond
	// ThemeDelay is used for theme flips, which should feel immediate
	// but still coalesce a double toggle.
	ThemeDelay = 30 * time.Millisecond
)

// Debouncer coalesces triggers and runs at most one task at a time.
// A new trigger during the delay window restarts the window; a new run
// cancels the context of any run still in flight. Last trigger wins.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelCauseFunc
	closed bool
}

// NewDebouncer creates a Debouncer with the given delay window.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay window. fn receives a
// context that is cancelled if a later trigger supersedes it or the
// debouncer is closed.
func (d *Debouncer) Trigger(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		ctx := d.begin()
		if ctx == nil {
			return
		}
		fn(ctx)
	})
}

// begin cancels any in-flight run and hands out a fresh context, or nil
// if the debouncer was closed in the meantime.
func (d *Debouncer) begin() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	if d.cancel != nil {
		d.cancel(context.Canceled)
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	d.cancel = cancel
	return ctx
}

// Close stops pending triggers and cancels any in-flight run.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel(context.Canceled)
		d.cancel = nil
	}
}
