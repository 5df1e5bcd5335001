// Package clipboard copies exported diagrams to the system clipboard.
// Text goes through a cross-platform library; image payloads shell out
// to whichever native clipboard tool is installed, since no portable Go
// API covers arbitrary MIME types.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnsupportedMIME reports that the active clipboard backend cannot
// accept the requested image type. Callers may retry with a different
// encoding.
var ErrUnsupportedMIME = errors.New("clipboard: unsupported image type")

// CapabilityError explains why a clipboard operation is unavailable on
// this system. Causes lists each backend that was probed and rejected.
type CapabilityError struct {
	Operation string
	Causes    []string
}

func (e *CapabilityError) Error() string {
	if len(e.Causes) == 0 {
		return fmt.Sprintf("clipboard: %s is not supported on this system", e.Operation)
	}
	return fmt.Sprintf("clipboard: %s is not supported on this system: %s",
		e.Operation, strings.Join(e.Causes, "; "))
}

// Writer is the clipboard surface the export layer depends on. Both
// methods report *CapabilityError when the platform cannot perform the
// operation at all, and WriteImage reports ErrUnsupportedMIME when only
// the payload type is the problem.
type Writer interface {
	WriteText(ctx context.Context, text string) error
	WriteImage(ctx context.Context, mime string, data []byte) error
}

// imageMIMEs the native tools are known to accept. Everything else is
// rejected up front so the caller can fall back to PNG.
var writableImageMIMEs = map[string]bool{
	"image/png": true,
}

// SystemWriter writes to the real system clipboard.
type SystemWriter struct {
	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
	runner   func(ctx context.Context, name string, stdin []byte, args ...string) error
}

// NewSystemWriter returns a Writer backed by the host clipboard.
func NewSystemWriter() *SystemWriter {
	return &SystemWriter{
		lookPath: exec.LookPath,
		runner:   runTool,
	}
}

func runTool(ctx context.Context, name string, stdin []byte, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(stdin)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// WriteText places text on the clipboard. The portable library is tried
// first; on headless Linux setups it often fails even when xclip works,
// so xclip is the fallback.
func (w *SystemWriter) WriteText(ctx context.Context, text string) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	primaryErr := clipboard.WriteAll(text)
	if primaryErr == nil {
		return nil
	}
	if _, err := w.lookPath("xclip"); err == nil {
		if err := w.runner(ctx, "xclip", []byte(text), "-selection", "clipboard"); err == nil {
			return nil
		}
	}
	return &CapabilityError{
		Operation: "copy text",
		Causes:    []string{primaryErr.Error()},
	}
}

// WriteImage places an encoded image on the clipboard using wl-copy or
// xclip, whichever is installed. Payload types the tools cannot tag are
// rejected with ErrUnsupportedMIME before any tool runs.
func (w *SystemWriter) WriteImage(ctx context.Context, mime string, data []byte) error {
	if err := context.Cause(ctx); err != nil {
		return err
	}
	if !writableImageMIMEs[mime] {
		return fmt.Errorf("%w: %s", ErrUnsupportedMIME, mime)
	}

	var causes []string
	if _, err := w.lookPath("wl-copy"); err == nil {
		if err := w.runner(ctx, "wl-copy", data, "--type", mime); err == nil {
			return nil
		} else {
			causes = append(causes, err.Error())
		}
	} else {
		causes = append(causes, "wl-copy not installed")
	}
	if _, err := w.lookPath("xclip"); err == nil {
		if err := w.runner(ctx, "xclip", data, "-selection", "clipboard", "-t", mime); err == nil {
			return nil
		} else {
			causes = append(causes, err.Error())
		}
	} else {
		causes = append(causes, "xclip not installed")
	}
	return &CapabilityError{Operation: "copy image", Causes: causes}
}
