// Package source loads diagram text from files, stdin, or remote URLs,
// and persists the last-used text between runs.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/ankek/mermaid-export/internal/logging"
)

// maxSourceBytes bounds how much diagram text one load accepts. Diagram
// sources are hand-written text; anything this large is a mistake.
const maxSourceBytes = 4 << 20

// DefaultSource is the example diagram used when no reference is given
// and no saved session exists.
const DefaultSource = `graph TD
    A[Start] --> B{Condition}
    B -->|true| C[Step 1]
    B -->|false| D[Step 2]
    C --> E[End]
    D --> E
`

// Loader resolves a source reference to diagram text. References may be
// a local path, "-" for stdin, or an http(s) URL.
type Loader struct {
	client *retryablehttp.Client
	stdin  io.Reader
}

// NewLoader returns a Loader with retrying HTTP transport.
func NewLoader() *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil
	return &Loader{client: client, stdin: os.Stdin}
}

// Load reads diagram text from the given reference.
func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	switch {
	case ref == "-":
		return l.readAll(l.stdin, "stdin")
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.loadURL(ctx, ref)
	default:
		return l.loadFile(ref)
	}
}

func (l *Loader) loadFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return l.readAll(f, path)
}

func (l *Loader) loadURL(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	logging.Logger().Debug("fetched remote source", "url", url)
	return l.readAll(resp.Body, url)
}

func (l *Loader) readAll(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSourceBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxSourceBytes {
		return "", fmt.Errorf("read %s: source exceeds %d bytes", name, maxSourceBytes)
	}
	return string(data), nil
}
