// Package raster converts optimized SVG markup into raster image blobs. One
// pipeline underlies file export, clipboard copy and exact size estimation
// so the three can never diverge.
package raster

import (
	"fmt"
	"strings"
)

// Format is an export image format.
type Format string

const (
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatJPG  Format = "jpg"
	FormatWebP Format = "webp"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	case FormatJPG, "jpeg":
		return FormatJPG, nil
	case FormatWebP:
		return FormatWebP, nil
	}
	return "", fmt.Errorf("unsupported format: %q (want svg, png, jpg or webp)", s)
}

// MIME returns the format's MIME type.
func (f Format) MIME() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/svg+xml"
	}
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// IsRaster reports whether the format goes through the raster pipeline.
func (f Format) IsRaster() bool { return f != FormatSVG }

// HasAlpha reports whether the encoded format carries an alpha channel.
// JPEG does not, so a background is always composited for it.
func (f Format) HasAlpha() bool { return f != FormatJPG }

// Blob is an immutable encoded image with its MIME type.
type Blob struct {
	Data []byte
	MIME string
}

// EncodingError reports a failure in the draw-and-encode sequence.
type EncodingError struct {
	Stage   string
	Message string
	Err     error
}

func (e *EncodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Stage, e.Message)
}

func (e *EncodingError) Unwrap() error { return e.Err }
