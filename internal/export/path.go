package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultBaseName names exported files when the diagram provides no
// usable title of its own.
const DefaultBaseName = "mermaid-diagram"

// invalid characters stripped from user-supplied base names. Covers the
// union of Windows and POSIX restrictions so exports stay portable.
const unsafeNameChars = `/\:*?"<>|`

// SanitizeBaseName turns an arbitrary title into a safe file base name.
// Unsafe characters are dropped, surrounding whitespace and dots are
// trimmed, and an empty result falls back to DefaultBaseName.
func SanitizeBaseName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafeNameChars, r) || r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.Trim(b.String(), " .")
	if cleaned == "" {
		return DefaultBaseName
	}
	return cleaned
}

// ValidateOutputPath checks that a path is safe to write to: no
// traversal components, an existing parent directory, and write access
// to that directory.
func ValidateOutputPath(outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	cleanPath := filepath.Clean(outputPath)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal detected in output path: %s", outputPath)
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return fmt.Errorf("failed to access output directory: %w", err)
	}
	if !dirInfo.IsDir() {
		return fmt.Errorf("output path parent is not a directory: %s", dir)
	}

	// Probe writability; permission bits alone do not account for
	// read-only mounts.
	testFile := filepath.Join(dir, ".mermaid_export_write_test")
	f, err := os.OpenFile(testFile, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("output directory is not writable: %s: %w", dir, err)
	}
	f.Close()
	os.Remove(testFile)

	return nil
}
