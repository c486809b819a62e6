// Package export renders a roadmap as a standalone document.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nhle/roadmap-builder/internal/model"
)

// Format is a document format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatYAML}

// ParseFormat converts a flag value into a Format. "md" and "yml" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "md"
}

// Render produces the document bytes for r in format f.
func Render(r model.Roadmap, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(r)), nil
	case FormatYAML:
		return YAML(r)
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// FileName returns the download name for an export made at now, in the
// form roadmap-YYYY-MM-DD.<ext>.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("roadmap-%s.%s", now.UTC().Format(time.DateOnly), f.Extension())
}

// WriteFile renders r into dir and returns the written path.
func WriteFile(dir string, r model.Roadmap, f Format, now time.Time) (string, error) {
	data, err := Render(r, f)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(f, now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export %s: %w", path, err)
	}
	return path, nil
}
