// Package export writes a snapshot of the task document to formats other
// tools can read: JSON Lines, one task per line, and a SQLite database with
// one table per list field.
package export

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Format names an export target.
type Format string

// Supported formats.
const (
	FormatJSONL  Format = "jsonl"
	FormatSQLite Format = "sqlite"
)

// ErrUnknownFormat is returned for an unrecognised format name or extension.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath infers the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Write exports doc to path in format f.
func Write(ctx context.Context, f Format, path string, doc *types.Document) error {
	switch f {
	case FormatJSONL:
		return JSONL(path, doc)
	case FormatSQLite:
		return SQLite(ctx, path, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
