package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a textual serialization of a value tree.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// CompressedExt is the suffix of lz4-compressed documents.
const CompressedExt = ".lz4"

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Extension returns the preferred file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	default:
		return ".yaml"
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatYAML, fmt.Errorf("unknown format %q", name)
	}
}

// FormatFromPath infers the format from a file extension. A trailing .lz4 is ignored.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(path)
	name = strings.TrimSuffix(name, CompressedExt)
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return FormatYAML, fmt.Errorf("cannot infer format from %q", path)
	}
}

// IsCompressedPath reports whether path names an lz4-compressed file.
func IsCompressedPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}
