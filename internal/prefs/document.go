package prefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jask/shopdash/internal/layout"
)

// Format is an export encoding for layout documents.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

// FormatForPath picks the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// EncodeDocument writes snap to w in the given format.
func EncodeDocument(w io.Writer, snap layout.Snapshot, f Format) error {
	doc := layout.ToDocument(snap)
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}

// DecodeDocument parses a layout document. No migration or normalisation
// is applied.
func DecodeDocument(data []byte, f Format) (layout.Snapshot, error) {
	var doc layout.Document
	switch f {
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return layout.Snapshot{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return layout.Snapshot{}, fmt.Errorf("decode json: %w", err)
		}
	}
	return layout.FromDocument(doc), nil
}

// WriteDocument exports snap to path, choosing the format from the extension.
func WriteDocument(path string, snap layout.Snapshot) error {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, snap, FormatForPath(path)); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

// ReadDocument imports a layout document from path.
func ReadDocument(path string) (layout.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return layout.Snapshot{}, err
	}
	snap, err := DecodeDocument(data, FormatForPath(path))
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
