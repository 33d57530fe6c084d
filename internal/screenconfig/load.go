package screenconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a snapshot document.
type Format int

// Snapshot document formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath returns FormatYAML for ".yaml" and ".yml" extensions (case-insensitive) and FormatJSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads and parses the snapshot document at path. See Parse.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadReader reads all of r and parses it as a snapshot document in format. See Parse.
func LoadReader(r io.Reader, format Format) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a snapshot document.
//   - The document must be an object, or null. A null document yields a nil (absent) Snapshot and no error.
//   - An empty or whitespace-only document is an error.
//   - If the object looks like a Screen (it has a "screen_type" string and a "config" object), the Screen's config is returned.
//   - YAML values are normalized to JSON-compatible types (maps with non-string keys get their keys formatted, timestamps become RFC 3339 strings).
func Parse(data []byte, format Format) (Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty snapshot document")
	}

	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		if dec.More() {
			return nil, fmt.Errorf("parse json: unexpected data after top-level value")
		}
	}

	normalized, err := normalizeValue(raw)
	if err != nil {
		return nil, err
	}
	if normalized == nil {
		return nil, nil
	}
	obj, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be an object, got %T", normalized)
	}
	if cfg, ok := screenWrapperConfig(obj); ok {
		return cfg, nil
	}
	return Snapshot(obj), nil
}

// screenWrapperConfig returns obj["config"] if obj is a serialized Screen.
func screenWrapperConfig(obj map[string]any) (Snapshot, bool) {
	if _, ok := obj["screen_type"].(string); !ok {
		return nil, false
	}
	cfg, ok := obj["config"].(map[string]any)
	if !ok {
		return nil, false
	}
	return Snapshot(cfg), true
}

// normalizeValue converts decoded JSON or YAML values into JSON-compatible values: nil, bool, string, float64, int, int64, uint64, []any, and map[string]any.
func normalizeValue(v any) (any, error) {
	switch vv := v.(type) {
	case nil, bool, string, int, int64, uint64:
		return vv, nil
	case float64:
		if math.IsNaN(vv) || math.IsInf(vv, 0) {
			return nil, fmt.Errorf("unsupported number %v", vv)
		}
		return vv, nil
	case time.Time:
		return vv.Format(time.RFC3339Nano), nil
	case []byte:
		return string(vv), nil
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", k, err)
			}
			out[k] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			key := fmt.Sprintf("%v", k)
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", key, err)
			}
			out[key] = ne
		}
		return out, nil
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}
