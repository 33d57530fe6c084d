package screenconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Keys of a Snapshot that have meaning to this package.
const (
	KeyCells         = "cells"
	KeyTimeRangeFrom = "timeRangeFrom"
	KeyTimeRangeTo   = "timeRangeTo"
)

// Snapshot is a screen configuration. Values are JSON-compatible: nil, bool, string, numbers, []any, and map[string]any (or Snapshot/Cell).
//
// A nil Snapshot means "absent" (ex: a screen that has never been saved). An empty, non-nil Snapshot is the configuration {}.
type Snapshot map[string]any

// Cell is one element of a snapshot's "cells" list.
type Cell map[string]any

// Name returns the cell's "name" field as a string (non-string names are formatted with %v, so the number 1 is "1").
func (c Cell) Name() string {
	return fieldString(c["name"])
}

// Type returns the cell's "type" field as a string (non-string types are formatted with %v).
func (c Cell) Type() string {
	return fieldString(c["type"])
}

func fieldString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Without returns a shallow copy of s without keys. A nil s yields nil.
func (s Snapshot) Without(keys ...string) Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Cells returns s's cells and true if s["cells"] is a well-formed cell array: a list whose every element is an object with a non-null "name" and a non-null "type". An empty list is
// well-formed. Otherwise (including when s has no "cells" key) it returns nil, false.
func (s Snapshot) Cells() ([]Cell, bool) {
	if s == nil {
		return nil, false
	}
	raw, ok := s[KeyCells]
	if !ok {
		return nil, false
	}

	var elems []any
	switch v := raw.(type) {
	case []any:
		elems = v
	case []map[string]any:
		elems = make([]any, len(v))
		for i, m := range v {
			elems[i] = m
		}
	case []Cell:
		elems = make([]any, len(v))
		for i, c := range v {
			elems[i] = map[string]any(c)
		}
	default:
		return nil, false
	}

	cells := make([]Cell, 0, len(elems))
	for _, e := range elems {
		var m map[string]any
		switch ev := e.(type) {
		case map[string]any:
			m = ev
		case Cell:
			m = ev
		case Snapshot:
			m = ev
		default:
			return nil, false
		}
		if m["name"] == nil {
			return nil, false
		}
		if m["type"] == nil {
			return nil, false
		}
		cells = append(cells, Cell(m))
	}
	return cells, true
}

// TimeRange is a screen's relative or absolute time range (ex: From "now-1h", To "now"). Empty strings mean unset.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TimeRangeOf returns the time range stored in s. Missing or null fields are "". A nil s yields the zero TimeRange.
func TimeRangeOf(s Snapshot) TimeRange {
	return TimeRange{From: fieldString(s[KeyTimeRangeFrom]), To: fieldString(s[KeyTimeRangeTo])}
}

// Canonical returns the canonical text form of v: JSON indented with two spaces, object keys sorted, HTML characters not escaped, and no trailing newline.
//
// Canonical is total. If v cannot be encoded as JSON (it holds a channel, a NaN, etc.), the %v formatting of v is returned instead.
func Canonical(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
