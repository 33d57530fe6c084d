package screenconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_JSON(t *testing.T) {
	s, err := Parse([]byte(`{"sql": "SELECT 1", "variables": [], "timeRangeFrom": "now-1h"}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"sql": "SELECT 1", "variables": []any{}, "timeRangeFrom": "now-1h"}, s)
}

func TestParse_YAML(t *testing.T) {
	doc := `
cells:
  - name: a
    type: table
    limit: 10
  - name: b
    type: chart
    at: 2024-01-02T03:04:05Z
timeRangeTo: now
1: one
`
	s, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	cells, ok := s.Cells()
	require.True(t, ok)
	require.Len(t, cells, 2)
	assert.Equal(t, 10, cells[0]["limit"])
	assert.Equal(t, "2024-01-02T03:04:05Z", cells[1]["at"])
	assert.Equal(t, "one", s["1"])
	assert.Equal(t, "now", TimeRangeOf(s).To)
}

func TestParse_YAMLAndJSONAgree(t *testing.T) {
	j, err := Parse([]byte(`{"a": {"b": [true, "x"]}}`), FormatJSON)
	require.NoError(t, err)
	y, err := Parse([]byte("a:\n  b: [true, x]\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Canonical(j), Canonical(y))
}

func TestParse_Null(t *testing.T) {
	s, err := Parse([]byte("null"), FormatJSON)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Parse([]byte("~\n"), FormatYAML)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"empty", "", FormatJSON},
		{"whitespace", "  \n", FormatYAML},
		{"array", "[1]", FormatJSON},
		{"scalar yaml", "hello", FormatYAML},
		{"bad json", "{", FormatJSON},
		{"trailing json", `{} {}`, FormatJSON},
		{"nan", "a: .nan", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestParse_ScreenWrapper(t *testing.T) {
	doc := `{"name": "my-screen", "screen_type": "metrics", "config": {"sql": "SELECT 1"}, "created_by": "me"}`
	s, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"sql": "SELECT 1"}, s)

	// A "config" key alone is ordinary configuration.
	s, err = Parse([]byte(`{"config": {"sql": "SELECT 1"}}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"config": map[string]any{"sql": "SELECT 1"}}, s)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "screen.YML")
	require.NoError(t, os.WriteFile(yamlPath, []byte("sql: SELECT 1\n"), 0o644))
	s, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"sql": "SELECT 1"}, s)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[]"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadReader(t *testing.T) {
	s, err := LoadReader(strings.NewReader(`{"a": 1}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{"a": 1.0}, s)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("dir/a.yml"))
	assert.Equal(t, FormatJSON, FormatFromPath("a.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("a"))
}
