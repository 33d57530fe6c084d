package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand(t *testing.T) {
	h := newHarness(t)
	h.env["SCREENDIFF_SERVER"] = "http://example.test"
	h.env["SCREENDIFF_TOKEN"] = "s3cret"
	project := h.write(filepath.Join(".screendiff", "config.yaml"), "concurrency: 8\nformat: markdown\n")

	res := h.run("config", "--log-level", "debug")
	require.Equal(t, 0, res.code, res.stderr)
	out := res.stdout
	assert.Contains(t, out, "http://example.test")
	assert.Contains(t, out, "env SCREENDIFF_SERVER")
	assert.Contains(t, out, "<redacted>")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "concurrency: 8")
	assert.Contains(t, out, "file "+project)
	assert.Contains(t, out, "log_level: debug")
	assert.Contains(t, out, "flag --log-level")
	assert.Contains(t, out, filepath.Join(h.home, ".screendiff", "screens.db"))
}

func TestConfigCommand_ExplicitFile(t *testing.T) {
	h := newHarness(t)
	explicit := filepath.Join(t.TempDir(), "ci.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("server: https://ci.example.test/\n"), 0o644))

	res := h.run("--config", explicit, "config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "https://ci.example.test")
	assert.NotContains(t, res.stdout, "https://ci.example.test/")

	res = h.run("--config", filepath.Join(t.TempDir(), "missing.yaml"), "config")
	assert.Equal(t, 1, res.code)
}

func TestLogFile(t *testing.T) {
	h := newHarness(t)
	logPath := filepath.Join(t.TempDir(), "screendiff.log")
	h.env["SCREENDIFF_LOG_FILE"] = logPath
	saved := h.write("saved.json", `{"sql": "SELECT 1"}`)
	current := h.write("current.json", `{"sql": "SELECT 2"}`)

	res := h.run("diff", saved, current)
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"compared"`)
	assert.Contains(t, string(data), `"modified":1`)
}
