package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesAndAppends(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	path := filepath.Join(t.TempDir(), "screendiff.log")

	l, closeLog, err := New(Options{File: path})
	require.NoError(t, err)
	l.Info("compared", zap.Int("sections", 2))
	l.Debug("dropped")
	closeLog()

	l, closeLog, err = New(Options{File: path, Level: "debug"})
	require.NoError(t, err)
	l.Debug("kept")
	closeLog()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "compared", rec["msg"])
	assert.Equal(t, "info", rec["level"])
	assert.EqualValues(t, 2, rec["sections"])
	assert.Contains(t, lines[1], `"msg":"kept"`)
}

func TestNew_CloseReleasesFile(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	path := filepath.Join(t.TempDir(), "screendiff.log")

	l, closeLog, err := New(Options{File: path})
	require.NoError(t, err)
	l.Info("before")
	closeLog()
	l.Info("after")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"before"`)
	assert.NotContains(t, string(b), `"msg":"after"`)
}

func TestNew_FromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv(EnvLogFile, path)

	l, closeLog, err := New(Options{})
	require.NoError(t, err)
	defer closeLog()
	l.Warn("hello")
	require.NoError(t, l.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
}

func TestNew_NopWhenUnset(t *testing.T) {
	t.Setenv(EnvLogFile, "")
	l, closeLog, err := New(Options{Level: "bogus"})
	require.NoError(t, err)
	assert.NotPanics(t, func() { l.Info("nowhere") })
	assert.NotPanics(t, closeLog)
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	_, _, err := New(Options{File: dir})
	assert.Error(t, err)

	_, _, err = New(Options{File: filepath.Join(dir, "x.log"), Level: "loud"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{"": zapcore.InfoLevel, "DEBUG": zapcore.DebugLevel, "warning": zapcore.WarnLevel, "error": zapcore.ErrorLevel} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
