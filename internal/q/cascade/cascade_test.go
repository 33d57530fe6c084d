package cascade

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Debug   bool          `yaml:"debug"`
	Ratio   float64       `yaml:"ratio"`
	Timeout time.Duration `yaml:"timeout"`
	LogFile string        `cascade:"log_file" yaml:"logfile"`
	Notes   []string      `yaml:"-"`
	Plain   string
}

func writeYAML(t *testing.T, path, contents string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestStrictlyLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	low := writeYAML(t, filepath.Join(dir, "low.yaml"), "host: low.example.com\nport: 8080\ndebug: true\nunknown: 1\n")
	high := writeYAML(t, filepath.Join(dir, "high.yaml"), "port: \"9090\"\nratio: 2\nplain: x\n")

	l := New().
		WithDefaults(map[string]any{"host": "localhost", "Port": 80, "timeout": "5s"}).
		WithYAMLFile(low).
		WithYAMLFile(high).
		WithYAMLFile(filepath.Join(dir, "missing.yaml"))
	l.Getenv = envOf(map[string]string{"APP_HOST": "env.example.com", "APP_DEBUG": ""})
	l.WithEnv(map[string]string{"host": "APP_HOST", "debug": "APP_DEBUG", "log_file": "APP_LOG"})

	var cfg testConfig
	require.NoError(t, l.StrictlyLoad(&cfg))
	assert.Equal(t, testConfig{Host: "env.example.com", Port: 9090, Debug: true, Ratio: 2, Timeout: 5 * time.Second, Plain: "x"}, cfg)

	assert.Equal(t, Providence{SourceType: SourceEnv, SourceIdentifier: "APP_HOST"}, l.Providence("host"))
	assert.Equal(t, Providence{SourceType: SourceYAMLFile, SourceIdentifier: high}, l.Providence("PORT"))
	assert.Equal(t, Providence{SourceType: SourceYAMLFile, SourceIdentifier: low}, l.Providence("debug"), "an empty variable does not override")
	assert.True(t, l.Providence("timeout").Default())
	assert.False(t, l.Providence("log_file").IsSet())
	assert.False(t, l.Providence("notes").IsSet())
}

func TestStrictlyLoad_FieldKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, filepath.Join(dir, "c.yaml"), "log_file: /tmp/a.log\nlogfile: ignored\nnotes: [a]\n")

	var cfg testConfig
	require.NoError(t, New().WithYAMLFile(path).StrictlyLoad(&cfg))
	assert.Equal(t, "/tmp/a.log", cfg.LogFile, "the cascade tag wins over the yaml tag")
	assert.Nil(t, cfg.Notes)
}

func TestStrictlyLoad_EmptyAndNull(t *testing.T) {
	dir := t.TempDir()
	empty := writeYAML(t, filepath.Join(dir, "empty.yaml"), "  \n")
	comments := writeYAML(t, filepath.Join(dir, "comments.yaml"), "# nothing here\n")
	null := writeYAML(t, filepath.Join(dir, "null.yaml"), "host: null\nport: ~\n")

	l := New().WithDefaults(map[string]any{"host": "localhost", "port": 80}).WithYAMLFile(empty).WithYAMLFile(comments).WithYAMLFile(null)
	var cfg testConfig
	require.NoError(t, l.StrictlyLoad(&cfg))
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 80, cfg.Port)
	assert.True(t, l.Providence("host").Default())
}

func TestStrictlyLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{"parse", "host: [unclosed\n", "parse yaml"},
		{"not a mapping", "- a\n- b\n", "must be a mapping"},
		{"bad int", "port: many\n", "port: cannot parse int"},
		{"fractional int", "port: 1.5\n", "not an integer"},
		{"bad bool", "debug: maybe\n", "debug: cannot parse bool"},
		{"duration number", "timeout: 10\n", "expected a duration"},
		{"bad duration", "timeout: soon\n", "timeout"},
		{"object for string", "host:\n  name: x\n", "cannot coerce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeYAML(t, filepath.Join(dir, tt.name+".yaml"), tt.contents)
			var cfg testConfig
			err := New().WithYAMLFile(path).StrictlyLoad(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStrictlyLoad_Dest(t *testing.T) {
	l := New().WithDefaults(map[string]any{"host": "x"})
	assert.Error(t, l.StrictlyLoad(nil))
	var cfg testConfig
	assert.Error(t, l.StrictlyLoad(cfg))
	n := 1
	assert.Error(t, l.StrictlyLoad(&n))

	type collide struct {
		Name  string
		Other string `yaml:"NAME"`
	}
	assert.ErrorContains(t, l.StrictlyLoad(&collide{}), "collision")

	type unsupported struct {
		Host []string
	}
	assert.ErrorContains(t, l.StrictlyLoad(&unsupported{}), "unsupported field kind")
}

func TestStrictlyLoad_ScalarCoercion(t *testing.T) {
	var cfg testConfig
	err := New().WithDefaults(map[string]any{"host": 42, "plain": true, "ratio": "0.5", "debug": "true", "port": 3.0}).StrictlyLoad(&cfg)
	require.NoError(t, err)
	assert.Equal(t, "42", cfg.Host)
	assert.Equal(t, "true", cfg.Plain)
	assert.Equal(t, 0.5, cfg.Ratio)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3, cfg.Port)
}

func TestWithNearestYAMLFile(t *testing.T) {
	root := t.TempDir()
	work := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(work, 0o755))
	rootFile := writeYAML(t, filepath.Join(root, ".app", "config.yaml"), "host: root\n")
	writeYAML(t, filepath.Join(root, "a", ".app", "config.yaml"), "\n")

	l := New().WithNearestYAMLFile(filepath.Join(".app", "config.yaml"), work)
	var cfg testConfig
	require.NoError(t, l.StrictlyLoad(&cfg))
	assert.Equal(t, "root", cfg.Host, "empty files are skipped by the search")
	assert.Equal(t, rootFile, l.Providence("host").SourceIdentifier)

	none := New().WithNearestYAMLFile("nope.yaml", work)
	assert.Empty(t, none.sources)

	assert.Panics(t, func() { New().WithNearestYAMLFile(rootFile, work) })
}

func TestExpandPath(t *testing.T) {
	assert.Equal(t, "/home/u", ExpandPath("~", "/home/u"))
	assert.Equal(t, "/home/u", ExpandPath("~/", "/home/u"))
	assert.Equal(t, filepath.Join("/home/u", "a", "b"), ExpandPath("~/a/b", "/home/u"))
	assert.Equal(t, "/abs", ExpandPath("/abs", "/home/u"))
	assert.Equal(t, "rel/x", ExpandPath("rel/x", "/home/u"))
	assert.Equal(t, "~other/x", ExpandPath("~other/x", "/home/u"))
	assert.Equal(t, "", ExpandPath("", "/home/u"))

	t.Setenv("HOME", "/from/env")
	assert.Equal(t, filepath.Join("/from/env", "x"), ExpandPath("~/x", ""))
}
