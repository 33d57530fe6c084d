package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codalotl/screendiff/internal/q/cascade"
	"gopkg.in/yaml.v3"
)

// Env maps configuration keys to the environment variables that set them.
var Env = map[string]string{
	"server":     "SCREENDIFF_SERVER",
	"token":      "SCREENDIFF_TOKEN",
	"log_file":   "SCREENDIFF_LOG_FILE",
	"log_level":  "SCREENDIFF_LOG_LEVEL",
	"store_path": "SCREENDIFF_STORE",
}

// ProjectFile is the project configuration file, relative to a project directory.
var ProjectFile = filepath.Join(".screendiff", "config.yaml")

// Loader loads a Config. The zero value loads from the real home directory, working directory, and environment.
type Loader struct {
	HomeDir string              // if empty, os.UserHomeDir; also expands "~" in File and store_path
	WorkDir string              // start of the project file search; if empty, os.Getwd
	File    string              // optional explicit file, above the project file
	Getenv  func(string) string // if nil, os.Getenv
}

// Load returns the effective configuration. It does not validate it (see Config.Validate), so that callers can apply flags first.
func (l Loader) Load() (Config, error) {
	home := l.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	loader := cascade.New().WithDefaults(defaults)
	if home != "" {
		loader.WithYAMLFile(filepath.Join(home, ProjectFile))
	}
	loader.WithNearestYAMLFile(ProjectFile, l.WorkDir)
	if l.File != "" {
		path := cascade.ExpandPath(l.File, home)
		// Unlike the user and project files, a named file must exist.
		if _, err := os.Stat(path); err != nil {
			return Config{}, fmt.Errorf("load configuration: %w", err)
		}
		loader.WithYAMLFile(path)
	}
	loader.Getenv = l.Getenv
	loader.WithEnv(Env)

	cfg, err := load(loader)
	if err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	cfg.StorePath = cascade.ExpandPath(cfg.StorePath, home)
	return cfg, nil
}

// load runs loader into a Config and records each key's source.
func load(loader *cascade.Loader) (Config, error) {
	var cfg Config
	if err := loader.StrictlyLoad(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Server = strings.TrimRight(cfg.Server, "/")
	cfg.Sources = make(map[string]Source)
	for _, key := range Keys {
		p := loader.Providence(key)
		if !p.IsSet() {
			continue
		}
		src := Source{Kind: p.SourceType, Name: p.SourceIdentifier}
		if p.SourceType == cascade.SourceYAMLFile {
			src.Kind = "file"
		}
		cfg.Sources[key] = src
	}
	return cfg, nil
}

// WriteYAML writes cfg to w as YAML, with each key annotated by its source.
func WriteYAML(w io.Writer, cfg Config) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range Keys {
		v, _ := cfg.Get(key)
		if key == "token" && v != "" {
			v = "<redacted>"
		}
		k := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		val := &yaml.Node{Kind: yaml.ScalarNode, Value: v}
		if key == "lcs_cell_limit" || key == "concurrency" {
			val.Tag = "!!int"
		} else {
			val.Tag = "!!str"
		}
		if src, ok := cfg.Sources[key]; ok {
			val.LineComment = "# " + src.String()
		}
		doc.Content = append(doc.Content, k, val)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
