package cascade

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source types reported in Providence.SourceType.
const (
	SourceDefault  = "default"
	SourceYAMLFile = "yaml_file"
	SourceEnv      = "env"
)

// cascadeSource is a configuration source that supplies key/value data to the loader.
type cascadeSource interface {
	// Name returns a human-readable label for the source, used in error messages.
	Name() string

	// ToMap returns the source's values keyed by lowercased key. Values are nil, scalars (int, float64, bool, string), or whatever the source's format decodes nested values to.
	ToMap() (map[string]any, error)

	// Providence describes where this source's value for key came from.
	Providence(key string) Providence
}

// sourceMap adapts a Go map of defaults into a cascadeSource.
type sourceMap struct {
	m map[string]any
}

func (s *sourceMap) Name() string { return "Defaults" }

func (s *sourceMap) ToMap() (map[string]any, error) {
	out := make(map[string]any, len(s.m))
	for k, v := range s.m {
		key := strings.ToLower(k)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("key conflict: key '%s' was already set", k)
		}
		out[key] = v
	}
	return out, nil
}

func (s *sourceMap) Providence(string) Providence {
	return Providence{SourceType: SourceDefault}
}

// sourceYAMLFile is a single YAML file read at load time. Empty or whitespace-only files contribute no values.
type sourceYAMLFile struct {
	path string
}

func (s *sourceYAMLFile) Name() string {
	return fmt.Sprintf("YAML file: %s", s.path)
}

func (s *sourceYAMLFile) ToMap() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read yaml file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		// A document of only comments.
		return map[string]any{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level YAML must be a mapping")
	}

	out := make(map[string]any, len(obj))
	for k, v := range obj {
		key := strings.ToLower(k)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("key conflict: key '%s' was already set", k)
		}
		out[key] = v
	}
	return out, nil
}

func (s *sourceYAMLFile) Providence(string) Providence {
	return Providence{SourceType: SourceYAMLFile, SourceIdentifier: s.path}
}

// sourceEnv reads environment variables mapped to configuration keys.
type sourceEnv struct {
	keyToEnv map[string]string // lowercased key -> variable name
	getenv   func(string) string
}

func (s *sourceEnv) Name() string { return "ENV" }

// ToMap reads every mapped variable. Missing and empty variables do not set any key, so an empty variable never hides a value from a file.
func (s *sourceEnv) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for key, name := range s.keyToEnv {
		if name == "" {
			continue
		}
		if v := s.getenv(name); v != "" {
			out[key] = v
		}
	}
	return out, nil
}

func (s *sourceEnv) Providence(key string) Providence {
	return Providence{SourceType: SourceEnv, SourceIdentifier: s.keyToEnv[key]}
}
