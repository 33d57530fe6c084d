package cascade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Loader builds a prioritized cascade of configuration sources and applies them to a destination struct. Register sources in call order from lowest to highest priority using the With*
// methods, then call StrictlyLoad. The zero value is ready to use.
type Loader struct {
	// Getenv reads environment variables for WithEnv sources. If nil, os.Getenv is used.
	Getenv func(string) string

	sources    []cascadeSource       // Sources are ordered from low to high priority.
	providence map[string]Providence // set by StrictlyLoad
}

// Providence identifies the source that set a key.
type Providence struct {
	SourceType       string // ex: "default", "env", "yaml_file"
	SourceIdentifier string // file path or environment variable name; "" for defaults
}

func (p Providence) IsSet() bool {
	return p.SourceType != ""
}

func (p Providence) Default() bool {
	return p.SourceType == SourceDefault
}

// New returns a new Loader. It is equivalent to &Loader{} and exists to support fluent chaining.
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values. Keys are matched case-insensitively. A nil map contributes no values.
func (c *Loader) WithDefaults(m map[string]any) *Loader {
	c.sources = append(c.sources, &sourceMap{m: m})
	return c
}

// WithYAMLFile registers the YAML file at path. The file is not read at call time; I/O and parse errors surface in StrictlyLoad, and a missing file is skipped there.
func (c *Loader) WithYAMLFile(path string) *Loader {
	c.sources = append(c.sources, &sourceYAMLFile{path: path})
	return c
}

// WithNearestYAMLFile searches upward from startDir (or, if empty, the current working directory) for the first readable, non-empty file at the relative path fileName and registers
// it. It panics if fileName is absolute. If no file is found, the loader is unchanged.
func (c *Loader) WithNearestYAMLFile(fileName, startDir string) *Loader {
	if filepath.IsAbs(fileName) {
		panic("fileName shouldn't be absolute")
	}
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	if startDir == "" {
		return c
	}

	for dir := startDir; ; {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			c.sources = append(c.sources, &sourceYAMLFile{path: candidate})
			return c
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return c
		}
		dir = parent
	}
}

// WithEnv registers environment variables as a source. m maps a configuration key to a variable name. Variables are read during StrictlyLoad with the Loader's Getenv.
func (c *Loader) WithEnv(m map[string]string) *Loader {
	keyToEnv := make(map[string]string, len(m))
	for k, name := range m {
		keyToEnv[strings.ToLower(k)] = name
	}
	c.sources = append(c.sources, &sourceEnv{keyToEnv: keyToEnv, getenv: c.getenv})
	return c
}

func (c *Loader) getenv(name string) string {
	if c.Getenv != nil {
		return c.Getenv(name)
	}
	return os.Getenv(name)
}

// StrictlyLoad loads configuration from c's sources into dest, from low to high priority, with later sources overwriting earlier values. dest must be a non-nil pointer to a struct
// whose fields are strings, bools, numbers, or time.Duration.
//
// Missing or unreadable files, empty files, unknown keys, and null values are not errors. A source that cannot be parsed, or a value that cannot be coerced to its field, is an error
// naming the source; loading stops there and later sources are not applied.
func (c *Loader) StrictlyLoad(dest any) error {
	destVal := reflect.ValueOf(dest)
	if dest == nil || destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	structVal := destVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct, got %s", structVal.Kind())
	}
	fields, err := fieldIndex(structVal)
	if err != nil {
		return err
	}

	c.providence = make(map[string]Providence)
	for _, src := range c.sources {
		m, err := src.ToMap()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return fmt.Errorf("%s: %w", src.Name(), err)
		}

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			raw := m[key]
			idx, ok := fields[key]
			if !ok || raw == nil {
				continue
			}
			if err := setField(structVal.Field(idx), raw, key); err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			c.providence[key] = src.Providence(key)
		}
	}
	return nil
}

// Providence returns the source that last set key in the most recent StrictlyLoad, or the zero Providence if no source set it.
func (c *Loader) Providence(key string) Providence {
	return c.providence[strings.ToLower(key)]
}

// fieldIndex maps each settable field's key to its index. Keys that collide case-insensitively are an error.
func fieldIndex(structVal reflect.Value) (map[string]int, error) {
	structType := structVal.Type()
	index := make(map[string]int, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		if !structVal.Field(i).CanSet() {
			continue
		}
		key := fieldKey(f)
		if key == "-" {
			continue
		}
		if prev, exists := index[key]; exists {
			return nil, fmt.Errorf("struct contains case-insensitive field key collision for %q: %s and %s", key, structType.Field(prev).Name, f.Name)
		}
		index[key] = i
	}
	return index, nil
}

func fieldKey(f reflect.StructField) string {
	for _, tagName := range []string{"cascade", "yaml", "json"} {
		tag := f.Tag.Get(tagName)
		if tag == "" {
			continue
		}
		name := strings.TrimSpace(strings.Split(tag, ",")[0])
		if name == "-" {
			return "-"
		}
		if name != "" {
			return strings.ToLower(name)
		}
	}
	return strings.ToLower(f.Name)
}

func setField(fVal reflect.Value, raw any, key string) error {
	if fVal.Type() == durationType {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%s: expected a duration such as \"30s\", got %v", key, raw)
		}
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		fVal.SetInt(int64(d))
		return nil
	}

	switch fVal.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			fVal.SetString(v)
		case int:
			fVal.SetString(strconv.Itoa(v))
		case float64:
			fVal.SetString(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			fVal.SetString(strconv.FormatBool(v))
		default:
			return fmt.Errorf("%s: cannot coerce %T to string", key, raw)
		}
	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			fVal.SetBool(v)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: cannot parse bool from %q", key, v)
			}
			fVal.SetBool(b)
		default:
			return fmt.Errorf("%s: cannot coerce %T to bool", key, raw)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := raw.(type) {
		case int:
			fVal.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("%s: %v is not an integer", key, v)
			}
			fVal.SetInt(int64(v))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("%s: cannot parse int from %q", key, v)
			}
			fVal.SetInt(n)
		default:
			return fmt.Errorf("%s: cannot coerce %T to int", key, raw)
		}
	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			fVal.SetFloat(v)
		case int:
			fVal.SetFloat(float64(v))
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s: cannot parse float from %q", key, v)
			}
			fVal.SetFloat(f)
		default:
			return fmt.Errorf("%s: cannot coerce %T to float", key, raw)
		}
	default:
		return fmt.Errorf("%s: unsupported field kind %s", key, fVal.Kind())
	}
	return nil
}
