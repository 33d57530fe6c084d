// Package cascade loads layered configuration into a flat Go struct from multiple sources with predictable precedence.
//
// A Loader builds a prioritized cascade of sources and writes into a destination struct. Register sources from lowest to highest priority using the With* methods, then call StrictlyLoad.
// The zero value of Loader is ready to use; New exists for fluent chaining (ex: New().WithDefaults(...).WithYAMLFile(...).WithEnv(...).StrictlyLoad(&cfg)).
//
// Sources
//   - Defaults from a map[string]any.
//   - YAML files read at load time. WithYAMLFile registers a specific path. WithNearestYAMLFile searches upward from a starting directory for the first readable, non-empty file with
//     a given relative name; it panics if fileName is absolute.
//   - Environment variables mapped to configuration keys via WithEnv; missing or empty variables are ignored and present values are strings.
//
// Keys and coercion Keys are case-insensitive. A field's key is its cascade tag name, else its yaml tag name, else its json tag name, else its lowercased field name. A tag name of
// "-" excludes the field. Unknown keys and null values are ignored. Values are coerced when reasonable (strings to numbers and bools, numbers to strings); time.Duration fields take
// duration strings such as "30s".
//
// Errors StrictlyLoad returns an error when a readable source cannot be parsed or supplies a value that cannot be coerced to its field. Missing or unreadable files and empty files are
// not errors. Errors include the source's name.
//
// Provenance After loading, Loader.Providence reports which source last set each key.
package cascade
