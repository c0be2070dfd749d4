package resolver

import (
	"sort"
	"strings"

	"github.com/binary0zero/env-guard/internal/schema"
)

// Environment is a resolved set of raw variable values, after any .env merge.
type Environment map[string]string

// ResolvedValue represents the raw value found for one schema variable
type ResolvedValue struct {
	Key     string // The variable name (e.g., "PORT")
	Value   string // The raw value (empty if absent)
	Present bool   // Whether the variable is set to a non-empty value
}

// FromEnviron converts an environ slice (["KEY=VALUE", ...]) into an Environment.
// Handles edge cases like empty values ("KEY=") and values containing "=" ("KEY=a=b").
func FromEnviron(environ []string) Environment {
	result := make(Environment, len(environ))

	for _, entry := range environ {
		// Split on first "=" only - values can contain "="
		idx := strings.Index(entry, "=")
		if idx <= 0 {
			// No "=" found or no name, skip malformed entry
			continue
		}
		result[entry[:idx]] = entry[idx+1:]
	}

	return result
}

// Environ converts the environment back to a sorted "KEY=VALUE" slice
func (e Environment) Environ() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	environ := make([]string, 0, len(keys))
	for _, k := range keys {
		environ = append(environ, k+"="+e[k])
	}
	return environ
}

// Lookup returns the raw value for key.
// A variable set to the empty string is reported as absent.
func (e Environment) Lookup(key string) (string, bool) {
	value, ok := e[key]
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Resolve looks up every schema variable in the environment, in declaration order.
func Resolve(s schema.Schema, env Environment) []ResolvedValue {
	names := s.Names()
	results := make([]ResolvedValue, 0, len(names))

	for _, name := range names {
		value, present := env.Lookup(name)
		results = append(results, ResolvedValue{
			Key:     name,
			Value:   value,
			Present: present,
		})
	}

	return results
}
