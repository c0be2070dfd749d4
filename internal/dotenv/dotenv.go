// Package dotenv loads KEY=VALUE files into a resolver.Environment.
// It never modifies the real process environment; callers merge explicitly.
package dotenv

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"github.com/joho/godotenv"

	"github.com/binary0zero/env-guard/internal/resolver"
)

// ErrNotFound is returned when an env file does not exist.
var ErrNotFound = errors.New("env file not found")

// Read parses the given files in order. Later files override earlier ones.
func Read(paths ...string) (resolver.Environment, error) {
	env := resolver.Environment{}

	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return nil, fmt.Errorf("failed to parse env file %s: %w", path, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}

	return env, nil
}

// Parse reads KEY=VALUE pairs from r
func Parse(r io.Reader) (resolver.Environment, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	return resolver.Environment(values), nil
}

// MergeResult is the merged environment plus the keys the overlay contributed
type MergeResult struct {
	Env     resolver.Environment
	KeysSet []string // sorted
	Skipped []string // overlay keys kept from base, sorted
}

// Merge layers overlay onto base and returns a new environment.
// Without overwrite, a key already present in base wins, even when set to "".
// This mirrors godotenv.Load versus godotenv.Overload.
func Merge(base, overlay resolver.Environment, overwrite bool) MergeResult {
	merged := make(resolver.Environment, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}

	var result MergeResult
	for k, v := range overlay {
		if _, exists := base[k]; exists && !overwrite {
			result.Skipped = append(result.Skipped, k)
			continue
		}
		merged[k] = v
		result.KeysSet = append(result.KeysSet, k)
	}

	sort.Strings(result.KeysSet)
	sort.Strings(result.Skipped)
	result.Env = merged
	return result
}
