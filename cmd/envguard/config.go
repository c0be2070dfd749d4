package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"
)

// appConfig is envguard's own configuration, read from its environment.
// Command-line flags override these values.
type appConfig struct {
	Schema   string   `env:"ENVGUARD_SCHEMA"`
	EnvFiles []string `env:"ENVGUARD_ENV_FILES" envSeparator:","`
	LogLevel string   `env:"ENVGUARD_LOG_LEVEL" envDefault:"warn"`
	CIMode   string   `env:"ENVGUARD_CI"`
	CI       string   `env:"CI"`
	NoColor  string   `env:"NO_COLOR"`
}

func loadAppConfig(environ resolver.Environment) (appConfig, error) {
	var cfg appConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return appConfig{}, fmt.Errorf("invalid envguard configuration: %w", err)
	}
	return cfg, nil
}

// ciMode reports whether annotations should be emitted
func (c appConfig) ciMode() bool {
	return isTruthy(c.CIMode) || isTruthy(c.CI)
}

// noColor follows the NO_COLOR convention: any non-empty value disables color
func (c appConfig) noColor() bool {
	return c.NoColor != ""
}

func isTruthy(val string) bool {
	val = strings.ToLower(strings.TrimSpace(val))
	return val == "true" || val == "1" || val == "yes"
}

// schemaPath picks the schema file: flag, then ENVGUARD_SCHEMA, then the
// default file in dir. It returns the path as given (for messages and
// annotations) and the path to open.
func (c appConfig) schemaPath(flagValue, dir string) (display, open string) {
	display = flagValue
	if display == "" {
		display = c.Schema
	}
	if display == "" {
		display = schema.DefaultFileName
	}
	return display, resolvePath(display, dir)
}

// envFiles returns the env files to load: flags win over ENVGUARD_ENV_FILES.
func (c appConfig) envFiles(flagValues []string, dir string) []string {
	files := flagValues
	if len(files) == 0 {
		files = c.EnvFiles
	}

	out := make([]string, 0, len(files))
	for _, f := range files {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		out = append(out, resolvePath(f, dir))
	}
	return out
}

func resolvePath(path, dir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
