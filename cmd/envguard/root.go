package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binary0zero/env-guard/internal/dotenv"
	"github.com/binary0zero/env-guard/internal/logging"
	"github.com/binary0zero/env-guard/internal/report"
	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"
	"github.com/binary0zero/env-guard/internal/validator"
)

// app holds the state shared by every subcommand of one invocation
type app struct {
	environ []string
	dir     string
	stdout  io.Writer
	stderr  io.Writer

	cfg appConfig
	log *log.Logger

	// persistent flags
	schemaFlag  string
	envFiles    []string
	overrideEnv bool
	noColor     bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "envguard",
		Short: "Validate environment variables against a schema before startup",
		Long: `envguard checks the process environment against a declared schema,
coerces values to their declared types and reports every problem at once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.schemaFlag, "schema", "", "Path to the schema file (default: $ENVGUARD_SCHEMA or "+schema.DefaultFileName+")")
	flags.StringArrayVar(&a.envFiles, "env-file", nil, "Load variables from a dotenv file (repeatable, later files win)")
	flags.BoolVar(&a.overrideEnv, "override", false, "Let env file values replace variables already set in the environment")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newCheckCmd(a), newRunCmd(a), newSchemaCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := loadAppConfig(resolver.FromEnviron(a.environ))
	if err != nil {
		return exitWith(exitUsage, err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return exitWith(exitUsage, fmt.Errorf("invalid ENVGUARD_LOG_LEVEL: %w", err))
	}
	a.log = logging.New(level, a.stderr)
	return nil
}

// loadSchema reads the schema file and returns it with its display path
func (a *app) loadSchema() (schema.Schema, string, error) {
	display, path := a.cfg.schemaPath(a.schemaFlag, a.dir)

	s, err := schema.LoadSchemaFromPath(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.Schema{}, display, exitWith(exitSchema, fmt.Errorf("schema file not found: %s", display))
		}
		return schema.Schema{}, display, exitWith(exitSchema, fmt.Errorf("failed to parse schema %s: %w", display, err))
	}

	a.log.WithFields(log.Fields{"schema": path, "variables": s.Len()}).Debug("schema loaded")
	return s, display, nil
}

// environment builds the environment to validate: the process environment
// layered with any env files.
func (a *app) environment() (resolver.Environment, error) {
	base := resolver.FromEnviron(a.environ)

	files := a.cfg.envFiles(a.envFiles, a.dir)
	if len(files) == 0 {
		return base, nil
	}

	fileEnv, err := dotenv.Read(files...)
	if err != nil {
		return nil, exitWith(exitEnvFile, err)
	}

	merged := dotenv.Merge(base, fileEnv, a.overrideEnv)
	a.log.WithFields(log.Fields{
		"files":   files,
		"set":     len(merged.KeysSet),
		"skipped": merged.Skipped,
	}).Debug("env files loaded")
	return merged.Env, nil
}

// validate runs the full pipeline: schema, environment, validation
func (a *app) validate() (validator.Result, resolver.Environment, string, error) {
	s, display, err := a.loadSchema()
	if err != nil {
		return validator.Result{}, nil, display, err
	}

	env, err := a.environment()
	if err != nil {
		return validator.Result{}, nil, display, err
	}

	result := validator.Validate(s, env)
	a.log.WithFields(log.Fields{
		"valid":  result.Valid,
		"errors": len(result.Errors),
	}).Info("environment validated")
	return result, env, display, nil
}

func (a *app) reporter(w io.Writer, schemaPath string) *report.Reporter {
	noColor := a.noColor || a.cfg.noColor()
	return report.New(w, schemaPath, report.DetectProfile(w, noColor))
}
