package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binary0zero/env-guard/internal/artifact"
	"github.com/binary0zero/env-guard/internal/injector"
	"github.com/binary0zero/env-guard/internal/launcher"
)

// execFn replaces the process; tests swap it out
var execFn = launcher.Exec

type runOptions struct {
	ci             bool
	injectEnv      string
	exportDefaults bool
	artifactFile   string
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Validate the environment, then exec the command",
		Long: `run validates the environment and replaces itself with <command> only
when every variable is valid. On failure every error is printed and the
command is never started.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGuarded(opts, args[0], args[1:])
		},
	}

	// everything after the command belongs to the command
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&opts.ci, "ci", false, "Emit GitHub Actions annotations on failure")
	cmd.Flags().StringVar(&opts.injectEnv, "inject-env", "", "Pass the config artifact JSON to the command in this variable")
	cmd.Flags().BoolVar(&opts.exportDefaults, "export-defaults", false, "Export schema defaults to the command's environment")
	cmd.Flags().StringVar(&opts.artifactFile, "artifact-file", "", "Write the validated config artifact to this path")
	return cmd
}

func (a *app) runGuarded(opts runOptions, target string, args []string) error {
	result, env, schemaPath, err := a.validate()
	if err != nil {
		return err
	}

	// stdout belongs to the guarded command
	if !result.Valid {
		if err := a.writeReport(a.reporter(a.stderr, schemaPath), result, false, opts.ci); err != nil {
			return err
		}
		return exitWith(exitInvalid, nil)
	}

	environ := env.Environ()
	if opts.exportDefaults {
		environ = injector.ApplyDefaults(result, environ)
	}

	if opts.artifactFile != "" || opts.injectEnv != "" {
		art := artifact.Generate(result.Config)

		if opts.artifactFile != "" {
			if err := art.WriteToFile(resolvePath(opts.artifactFile, a.dir)); err != nil {
				return exitWith(exitInvalid, fmt.Errorf("cannot write artifact: %s: %w", opts.artifactFile, err))
			}
		}
		if opts.injectEnv != "" {
			environ, err = injector.InjectEnv(art, environ, opts.injectEnv)
			if err != nil {
				return exitWith(exitInvalid, fmt.Errorf("cannot inject artifact: %w", err))
			}
		}
	}

	a.log.WithFields(log.Fields{"command": target, "args": len(args)}).Debug("launching")

	err = execFn(target, args, environ)
	switch {
	case launcher.IsNotFound(err):
		return exitWith(exitNotFound, fmt.Errorf("command not found: %s", target))
	case launcher.IsPermissionDenied(err):
		return exitWith(exitNoExec, fmt.Errorf("permission denied: %s", target))
	case err != nil:
		return exitWith(exitInvalid, fmt.Errorf("failed to execute %s: %w", target, err))
	}
	// only reachable when execFn returns without replacing the process
	return nil
}
