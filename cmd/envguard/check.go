package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/binary0zero/env-guard/internal/artifact"
	"github.com/binary0zero/env-guard/internal/drift"
	"github.com/binary0zero/env-guard/internal/report"
	"github.com/binary0zero/env-guard/internal/validator"
)

type checkOptions struct {
	json         bool
	ci           bool
	artifactFile string
	baseline     string
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the environment and report every variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&opts.ci, "ci", false, "Emit GitHub Actions annotations (also $ENVGUARD_CI or $CI)")
	cmd.Flags().StringVar(&opts.artifactFile, "artifact-file", "", "Write the validated config artifact to this path")
	cmd.Flags().StringVar(&opts.baseline, "baseline", "", "Report drift against an artifact written by an earlier check")
	return cmd
}

func (a *app) runCheck(opts checkOptions) error {
	result, _, schemaPath, err := a.validate()
	if err != nil {
		return err
	}

	if err := a.writeReport(a.reporter(a.stdout, schemaPath), result, opts.json, opts.ci); err != nil {
		return err
	}

	if !result.Valid {
		return exitWith(exitInvalid, nil)
	}

	art := artifact.Generate(result.Config)

	if opts.baseline != "" {
		if err := a.reportDrift(opts, art, result, schemaPath); err != nil {
			return err
		}
	}

	if opts.artifactFile != "" {
		if err := art.WriteToFile(resolvePath(opts.artifactFile, a.dir)); err != nil {
			return exitWith(exitInvalid, fmt.Errorf("cannot write artifact: %s: %w", opts.artifactFile, err))
		}
		a.log.WithField("configVersion", art.ConfigVersion).Info("artifact written")
	}
	return nil
}

// reportDrift prints changes since the baseline artifact. Drift is a warning
// and does not change the exit code.
func (a *app) reportDrift(opts checkOptions, current artifact.ConfigArtifact, result validator.Result, schemaPath string) error {
	baseline, err := artifact.ReadFromFile(resolvePath(opts.baseline, a.dir))
	if err != nil {
		return exitWith(exitInvalid, fmt.Errorf("cannot read baseline: %w", err))
	}

	secrets := make(map[string]bool)
	for _, o := range result.Outcomes {
		secrets[o.Key] = o.Secret
	}
	isSecret := func(key string) bool { return secrets[key] || report.IsSecretName(key) }

	d := drift.Detect(baseline, current)
	a.log.WithFields(log.Fields{"baseline": opts.baseline, "changes": len(d.Changes)}).Debug("drift checked")

	var out string
	switch {
	case opts.json:
		// the JSON report is the whole of stdout
		return nil
	case opts.ci || a.cfg.ciMode():
		out = drift.FormatCI(d, schemaPath, isSecret)
	default:
		out = drift.FormatCLI(d, isSecret)
	}
	if out != "" {
		fmt.Fprint(a.stdout, "\n"+out)
	}
	return nil
}

func (a *app) writeReport(r *report.Reporter, result validator.Result, asJSON, ci bool) error {
	var err error
	switch {
	case asJSON:
		err = r.JSON(result)
	case ci || a.cfg.ciMode():
		err = r.CI(result)
	default:
		err = r.Text(result)
	}
	if err != nil {
		return exitWith(exitInvalid, fmt.Errorf("cannot write report: %w", err))
	}
	return nil
}
