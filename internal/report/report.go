// Package report renders validation results for humans, CI systems and tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/binary0zero/env-guard/internal/schema"
	"github.com/binary0zero/env-guard/internal/validator"
)

const (
	colorOK    = "#22c55e"
	colorFail  = "#ef4444"
	colorMuted = "#9ca3af"
)

// DetectProfile picks the color profile for w.
// Non-terminal writers, NO_COLOR and noColor yield plain ASCII.
func DetectProfile(w io.Writer, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// Reporter writes a validation Result in one of three formats
type Reporter struct {
	w          io.Writer
	profile    termenv.Profile
	schemaPath string
}

func New(w io.Writer, schemaPath string, profile termenv.Profile) *Reporter {
	return &Reporter{w: w, profile: profile, schemaPath: schemaPath}
}

// Text writes one line per variable followed by a summary:
//
//	✓ PORT=3000
//	- HOST (unset)
//	✗ NODE_ENV: "staging" is not allowed, must be one of: development, production
func (r *Reporter) Text(result validator.Result) error {
	var sb strings.Builder

	for _, o := range result.Outcomes {
		switch {
		case o.Status == validator.Rejected:
			sb.WriteString(r.paint("✗", colorFail))
			sb.WriteString(" " + validator.FormatError(maskError(o)) + "\n")
		case o.Omitted:
			sb.WriteString(r.paint("-", colorMuted))
			sb.WriteString(" " + o.Key + " " + r.paint("(unset)", colorMuted) + "\n")
		default:
			line := o.Key + "=" + displayValue(o)
			if o.FromDefault {
				line += " " + r.paint("(default)", colorMuted)
			}
			sb.WriteString(r.paint("✓", colorOK) + " " + line + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(r.summary(result))
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// CI writes GitHub Actions error annotations for each failure, then a summary.
// Nothing is annotated for a valid result.
func (r *Reporter) CI(result validator.Result) error {
	var sb strings.Builder

	for _, o := range result.Outcomes {
		if o.Status != validator.Rejected {
			continue
		}
		msg := validator.FormatError(maskError(o))
		sb.WriteString(fmt.Sprintf("::error file=%s::%s\n", EscapeProperty(r.schemaPath), EscapeData(msg)))
	}
	if !result.Valid {
		sb.WriteString("\n")
	}
	sb.WriteString(r.summary(result))
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

type jsonError struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type jsonReport struct {
	Valid      bool           `json:"valid"`
	SchemaPath string         `json:"schemaPath"`
	Config     map[string]any `json:"config"`
	Errors     []jsonError    `json:"errors"`
}

// JSON writes the machine-readable report. Secret values are masked.
func (r *Reporter) JSON(result validator.Result) error {
	out := jsonReport{
		Valid:      result.Valid,
		SchemaPath: r.schemaPath,
		Config:     map[string]any{},
		Errors:     []jsonError{},
	}

	for _, o := range result.Outcomes {
		switch {
		case o.Status == validator.Rejected:
			out.Errors = append(out.Errors, jsonError{
				Key:     o.Key,
				Kind:    string(o.Err.Kind),
				Message: validator.FormatError(maskError(o)),
			})
		case o.Omitted || !result.Valid:
		case isSecret(o):
			out.Config[o.Key] = Mask(o.Value.String())
		default:
			out.Config[o.Key] = o.Value.Interface()
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.w, string(data))
	return err
}

func (r *Reporter) summary(result validator.Result) string {
	total := len(result.Outcomes)
	if result.Valid {
		return r.paint(fmt.Sprintf("✓ %d environment variable(s) valid", total), colorOK)
	}
	return r.paint(fmt.Sprintf("✗ %d of %d environment variable(s) invalid", len(result.Errors), total), colorFail)
}

func (r *Reporter) paint(s, hex string) string {
	return r.profile.String(s).Foreground(r.profile.Color(hex)).String()
}

func isSecret(o validator.Outcome) bool {
	return o.Secret || IsSecretName(o.Key)
}

func displayValue(o validator.Outcome) string {
	if isSecret(o) {
		return Mask(o.Value.String())
	}
	return o.Value.String()
}

// maskError returns the outcome's error with any secret value hidden
func maskError(o validator.Outcome) validator.ValidationError {
	err := *o.Err
	if !isSecret(o) {
		return err
	}
	if err.Raw != "" {
		err.Raw = Mask(err.Raw)
	}
	if err.Actual != nil {
		masked := schema.StringValue(Mask(err.Actual.String()))
		err.Actual = &masked
	}
	return err
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// EscapeData escapes the message part of a GitHub Actions workflow command
func EscapeData(msg string) string {
	return dataEscaper.Replace(msg)
}

// EscapeProperty escapes a workflow command property value such as file=
func EscapeProperty(val string) string {
	return propertyEscaper.Replace(val)
}
