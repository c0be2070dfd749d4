package drift

import (
	"fmt"
	"strings"

	"github.com/binary0zero/env-guard/internal/report"
)

// SecretFunc reports whether a key's values must not be printed
type SecretFunc func(key string) bool

// FormatCLI formats the drift report for terminal output.
func FormatCLI(report Report, secret SecretFunc) string {
	if !report.HasDrift {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("⚠️  Configuration drift detected since baseline:\n")

	for _, change := range report.Changes {
		before, after := render(change, secret)
		switch change.Type {
		case Added:
			sb.WriteString(fmt.Sprintf("  + %s: (new) → %s\n", change.Key, after))
		case Removed:
			sb.WriteString(fmt.Sprintf("  - %s: %s → (removed)\n", change.Key, before))
		case Changed:
			sb.WriteString(fmt.Sprintf("  ~ %s: %s → %s\n", change.Key, before, after))
		}
	}
	return sb.String()
}

// FormatCI formats the drift report as GitHub Actions warning annotations.
func FormatCI(d Report, schemaPath string, secret SecretFunc) string {
	if !d.HasDrift {
		return ""
	}

	var sb strings.Builder
	for _, change := range d.Changes {
		before, after := render(change, secret)
		var msg string
		switch change.Type {
		case Added:
			msg = fmt.Sprintf("Config drift: %s added (value: %s)", change.Key, after)
		case Removed:
			msg = fmt.Sprintf("Config drift: %s removed (was: %s)", change.Key, before)
		case Changed:
			msg = fmt.Sprintf("Config drift: %s changed from '%s' to '%s'", change.Key, before, after)
		}
		sb.WriteString(fmt.Sprintf("::warning file=%s::%s\n", report.EscapeProperty(schemaPath), report.EscapeData(msg)))
	}

	sb.WriteString(fmt.Sprintf("\n⚠️  Configuration drift detected: %d change(s) since baseline\n", len(d.Changes)))
	return sb.String()
}

func render(change KeyDrift, secret SecretFunc) (before, after string) {
	if secret != nil && secret(change.Key) {
		return "***", "***"
	}
	return fmt.Sprint(change.BaselineValue), fmt.Sprint(change.CurrentValue)
}
