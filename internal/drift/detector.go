// Package drift compares a validated configuration with an earlier artifact.
package drift

import (
	"sort"

	"github.com/binary0zero/env-guard/internal/artifact"
)

// ChangeType represents the type of configuration change.
type ChangeType string

const (
	Added   ChangeType = "added"   // Key in current but not baseline
	Removed ChangeType = "removed" // Key in baseline but not current
	Changed ChangeType = "changed" // Key in both with different values
)

// KeyDrift is a single key's change
type KeyDrift struct {
	Key           string     `json:"key"`
	Type          ChangeType `json:"type"`
	BaselineValue any        `json:"baselineValue,omitempty"`
	CurrentValue  any        `json:"currentValue,omitempty"`
}

// Report is the full drift analysis, changes sorted by key.
type Report struct {
	HasDrift        bool       `json:"hasDrift"`
	BaselineVersion string     `json:"baselineVersion"`
	CurrentVersion  string     `json:"currentVersion"`
	Changes         []KeyDrift `json:"changes"`
}

// Detect compares current against baseline.
// Values compare by type as well as content: "3000" and 3000 differ.
func Detect(baseline, current artifact.ConfigArtifact) Report {
	report := Report{
		BaselineVersion: baseline.ConfigVersion,
		CurrentVersion:  current.ConfigVersion,
		Changes:         []KeyDrift{},
	}

	if baseline.ConfigVersion != "" && baseline.ConfigVersion == current.ConfigVersion {
		return report
	}

	allKeys := make(map[string]bool, len(baseline.Values)+len(current.Values))
	for k := range baseline.Values {
		allKeys[k] = true
	}
	for k := range current.Values {
		allKeys[k] = true
	}

	keys := make([]string, 0, len(allKeys))
	for k := range allKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		before, inBaseline := baseline.Values[key]
		after, inCurrent := current.Values[key]

		switch {
		case inBaseline && !inCurrent:
			report.Changes = append(report.Changes, KeyDrift{Key: key, Type: Removed, BaselineValue: before})
		case !inBaseline && inCurrent:
			report.Changes = append(report.Changes, KeyDrift{Key: key, Type: Added, CurrentValue: after})
		case before != after:
			report.Changes = append(report.Changes, KeyDrift{
				Key:           key,
				Type:          Changed,
				BaselineValue: before,
				CurrentValue:  after,
			})
		}
	}

	report.HasDrift = len(report.Changes) > 0
	return report
}
