package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/binary0zero/env-guard/internal/validator"
)

// ConfigArtifact is an immutable record of a validated configuration
type ConfigArtifact struct {
	ConfigVersion string         `json:"configVersion"` // sha256:hex
	Values        map[string]any `json:"values"`
}

// Generate builds an artifact from a validated config.
// Values keep their coerced types (string, float64, bool).
func Generate(cfg validator.Config) ConfigArtifact {
	values := cfg.Map()
	return ConfigArtifact{
		ConfigVersion: ComputeConfigVersion(values),
		Values:        values,
	}
}

// ComputeConfigVersion hashes the canonical JSON form of values.
// Returns the hash prefixed with "sha256:".
func ComputeConfigVersion(values map[string]any) string {
	hash := sha256.Sum256(canonicalValuesJSON(values))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// ToCanonicalJSON serializes the artifact with sorted keys and no whitespace
func (a ConfigArtifact) ToCanonicalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ConfigVersion string          `json:"configVersion"`
		Values        json.RawMessage `json:"values"`
	}{a.ConfigVersion, canonicalValuesJSON(a.Values)})
}

// ToJSON serializes the artifact to indented JSON
func (a ConfigArtifact) ToJSON() ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// encoding/json writes map keys in sorted order
func canonicalValuesJSON(values map[string]any) []byte {
	if len(values) == 0 {
		return []byte("{}")
	}
	out, err := json.Marshal(values)
	if err != nil {
		// values only hold string, float64 and bool
		panic(err)
	}
	return out
}
