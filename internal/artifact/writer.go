package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteToFile writes the artifact to path, creating parent directories if needed.
func (a ConfigArtifact) WriteToFile(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	jsonBytes, err := a.ToJSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonBytes, 0644)
}

// ReadFromFile loads an artifact previously written with WriteToFile.
func ReadFromFile(path string) (ConfigArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigArtifact{}, err
	}

	var a ConfigArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return ConfigArtifact{}, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	if a.Values == nil {
		a.Values = map[string]any{}
	}
	return a, nil
}
