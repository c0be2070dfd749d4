// Package injector prepares the environment handed to a guarded command.
package injector

import (
	"errors"
	"strings"

	"github.com/binary0zero/env-guard/internal/artifact"
	"github.com/binary0zero/env-guard/internal/validator"
)

// ErrEmptyVarName is returned when the artifact variable name is empty.
var ErrEmptyVarName = errors.New("inject variable name must not be empty")

// InjectEnv adds the artifact's canonical JSON to environ under varName.
// Any existing entry for varName is replaced; other entries keep their order.
func InjectEnv(art artifact.ConfigArtifact, environ []string, varName string) ([]string, error) {
	if varName == "" {
		return nil, ErrEmptyVarName
	}

	jsonBytes, err := art.ToCanonicalJSON()
	if err != nil {
		return nil, err
	}

	return setEnv(environ, varName, string(jsonBytes)), nil
}

// ApplyDefaults exports every value the validator filled from a schema
// default, so the launched command sees the configuration that was checked.
// Values taken from the environment are left as they are.
func ApplyDefaults(result validator.Result, environ []string) []string {
	out := environ
	for _, o := range result.Outcomes {
		if o.Status != validator.Accepted || !o.FromDefault {
			continue
		}
		out = setEnv(out, o.Key, o.Value.String())
	}
	return out
}

// setEnv returns a copy of environ with name set to value
func setEnv(environ []string, name, value string) []string {
	result := make([]string, 0, len(environ)+1)
	prefix := name + "="
	for _, env := range environ {
		if !strings.HasPrefix(env, prefix) {
			result = append(result, env)
		}
	}
	return append(result, prefix+value)
}
