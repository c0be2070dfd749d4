package injector

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binary0zero/env-guard/internal/artifact"
	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"
	"github.com/binary0zero/env-guard/internal/validator"
)

func genConfigArtifact() gopter.Gen {
	return gen.MapOf(gen.Identifier(), gen.AlphaString()).Map(func(raw map[string]string) artifact.ConfigArtifact {
		values := make(map[string]any, len(raw))
		for k, v := range raw {
			values[k] = v
		}
		return artifact.ConfigArtifact{
			ConfigVersion: artifact.ComputeConfigVersion(values),
			Values:        values,
		}
	})
}

func genEnviron() gopter.Gen {
	return gen.SliceOf(
		gopter.CombineGens(
			gen.Identifier(),
			gen.AlphaString(),
		).Map(func(vals []interface{}) string {
			return vals[0].(string) + "=" + vals[1].(string)
		}),
	)
}

// Property 5: Injected Environment Contains Artifact
// Injecting an artifact SHALL yield exactly one entry for the variable, holding
// the artifact JSON.
func TestInjectedEnvironmentContainsArtifact_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("injected value is the artifact", prop.ForAll(
		func(art artifact.ConfigArtifact, environ []string, varName string) bool {
			result, err := InjectEnv(art, environ, varName)
			if err != nil {
				return false
			}

			prefix := varName + "="
			count := 0
			var parsed artifact.ConfigArtifact
			for _, env := range result {
				if strings.HasPrefix(env, prefix) {
					count++
					if err := json.Unmarshal([]byte(strings.TrimPrefix(env, prefix)), &parsed); err != nil {
						return false
					}
				}
			}
			return count == 1 && parsed.ConfigVersion == art.ConfigVersion
		},
		genConfigArtifact(),
		genEnviron(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// Property 6: Environment Preservation with Injection
// All entries for other variables SHALL be preserved.
func TestEnvironmentPreservation_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("original env vars are preserved", prop.ForAll(
		func(art artifact.ConfigArtifact, environ []string, varName string) bool {
			result, err := InjectEnv(art, environ, varName)
			if err != nil {
				return false
			}

			prefix := varName + "="
			existing := 0
			resultSet := make(map[string]bool)
			for _, env := range result {
				resultSet[env] = true
			}
			for _, env := range environ {
				if strings.HasPrefix(env, prefix) {
					existing++
					continue
				}
				if !resultSet[env] {
					return false
				}
			}
			return len(result) == len(environ)-existing+1
		},
		genConfigArtifact(),
		genEnviron(),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

func TestInjectEnv_EmptyName(t *testing.T) {
	_, err := InjectEnv(artifact.ConfigArtifact{}, nil, "")
	assert.ErrorIs(t, err, ErrEmptyVarName)
}

func TestApplyDefaults(t *testing.T) {
	s, err := schema.ParseSchema([]byte(`env:
  PORT:
    type: number
    default: 3000
  DEBUG:
    type: boolean
    default: false
  HOST:
    type: string
    default: localhost
  NAME:
    type: string
`))
	require.NoError(t, err)

	environ := []string{"PATH=/bin", "PORT=", "HOST=db"}
	result := validator.Validate(s, resolver.FromEnviron(environ))
	require.True(t, result.Valid)

	out := ApplyDefaults(result, environ)

	assert.ElementsMatch(t, []string{"PATH=/bin", "HOST=db", "PORT=3000", "DEBUG=false"}, out)
	// input is untouched
	assert.Equal(t, []string{"PATH=/bin", "PORT=", "HOST=db"}, environ)
}
