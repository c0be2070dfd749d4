package validator

import (
	"sync"
	"testing"

	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, content string) schema.Schema {
	t.Helper()
	s, err := schema.ParseSchema([]byte(content))
	require.NoError(t, err)
	return s
}

func TestScenario_RequiredNumberPresent(t *testing.T) {
	s := mustParse(t, "env:\n  PORT:\n    type: number\n    required: true\n")

	result := Validate(s, resolver.Environment{"PORT": "3000"})

	require.True(t, result.Valid)
	assert.NoError(t, result.Err())
	assert.Equal(t, map[string]any{"PORT": 3000.0}, result.Config.Map())
}

func TestScenario_RequiredNumberMissing(t *testing.T) {
	s := mustParse(t, "env:\n  PORT:\n    type: number\n    required: true\n")

	result := Validate(s, resolver.Environment{})

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, MissingRequired, result.Errors[0].Kind)
	assert.Equal(t, "PORT", result.Errors[0].Key)
	assert.Equal(t, 0, result.Config.Len())
}

func TestScenario_StringNotAllowed(t *testing.T) {
	s := mustParse(t, `env:
  NODE_ENV:
    type: string
    required: true
    oneOf: [development, production, test]
`)

	result := Validate(s, resolver.Environment{"NODE_ENV": "staging"})

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	err := result.Errors[0]
	assert.Equal(t, NotAllowed, err.Kind)
	assert.Equal(t, "NODE_ENV", err.Key)
	assert.Equal(t, "staging", err.Raw)
	require.NotNil(t, err.Actual)
	assert.Equal(t, "staging", err.Actual.Text())
	assert.Equal(t, "development, production, test", JoinValues(err.Allowed))
	assert.Equal(t, `NODE_ENV: "staging" is not allowed, must be one of: development, production, test`, FormatError(err))
}

func TestScenario_BooleanDefault(t *testing.T) {
	s := mustParse(t, "env:\n  DEBUG:\n    type: boolean\n    default: false\n")

	result := Validate(s, resolver.Environment{})

	require.True(t, result.Valid)
	debug, ok := result.Config.Bool("DEBUG")
	require.True(t, ok)
	assert.False(t, debug)
	assert.True(t, result.Outcomes[0].FromDefault)
}

func TestScenario_TwoFailuresInDeclarationOrder(t *testing.T) {
	s := mustParse(t, `env:
  PORT:
    type: number
    required: true
  HOST:
    type: string
  NODE_ENV:
    type: string
    oneOf: [development, production]
`)

	result := Validate(s, resolver.Environment{"PORT": "eighty", "NODE_ENV": "staging"})

	require.False(t, result.Valid)
	assert.Equal(t, []string{
		`PORT: expected number, got "eighty"`,
		`NODE_ENV: "staging" is not allowed, must be one of: development, production`,
	}, FormatErrors(result))
	assert.Contains(t, result.Err().Error(), "2 environment variables are invalid")
}

func TestValidate_OptionalAbsentIsOmitted(t *testing.T) {
	s := mustParse(t, "env:\n  HOST:\n    type: string\n  PORT:\n    type: number\n    default: 8080\n")

	result := Validate(s, resolver.Environment{})

	require.True(t, result.Valid)
	_, ok := result.Config.Get("HOST")
	assert.False(t, ok)
	assert.Equal(t, []string{"PORT"}, result.Config.Keys())

	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, Accepted, result.Outcomes[0].Status)
	assert.True(t, result.Outcomes[0].Omitted)
	assert.True(t, result.Outcomes[0].Value.IsZero())
}

func TestValidate_RequiredWithDefault(t *testing.T) {
	s := mustParse(t, "env:\n  PORT:\n    type: number\n    required: true\n    default: 3000\n")

	for _, env := range []resolver.Environment{{}, {"PORT": ""}} {
		result := Validate(s, env)
		require.True(t, result.Valid)
		port, _ := result.Config.Number("PORT")
		assert.Equal(t, 3000.0, port)
	}

	result := Validate(s, resolver.Environment{"PORT": "4000"})
	port, _ := result.Config.Number("PORT")
	assert.Equal(t, 4000.0, port)
	assert.False(t, result.Outcomes[0].FromDefault)
}

func TestValidate_NumberOneOfPostCoercion(t *testing.T) {
	s := mustParse(t, "env:\n  LEVEL:\n    type: number\n    oneOf: [1, 2, 3]\n")

	result := Validate(s, resolver.Environment{"LEVEL": "2"})
	require.True(t, result.Valid)
	level, _ := result.Config.Number("LEVEL")
	assert.Equal(t, 2.0, level)
}

func TestValidate_BooleanOneOf(t *testing.T) {
	s := mustParse(t, "env:\n  STRICT:\n    type: boolean\n    oneOf: [true]\n")

	assert.True(t, Validate(s, resolver.Environment{"STRICT": "1"}).Valid)

	// "yes" coerces to false, which is then not allowed
	result := Validate(s, resolver.Environment{"STRICT": "yes"})
	require.False(t, result.Valid)
	assert.Equal(t, NotAllowed, result.Errors[0].Kind)
	assert.Equal(t, `STRICT: "false" is not allowed, must be one of: true`, FormatError(result.Errors[0]))
}

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		kind schema.Kind
		raw  string
		want schema.Value
		ok   bool
	}{
		{"string identity", schema.KindString, "  spaced  ", schema.StringValue("  spaced  "), true},
		{"integer", schema.KindNumber, "3000", schema.NumberValue(3000), true},
		{"decimal", schema.KindNumber, "12.5", schema.NumberValue(12.5), true},
		{"negative", schema.KindNumber, "-7", schema.NumberValue(-7), true},
		{"exponent", schema.KindNumber, "1e3", schema.NumberValue(1000), true},
		{"leading dot", schema.KindNumber, ".5", schema.NumberValue(0.5), true},
		{"surrounding spaces", schema.KindNumber, " 42 ", schema.NumberValue(42), true},
		{"hex", schema.KindNumber, "0x1f", schema.NumberValue(31), true},
		{"binary", schema.KindNumber, "0b101", schema.NumberValue(5), true},
		{"octal", schema.KindNumber, "0o17", schema.NumberValue(15), true},
		{"negative hex", schema.KindNumber, "-0x1f", schema.NumberValue(-31), true},
		{"hex beyond int64", schema.KindNumber, "0xFFFFFFFFFFFFFFFFFF", schema.NumberValue(4722366482869645213695), true},
		{"digit separators", schema.KindNumber, "1_000", schema.Value{}, false},
		{"prefixed digit separators", schema.KindNumber, "0x_1f", schema.Value{}, false},
		{"text", schema.KindNumber, "abc", schema.Value{}, false},
		{"trailing text", schema.KindNumber, "12px", schema.Value{}, false},
		{"blank", schema.KindNumber, "   ", schema.Value{}, false},
		{"NaN", schema.KindNumber, "NaN", schema.Value{}, false},
		{"Infinity", schema.KindNumber, "Infinity", schema.Value{}, false},
		{"overflow", schema.KindNumber, "1e400", schema.Value{}, false},
		{"true", schema.KindBoolean, "true", schema.BoolValue(true), true},
		{"one", schema.KindBoolean, "1", schema.BoolValue(true), true},
		{"false", schema.KindBoolean, "false", schema.BoolValue(false), true},
		{"zero", schema.KindBoolean, "0", schema.BoolValue(false), true},
		{"yes", schema.KindBoolean, "yes", schema.BoolValue(false), true},
		{"uppercase TRUE", schema.KindBoolean, "TRUE", schema.BoolValue(false), true},
		{"unknown kind", schema.Kind("date"), "2024-01-01", schema.Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Coerce(tt.kind, tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_TypedAccessors(t *testing.T) {
	s := mustParse(t, `env:
  HOST:
    type: string
  PORT:
    type: number
  DEBUG:
    type: boolean
`)
	result := Validate(s, resolver.Environment{"HOST": "localhost", "PORT": "80", "DEBUG": "1"})
	require.True(t, result.Valid)

	cfg := result.Config
	host, ok := cfg.String("HOST")
	assert.True(t, ok)
	assert.Equal(t, "localhost", host)

	_, ok = cfg.String("PORT")
	assert.False(t, ok, "PORT is a number")

	_, ok = cfg.Number("MISSING")
	assert.False(t, ok)

	debug, ok := cfg.Bool("DEBUG")
	assert.True(t, ok)
	assert.True(t, debug)

	assert.Equal(t, map[string]string{"HOST": "localhost", "PORT": "80", "DEBUG": "true"}, cfg.Strings())

	keys := cfg.Keys()
	keys[0] = "MUTATED"
	assert.Equal(t, []string{"HOST", "PORT", "DEBUG"}, cfg.Keys())
}

func TestValidate_ConcurrentCalls(t *testing.T) {
	s := mustParse(t, "env:\n  PORT:\n    type: number\n    required: true\n")
	env := resolver.Environment{"PORT": "3000"}
	want := Validate(s, env)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Validate(s, env)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
