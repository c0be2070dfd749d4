package validator

import (
	"strings"
	"testing"

	"github.com/binary0zero/env-guard/internal/schema"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property 9: Missing Required Error Message
// For any missing required variable, the error message SHALL name the variable.
func TestFormatError_MissingRequired_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("missing required error follows format", prop.ForAll(
		func(key string) bool {
			err := ValidationError{Kind: MissingRequired, Key: key, Expected: schema.KindString}

			// Expected format: "{key}: required but not set"
			return FormatError(err) == key+": required but not set"
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
	))

	properties.TestingRun(t)
}

// Property 10: Type Mismatch Error Message
// For any rejected raw value, the error message SHALL contain the variable,
// the expected kind and the raw value.
func TestFormatError_TypeMismatch_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("type mismatch error contains key, kind and raw value", prop.ForAll(
		func(key, raw string) bool {
			err := ValidationError{Kind: TypeMismatch, Key: key, Expected: schema.KindNumber, Raw: raw}
			formatted := FormatError(err)

			return strings.HasPrefix(formatted, key+": expected number, got ") &&
				strings.Contains(formatted, raw)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
	))

	properties.TestingRun(t)
}

// Property 11: Not Allowed Error Message
// For any value outside oneOf, the error message SHALL contain the value and
// every allowed value.
func TestFormatError_NotAllowed_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("not allowed error contains value and allowed list", prop.ForAll(
		func(key, invalidValue string, allowed []string) bool {
			values := make([]schema.Value, len(allowed))
			for i, a := range allowed {
				values[i] = schema.StringValue(a)
			}
			actual := schema.StringValue(invalidValue)

			err := ValidationError{
				Kind:     NotAllowed,
				Key:      key,
				Expected: schema.KindString,
				Raw:      invalidValue,
				Actual:   &actual,
				Allowed:  values,
			}

			formatted := FormatError(err)

			// Expected format: "{key}: "{value}" is not allowed, must be one of: {allowed}"
			expectedPrefix := key + `: "` + invalidValue + `" is not allowed, must be one of: `
			if !strings.HasPrefix(formatted, expectedPrefix) {
				return false
			}
			for _, v := range allowed {
				if !strings.Contains(formatted, v) {
					return false
				}
			}
			return true
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
		gen.SliceOfN(3, gen.AlphaString()).SuchThat(func(s []string) bool {
			for _, v := range s {
				if v == "" {
					return false
				}
			}
			return len(s) > 0
		}),
	))

	properties.TestingRun(t)
}

func TestFormatError_NotAllowedRendersCoercedValue(t *testing.T) {
	actual := schema.NumberValue(5)
	err := ValidationError{
		Kind:     NotAllowed,
		Key:      "LEVEL",
		Expected: schema.KindNumber,
		Raw:      "5.0",
		Actual:   &actual,
		Allowed:  []schema.Value{schema.NumberValue(1), schema.NumberValue(2.5)},
	}

	want := `LEVEL: "5" is not allowed, must be one of: 1, 2.5`
	if got := FormatError(err); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestValidationErrors_SingleErrorMessage(t *testing.T) {
	errs := ValidationErrors{{Kind: MissingRequired, Key: "PORT"}}
	if errs.Error() != "PORT: required but not set" {
		t.Errorf("unexpected message: %s", errs.Error())
	}
}
