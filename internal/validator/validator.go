package validator

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"
)

// Status is the terminal state of one variable
type Status string

const (
	Accepted Status = "accepted"
	Rejected Status = "rejected"
)

// Outcome is the evaluation result for a single schema variable
type Outcome struct {
	Key         string
	Status      Status
	Value       schema.Value     // Accepted only; zero when Omitted
	Omitted     bool             // Optional, absent, no default: left out of Config
	FromDefault bool             // Value came from the rule default
	Raw         string           // Raw environment value, empty when absent
	Secret      bool             // Rule asks for the value to be masked
	Err         *ValidationError // Rejected only
}

// Result contains all validation outcomes
type Result struct {
	Valid    bool
	Config   Config
	Outcomes []Outcome
	Errors   []ValidationError
}

// Err returns nil for a valid result, otherwise ValidationErrors
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return ValidationErrors(r.Errors)
}

// Validate checks every schema variable against the environment.
// It collects all errors rather than stopping at the first one, and
// never touches process state: the environment is an explicit argument.
func Validate(s schema.Schema, env resolver.Environment) Result {
	entries := s.Entries()

	result := Result{
		Outcomes: make([]Outcome, 0, len(entries)),
	}
	values := make(map[string]schema.Value, len(entries))
	var keys []string

	for _, rv := range resolver.Resolve(s, env) {
		rule, _ := s.Lookup(rv.Key)
		outcome := evaluate(rv, rule)

		result.Outcomes = append(result.Outcomes, outcome)
		switch {
		case outcome.Status == Rejected:
			result.Errors = append(result.Errors, *outcome.Err)
		case !outcome.Omitted:
			keys = append(keys, outcome.Key)
			values[outcome.Key] = outcome.Value
		}
	}

	result.Valid = len(result.Errors) == 0
	if result.Valid {
		result.Config = Config{keys: keys, values: values}
	}

	return result
}

// evaluate applies presence, default, coercion and oneOf rules in that order
func evaluate(rv resolver.ResolvedValue, rule schema.Rule) Outcome {
	outcome := Outcome{Key: rv.Key, Raw: rv.Value, Secret: rule.Secret}

	var value schema.Value
	if !rv.Present {
		switch {
		case rule.Default != nil:
			value = *rule.Default
			outcome.FromDefault = true
		case rule.Required:
			return reject(outcome, ValidationError{
				Kind:     MissingRequired,
				Key:      rv.Key,
				Expected: rule.Kind,
			})
		default:
			outcome.Status = Accepted
			outcome.Omitted = true
			return outcome
		}
	} else {
		coerced, ok := Coerce(rule.Kind, rv.Value)
		if !ok {
			return reject(outcome, ValidationError{
				Kind:     TypeMismatch,
				Key:      rv.Key,
				Expected: rule.Kind,
				Raw:      rv.Value,
			})
		}
		value = coerced
	}

	if !rule.Allows(value) {
		actual := value
		return reject(outcome, ValidationError{
			Kind:     NotAllowed,
			Key:      rv.Key,
			Expected: rule.Kind,
			Raw:      rv.Value,
			Actual:   &actual,
			Allowed:  rule.OneOf,
		})
	}

	outcome.Status = Accepted
	outcome.Value = value
	return outcome
}

func reject(outcome Outcome, err ValidationError) Outcome {
	outcome.Status = Rejected
	outcome.Err = &err
	return outcome
}

// Coerce converts a raw environment string into a value of kind.
// Only number coercion can fail; booleans treat anything but "true" and "1" as false.
func Coerce(kind schema.Kind, raw string) (schema.Value, bool) {
	switch kind {
	case schema.KindString:
		return schema.StringValue(raw), true
	case schema.KindNumber:
		f, ok := parseNumber(raw)
		if !ok {
			return schema.Value{}, false
		}
		return schema.NumberValue(f), true
	case schema.KindBoolean:
		return schema.BoolValue(raw == "true" || raw == "1"), true
	}
	return schema.Value{}, false
}

// parseNumber accepts decimal and exponent literals, plus 0x/0o/0b integers
// of any size. Digit separators, NaN and infinities are rejected.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.Contains(s, "_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return 0, false
		}
		f, _ = new(big.Float).SetInt(n).Float64()
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
