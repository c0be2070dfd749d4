package schema

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// ruleRecord is the plain-map form of a rule: {type, required, default, oneOf, secret}
type ruleRecord struct {
	Type     string `mapstructure:"type"`
	Required bool   `mapstructure:"required"`
	Default  any    `mapstructure:"default"`
	OneOf    []any  `mapstructure:"oneOf"`
	Secret   bool   `mapstructure:"secret"`
}

// FromMap builds a schema from plain Go maps, e.g. a decoded JSON object.
// Go maps are unordered, so variables are added in sorted name order.
func FromMap(decl map[string]map[string]any) (Schema, error) {
	names := make([]string, 0, len(decl))
	for name := range decl {
		names = append(names, name)
	}
	sort.Strings(names)

	s := New()
	for _, name := range names {
		rule, err := decodeRule(decl[name])
		if err != nil {
			return Schema{}, fmt.Errorf("variable '%s': %w", name, err)
		}
		if err := s.Add(name, rule); err != nil {
			return Schema{}, err
		}
	}
	return *s, nil
}

func decodeRule(raw map[string]any) (Rule, error) {
	var rec ruleRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &rec,
	})
	if err != nil {
		return Rule{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Rule{}, err
	}

	rule := Rule{
		Kind:     Kind(rec.Type),
		Required: rec.Required,
		Secret:   rec.Secret,
	}
	if !rule.Kind.Valid() {
		return Rule{}, fmt.Errorf("%w '%s' (must be string, number or boolean)", ErrUnknownKind, rec.Type)
	}

	if rec.Default != nil {
		v, err := goValue(rule.Kind, rec.Default)
		if err != nil {
			return Rule{}, fmt.Errorf("default: %w", err)
		}
		rule.Default = &v
	}

	if _, ok := raw["oneOf"]; ok {
		rule.OneOf = make([]Value, 0, len(rec.OneOf))
		for i, item := range rec.OneOf {
			v, err := goValue(rule.Kind, item)
			if err != nil {
				return Rule{}, fmt.Errorf("oneOf[%d]: %w", i, err)
			}
			rule.OneOf = append(rule.OneOf, v)
		}
	}

	return rule, nil
}

// goValue converts a native Go value into a Value of kind without any string parsing.
func goValue(kind Kind, raw any) (Value, error) {
	switch kind {
	case KindString:
		if s, ok := raw.(string); ok {
			return StringValue(s), nil
		}
	case KindNumber:
		switch n := raw.(type) {
		case float64:
			return NumberValue(n), nil
		case float32:
			return NumberValue(float64(n)), nil
		case int:
			return NumberValue(float64(n)), nil
		case int8:
			return NumberValue(float64(n)), nil
		case int16:
			return NumberValue(float64(n)), nil
		case int32:
			return NumberValue(float64(n)), nil
		case int64:
			return NumberValue(float64(n)), nil
		case uint:
			return NumberValue(float64(n)), nil
		case uint8:
			return NumberValue(float64(n)), nil
		case uint16:
			return NumberValue(float64(n)), nil
		case uint32:
			return NumberValue(float64(n)), nil
		case uint64:
			return NumberValue(float64(n)), nil
		}
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return BoolValue(b), nil
		}
	}
	return Value{}, fmt.Errorf("%w: expected %s, got %T", ErrKindMismatch, kind, raw)
}
