package validator

import "github.com/binary0zero/env-guard/internal/schema"

// Config is the validated, type-coerced configuration.
// It is read-only; keys keep schema declaration order.
type Config struct {
	keys   []string
	values map[string]schema.Value
}

// Get returns the validated value for key
func (c Config) Get(key string) (schema.Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns a string-kinded value
func (c Config) String(key string) (string, bool) {
	v, ok := c.values[key]
	if !ok || v.Kind() != schema.KindString {
		return "", false
	}
	return v.Text(), true
}

// Number returns a number-kinded value
func (c Config) Number(key string) (float64, bool) {
	v, ok := c.values[key]
	if !ok || v.Kind() != schema.KindNumber {
		return 0, false
	}
	return v.Float(), true
}

// Bool returns a boolean-kinded value
func (c Config) Bool(key string) (bool, bool) {
	v, ok := c.values[key]
	if !ok || v.Kind() != schema.KindBoolean {
		return false, false
	}
	return v.Bool(), true
}

// Keys returns the keys present in the config, in declaration order
func (c Config) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

func (c Config) Len() int {
	return len(c.keys)
}

// Map returns the config as plain Go values (string, float64, bool)
func (c Config) Map() map[string]any {
	m := make(map[string]any, len(c.keys))
	for _, k := range c.keys {
		m[k] = c.values[k].Interface()
	}
	return m
}

// Strings returns every value rendered as an environment string
func (c Config) Strings() map[string]string {
	m := make(map[string]string, len(c.keys))
	for _, k := range c.keys {
		m[k] = c.values[k].String()
	}
	return m
}
