package schema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind is the declared type of an environment variable
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean:
		return true
	}
	return false
}

// Schema construction errors. Check errors wrap one of these.
var (
	ErrUnknownKind       = errors.New("unknown type")
	ErrKindMismatch      = errors.New("value does not match declared type")
	ErrEmptyOneOf        = errors.New("oneOf must not be empty")
	ErrDuplicateOneOf    = errors.New("duplicate oneOf value")
	ErrDefaultNotAllowed = errors.New("default is not one of the allowed values")
	ErrNonFinite         = errors.New("number must be finite")
	ErrDuplicateKey      = errors.New("duplicate variable name")
	ErrEmptyName         = errors.New("variable name must not be empty")
	ErrDuplicateSection  = errors.New("duplicate top-level section")
)

// Value is a typed value of one Kind.
// The zero Value has no kind and is never produced by the validator.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
}

// StringValue returns a string-kinded Value
func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

// NumberValue returns a number-kinded Value
func NumberValue(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// BoolValue returns a boolean-kinded Value
func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Text() string   { return v.text }
func (v Value) Float() float64 { return v.num }
func (v Value) Bool() bool     { return v.b }

// IsZero reports whether v carries no kind
func (v Value) IsZero() bool {
	return v.kind == ""
}

// Interface returns the value as string, float64 or bool.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	}
	return nil
}

// String renders the value the way it would be written in an environment variable.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Equal compares kind and value
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.text == o.text
	case KindNumber:
		return v.num == o.num
	case KindBoolean:
		return v.b == o.b
	}
	return true
}

// Rule is the validation rule for a single variable
type Rule struct {
	Kind     Kind
	Required bool
	Default  *Value  // used when the variable is absent
	OneOf    []Value // nil means any value of Kind is allowed
	Secret   bool    // mask the value when reporting
}

// Check validates the rule itself, independent of any environment.
func (r Rule) Check() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w '%s'", ErrUnknownKind, r.Kind)
	}

	if r.Default != nil {
		if err := r.checkValue(*r.Default); err != nil {
			return fmt.Errorf("default: %w", err)
		}
	}

	if r.OneOf != nil {
		if len(r.OneOf) == 0 {
			return ErrEmptyOneOf
		}
		for i, v := range r.OneOf {
			if err := r.checkValue(v); err != nil {
				return fmt.Errorf("oneOf[%d]: %w", i, err)
			}
			for _, prev := range r.OneOf[:i] {
				if prev.Equal(v) {
					return fmt.Errorf("%w: %s", ErrDuplicateOneOf, v)
				}
			}
		}
		if r.Default != nil && !r.Allows(*r.Default) {
			return fmt.Errorf("%w: %s", ErrDefaultNotAllowed, r.Default)
		}
	}

	return nil
}

// Allows reports whether v satisfies the rule's oneOf constraint
func (r Rule) Allows(v Value) bool {
	if r.OneOf == nil {
		return true
	}
	for _, allowed := range r.OneOf {
		if allowed.Equal(v) {
			return true
		}
	}
	return false
}

func (r Rule) checkValue(v Value) error {
	if v.kind != r.Kind {
		return fmt.Errorf("%w: expected %s, got %s", ErrKindMismatch, r.Kind, describeKind(v.kind))
	}
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return ErrNonFinite
	}
	return nil
}

func describeKind(k Kind) string {
	if k == "" {
		return "no value"
	}
	return string(k)
}

// Entry is a named rule
type Entry struct {
	Name string
	Rule Rule
}

// Schema is an ordered set of variable rules.
// Declaration order is the order variables are evaluated and reported in.
type Schema struct {
	entries []Entry
	index   map[string]int
}

// New returns an empty schema
func New() *Schema {
	return &Schema{index: make(map[string]int)}
}

// Add appends a rule for name after checking it.
func (s *Schema) Add(name string, rule Rule) error {
	if name == "" {
		return ErrEmptyName
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, exists := s.index[name]; exists {
		return fmt.Errorf("%w: '%s'", ErrDuplicateKey, name)
	}
	if err := rule.Check(); err != nil {
		return fmt.Errorf("variable '%s': %w", name, err)
	}

	if rule.OneOf != nil {
		rule.OneOf = append([]Value(nil), rule.OneOf...)
	}
	if rule.Default != nil {
		d := *rule.Default
		rule.Default = &d
	}

	s.index[name] = len(s.entries)
	s.entries = append(s.entries, Entry{Name: name, Rule: rule})
	return nil
}

// MustAdd is like Add but panics on an invalid rule. Meant for schemas declared in code.
func (s *Schema) MustAdd(name string, rule Rule) *Schema {
	if err := s.Add(name, rule); err != nil {
		panic(err)
	}
	return s
}

// Entries returns the rules in declaration order
func (s Schema) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Names returns variable names in declaration order
func (s Schema) Names() []string {
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of variables
func (s Schema) Len() int {
	return len(s.entries)
}

// Lookup returns the rule declared for name
func (s Schema) Lookup(name string) (Rule, bool) {
	i, ok := s.index[name]
	if !ok {
		return Rule{}, false
	}
	return s.entries[i].Rule, true
}
