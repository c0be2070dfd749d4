package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the schema file looked up by LoadSchema
const DefaultFileName = "envguard.yaml"

// ruleEntry represents a single variable declaration in YAML.
// Default and OneOf stay raw so their tags can be checked against Type.
type ruleEntry struct {
	Type     string     `yaml:"type"`
	Required bool       `yaml:"required,omitempty"`
	Default  *yaml.Node `yaml:"default,omitempty"`
	OneOf    *yaml.Node `yaml:"oneOf,omitempty"`
	Secret   bool       `yaml:"secret,omitempty"`
}

var ruleFields = map[string]bool{
	"type":     true,
	"required": true,
	"default":  true,
	"oneOf":    true,
	"secret":   true,
}

// ParseSchema parses a YAML (or JSON) schema document.
// Variables keep the order they are declared in.
func ParseSchema(content []byte) (Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Schema{}, fmt.Errorf("invalid YAML: %w", err)
	}

	s := New()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return *s, nil
	}

	root := doc.Content[0]
	if root.ShortTag() == "!!null" {
		return *s, nil
	}
	if root.Kind != yaml.MappingNode {
		return Schema{}, fmt.Errorf("line %d: schema must be a mapping with an 'env' section", root.Line)
	}

	var env *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if key.Value != "env" {
			return Schema{}, fmt.Errorf("line %d: unknown top-level field '%s'", key.Line, key.Value)
		}
		if env != nil {
			return Schema{}, fmt.Errorf("line %d: %w 'env'", key.Line, ErrDuplicateSection)
		}
		env = root.Content[i+1]
	}
	if env == nil || env.ShortTag() == "!!null" {
		return *s, nil
	}
	if env.Kind != yaml.MappingNode {
		return Schema{}, fmt.Errorf("line %d: 'env' must be a mapping of variable names to rules", env.Line)
	}

	for i := 0; i+1 < len(env.Content); i += 2 {
		nameNode, ruleNode := env.Content[i], env.Content[i+1]

		rule, err := parseRule(ruleNode)
		if err != nil {
			return Schema{}, fmt.Errorf("variable '%s' (line %d): %w", nameNode.Value, nameNode.Line, err)
		}
		if err := s.Add(nameNode.Value, rule); err != nil {
			return Schema{}, fmt.Errorf("line %d: %w", nameNode.Line, err)
		}
	}

	return *s, nil
}

func parseRule(node *yaml.Node) (Rule, error) {
	if node.Kind != yaml.MappingNode {
		return Rule{}, fmt.Errorf("rule must be a mapping")
	}
	for i := 0; i < len(node.Content); i += 2 {
		if field := node.Content[i].Value; !ruleFields[field] {
			return Rule{}, fmt.Errorf("unknown field '%s'", field)
		}
	}

	var entry ruleEntry
	if err := node.Decode(&entry); err != nil {
		return Rule{}, err
	}

	kind := Kind(entry.Type)
	if !kind.Valid() {
		return Rule{}, fmt.Errorf("%w '%s' (must be string, number or boolean)", ErrUnknownKind, entry.Type)
	}

	rule := Rule{
		Kind:     kind,
		Required: entry.Required,
		Secret:   entry.Secret,
	}

	if entry.Default != nil && entry.Default.ShortTag() != "!!null" {
		v, err := scalarValue(kind, entry.Default)
		if err != nil {
			return Rule{}, fmt.Errorf("default: %w", err)
		}
		rule.Default = &v
	}

	if entry.OneOf != nil && entry.OneOf.ShortTag() != "!!null" {
		if entry.OneOf.Kind != yaml.SequenceNode {
			return Rule{}, fmt.Errorf("oneOf must be a list")
		}
		rule.OneOf = make([]Value, 0, len(entry.OneOf.Content))
		for i, item := range entry.OneOf.Content {
			v, err := scalarValue(kind, item)
			if err != nil {
				return Rule{}, fmt.Errorf("oneOf[%d]: %w", i, err)
			}
			rule.OneOf = append(rule.OneOf, v)
		}
	}

	return rule, nil
}

// scalarValue converts a YAML scalar into a Value of kind, using the node's tag
// so that `8080` is never silently accepted as a string.
func scalarValue(kind Kind, node *yaml.Node) (Value, error) {
	if node.Kind != yaml.ScalarNode {
		return Value{}, fmt.Errorf("%w: expected %s scalar", ErrKindMismatch, kind)
	}

	tag := node.ShortTag()
	switch kind {
	case KindString:
		if tag != "!!str" {
			return Value{}, fmt.Errorf("%w: expected string, got %s (quote the value)", ErrKindMismatch, node.Value)
		}
		return StringValue(node.Value), nil
	case KindNumber:
		if tag != "!!int" && tag != "!!float" {
			return Value{}, fmt.Errorf("%w: expected number, got %s", ErrKindMismatch, node.Value)
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return NumberValue(f), nil
	case KindBoolean:
		if tag != "!!bool" {
			return Value{}, fmt.Errorf("%w: expected boolean, got %s", ErrKindMismatch, node.Value)
		}
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	}
	return Value{}, fmt.Errorf("%w '%s'", ErrUnknownKind, kind)
}

// ToYAML serializes a Schema back to YAML bytes, keeping declaration order
func (s Schema) ToYAML() ([]byte, error) {
	env := &yaml.Node{Kind: yaml.MappingNode}

	for _, e := range s.entries {
		rule := &yaml.Node{Kind: yaml.MappingNode}
		addField(rule, "type", scalarNode(string(e.Rule.Kind)))
		if e.Rule.Required {
			addField(rule, "required", scalarNode(true))
		}
		if e.Rule.Default != nil {
			addField(rule, "default", scalarNode(e.Rule.Default.Interface()))
		}
		if e.Rule.OneOf != nil {
			seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, v := range e.Rule.OneOf {
				seq.Content = append(seq.Content, scalarNode(v.Interface()))
			}
			addField(rule, "oneOf", seq)
		}
		if e.Rule.Secret {
			addField(rule, "secret", scalarNode(true))
		}
		addField(env, e.Name, rule)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	addField(doc, "env", env)
	return yaml.Marshal(doc)
}

func addField(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func scalarNode(v any) *yaml.Node {
	var n yaml.Node
	// Encoding a plain scalar cannot fail
	_ = n.Encode(v)
	return &n
}

// LoadSchema reads and parses envguard.yaml from the given directory
func LoadSchema(dir string) (Schema, error) {
	path := filepath.Join(dir, DefaultFileName)
	return LoadSchemaFromPath(path)
}

// LoadSchemaFromPath reads and parses a schema from the given file path
func LoadSchemaFromPath(path string) (Schema, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Schema{}, err
		}
		return Schema{}, fmt.Errorf("failed to read schema: %w", err)
	}

	return ParseSchema(content)
}
