package envguard

import (
	"errors"
	"fmt"
	"os"

	"github.com/binary0zero/env-guard/internal/dotenv"
	"github.com/binary0zero/env-guard/internal/resolver"
	"github.com/binary0zero/env-guard/internal/schema"
	"github.com/binary0zero/env-guard/internal/validator"
)

type (
	Schema           = schema.Schema
	Rule             = schema.Rule
	Kind             = schema.Kind
	Value            = schema.Value
	Environment      = resolver.Environment
	Config           = validator.Config
	Result           = validator.Result
	ValidationError  = validator.ValidationError
	ValidationErrors = validator.ValidationErrors
)

const (
	KindString  = schema.KindString
	KindNumber  = schema.KindNumber
	KindBoolean = schema.KindBoolean
)

var (
	ErrMissingRequired = validator.ErrMissingRequired
	ErrTypeMismatch    = validator.ErrTypeMismatch
	ErrNotAllowed      = validator.ErrNotAllowed
	ErrEnvFileNotFound = dotenv.ErrNotFound
)

// DefaultSchemaFile is read by Load when no schema is given
const DefaultSchemaFile = schema.DefaultFileName

// ParseSchema parses a YAML or JSON schema document
func ParseSchema(data []byte) (Schema, error) {
	return schema.ParseSchema(data)
}

// NewSchema returns an empty schema for building rules in code
func NewSchema() *Schema {
	return schema.New()
}

// Validate checks env against s and returns every per-variable outcome
func Validate(s Schema, env Environment) Result {
	return validator.Validate(s, env)
}

// Check validates env against s. It returns the typed Config when every
// variable passes, otherwise ValidationErrors listing all failures.
func Check(s Schema, env Environment) (Config, error) {
	result := validator.Validate(s, env)
	if err := result.Err(); err != nil {
		return Config{}, err
	}
	return result.Config, nil
}

// Option configures Load.
type Option func(*options)

type options struct {
	schema     *Schema
	schemaFile string
	envFiles   []string
	environ    []string
	override   bool
}

// WithSchema validates against s instead of reading a schema file.
func WithSchema(s Schema) Option {
	return func(o *options) {
		o.schema = &s
	}
}

// WithSchemaFile sets the schema path (default: envguard.yaml).
func WithSchemaFile(path string) Option {
	return func(o *options) {
		o.schemaFile = path
	}
}

// WithEnvFiles layers dotenv files over the environment.
// Variables already set in the environment win unless WithOverride is given.
func WithEnvFiles(paths ...string) Option {
	return func(o *options) {
		o.envFiles = append(o.envFiles, paths...)
	}
}

// WithOverride lets env file values replace variables already set.
func WithOverride() Option {
	return func(o *options) {
		o.override = true
	}
}

// WithEnviron validates the given KEY=VALUE entries instead of os.Environ().
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// Load reads the schema, assembles the environment and validates it.
func Load(opts ...Option) (Config, error) {
	o := options{schemaFile: DefaultSchemaFile}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := o.loadSchema()
	if err != nil {
		return Config{}, err
	}

	environ := o.environ
	if environ == nil {
		environ = os.Environ()
	}
	env := resolver.FromEnviron(environ)

	if len(o.envFiles) > 0 {
		fileEnv, err := dotenv.Read(o.envFiles...)
		if err != nil {
			return Config{}, err
		}
		env = dotenv.Merge(env, fileEnv, o.override).Env
	}

	return Check(s, env)
}

// MustLoad is like Load but panics on error.
func MustLoad(opts ...Option) Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (o options) loadSchema() (Schema, error) {
	if o.schema != nil {
		return *o.schema, nil
	}
	s, err := schema.LoadSchemaFromPath(o.schemaFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Schema{}, fmt.Errorf("schema file not found: %s: %w", o.schemaFile, err)
		}
		return Schema{}, err
	}
	return s, nil
}
