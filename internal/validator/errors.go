package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/binary0zero/env-guard/internal/schema"
)

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	MissingRequired ErrorKind = "MissingRequired"
	TypeMismatch    ErrorKind = "TypeMismatch"
	NotAllowed      ErrorKind = "NotAllowed"
)

// Sentinels matched by errors.Is against a ValidationError of the same kind.
var (
	ErrMissingRequired = errors.New("required but not set")
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrNotAllowed      = errors.New("value not allowed")
)

// ValidationError represents a single rejected variable
type ValidationError struct {
	Kind     ErrorKind
	Key      string         // The variable name (e.g., "PORT")
	Expected schema.Kind    // Declared kind
	Raw      string         // The raw value, empty for MissingRequired
	Actual   *schema.Value  // Coerced value, NotAllowed only
	Allowed  []schema.Value // NotAllowed only
}

func (e ValidationError) Error() string {
	return FormatError(e)
}

// Is makes errors.Is(err, ErrMissingRequired) and friends work
func (e ValidationError) Is(target error) bool {
	switch e.Kind {
	case MissingRequired:
		return target == ErrMissingRequired
	case TypeMismatch:
		return target == ErrTypeMismatch
	case NotAllowed:
		return target == ErrNotAllowed
	}
	return false
}

// ValidationErrors is every rejection of one Validate call, in schema order.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = FormatError(err)
	}
	return fmt.Sprintf("%d environment variables are invalid: %s", len(errs), strings.Join(msgs, "; "))
}

// Unwrap exposes each ValidationError to errors.Is and errors.As
func (errs ValidationErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = err
	}
	return out
}

// FormatError formats a ValidationError into a human-readable error message.
func FormatError(err ValidationError) string {
	switch err.Kind {
	case MissingRequired:
		// Format: "{key}: required but not set"
		return fmt.Sprintf("%s: required but not set", err.Key)
	case TypeMismatch:
		// Format: "{key}: expected {kind}, got "{raw}""
		return fmt.Sprintf("%s: expected %s, got %q", err.Key, err.Expected, err.Raw)
	case NotAllowed:
		// Format: "{key}: "{value}" is not allowed, must be one of: {allowed}"
		actual := err.Raw
		if err.Actual != nil {
			actual = err.Actual.String()
		}
		return fmt.Sprintf("%s: %q is not allowed, must be one of: %s",
			err.Key, actual, JoinValues(err.Allowed))
	}

	// Fallback to generic message
	return fmt.Sprintf("%s: invalid value", err.Key)
}

// FormatErrors formats all validation errors into a slice of human-readable messages.
func FormatErrors(result Result) []string {
	messages := make([]string, len(result.Errors))
	for i, err := range result.Errors {
		messages[i] = FormatError(err)
	}
	return messages
}

// JoinValues renders allowed values as "a, b, c"
func JoinValues(values []schema.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}
