// Package envguard validates a process environment against a declared schema
// at application startup.
//
// A schema names each variable with its kind (string, number or boolean),
// whether it is required, an optional default and an optional set of allowed
// values:
//
//	env:
//	  PORT:
//	    type: number
//	    required: true
//	  NODE_ENV:
//	    type: string
//	    oneOf: [development, production, test]
//	    default: development
//	  DEBUG:
//	    type: boolean
//	    default: false
//
// Every variable is checked and every failure is reported, in schema order.
// Only when all variables pass is a typed Config produced.
//
// Basic usage:
//
//	cfg := envguard.MustLoad()
//	port, _ := cfg.Number("PORT")
//
// Validating an explicit environment, with no file or process access:
//
//	s, err := envguard.ParseSchema(data)
//	cfg, err := envguard.Check(s, envguard.Environment{"PORT": "3000"})
//
// # Coercion
//
// Empty values count as unset. Numbers accept decimal, exponent and 0x/0o/0b
// integer forms of any size; digit separators, NaN and infinities are
// rejected. Booleans are true only for "true" and "1"; every other value is
// false.
//
// # Errors
//
// Check and Load return ValidationErrors on failure. Individual failures match
// ErrMissingRequired, ErrTypeMismatch and ErrNotAllowed with errors.Is.
package envguard
