package light

import "errors"

// Error taxonomy surfaced by the model and the command router. Callers
// classify with errors.Is; context is attached with fmt.Errorf("%w").
var (
	// ErrNotFound means an id path segment did not resolve.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID means a create targeted an id that is already taken.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrUnknownParameter means a command targeted an unsupported field.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrTypeMismatch means an argument type does not match the
	// parameter's expected type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrParse means a wire message or file could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrSchema means a decoded document violates the structural rules.
	ErrSchema = errors.New("schema error")

	// ErrActiveScene means a scene cannot be removed while it is active.
	ErrActiveScene = errors.New("scene is active")
)
