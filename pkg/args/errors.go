package args

import "fmt"

// ErrorKind classifies an ArgumentError.
type ErrorKind int

const (
	// Missing: a required parameter was not supplied and has no default.
	Missing ErrorKind = iota
	// Conflict: a parameter was supplied twice (name and alias, or
	// positionally and by name).
	Conflict
	// Usage: malformed call, e.g. a sequence where a number was expected,
	// an unknown name or too many positional values.
	Usage
)

func (k ErrorKind) String() string {
	switch k {
	case Missing:
		return "missing parameter"
	case Conflict:
		return "conflicting parameter"
	case Usage:
		return "usage"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ArgumentError is returned synchronously by constructors whose arguments
// cannot be resolved.
type ArgumentError struct {
	Kind  ErrorKind
	Shape string
	Param string
	Alias string
	Msg   string
}

func (e *ArgumentError) Error() string {
	name := e.Param
	if e.Alias != "" && e.Kind != Usage {
		name = fmt.Sprintf("%s (or %s)", e.Param, e.Alias)
	}
	s := fmt.Sprintf("%s: %s", e.Shape, e.Kind)
	if name != "" {
		s += " " + name
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

// Is matches any *ArgumentError of the same kind, so callers can write
// errors.Is(err, &args.ArgumentError{Kind: args.Missing}).
func (e *ArgumentError) Is(target error) bool {
	t, ok := target.(*ArgumentError)
	return ok && t.Kind == e.Kind
}

func usageErr(shape, param, msg string) *ArgumentError {
	return &ArgumentError{Kind: Usage, Shape: shape, Param: param, Msg: msg}
}
