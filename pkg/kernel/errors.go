package kernel

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned by kernels for capabilities they lack.
var ErrUnsupported = errors.New("kernel: operation not supported")

// ErrDimension is returned when an operation gets a 2-D solid where a 3-D
// one is required, or the reverse.
var ErrDimension = errors.New("kernel: dimension mismatch")

// Error wraps a failure reported by a kernel backend. Callers propagate it
// unchanged; there is no recovery.
type Error struct {
	Kernel string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s kernel: %s: %v", e.Kernel, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error for kernel k and operation op.
func Errorf(k, op, format string, a ...any) error {
	return &Error{Kernel: k, Op: op, Err: fmt.Errorf(format, a...)}
}

// Wrap wraps err as an *Error unless it already is one. A nil err stays nil.
func Wrap(k, op string, err error) error {
	if err == nil {
		return nil
	}
	var ke *Error
	if errors.As(err, &ke) {
		return err
	}
	return &Error{Kernel: k, Op: op, Err: err}
}

// Unsupported returns an *Error wrapping ErrUnsupported.
func Unsupported(k, op string) error {
	return &Error{Kernel: k, Op: op, Err: ErrUnsupported}
}
