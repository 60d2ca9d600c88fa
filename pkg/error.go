package pkg

import (
	"fmt"
	"strings"
)

// Error is a chain of errors, innermost first. It is used by the
// command-line layer to stack context onto failures from the interpreter
// and the file system without losing either for [errors.Is].
type Error []error

// Sentinel errors of the command-line layer.
var (
	ErrReadInput      = MakeErrorf("failed to read input")
	ErrInvalidFormat  = MakeErrorf("invalid format")
	ErrInvalidDefine  = MakeErrorf("invalid definition")
	ErrModuleNotFound = MakeErrorf("module not found")
	ErrImportCycle    = MakeErrorf("import cycle")
)

// MakeError flattens errs into an Error. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins the chain with ": ", outermost first, so the sentinel that
// names the failure leads the message.
func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for i := len(e) - 1; i >= 0; i-- {
		parts = append(parts, e[i].Error())
	}

	return strings.Join(parts, ": ")
}

// Wrap returns a copy of e with errs appended beneath it.
func (e Error) Wrap(errs ...error) Error {
	out := make(Error, 0, len(e)+len(errs))
	for _, err := range errs {
		switch err := err.(type) {
		case nil:
		case Error:
			out = append(out, err...)
		default:
			out = append(out, err)
		}
	}

	return append(out, e...)
}

// Wrapf returns a copy of e with a formatted detail appended beneath it.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the errors of the chain.
func (e Error) Unwrap() []error { return e }

// Is reports whether target is an Error whose chain ends with the same
// errors, which makes a sentinel match every error wrapped from it.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if e[len(e)-len(t)+i] != t[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors recursively unwraps err and returns every error in the
// chain, innermost first.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	var chain Error

	switch e := err.(type) {
	case Error:
		return append(chain, e...)
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
