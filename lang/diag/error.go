// Package diag provides the structured error type shared by every stage of
// the zyra pipeline.
package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/zyra/lang/token"
)

// Error is an error with a kind, an optional source position, an optional
// wrapped cause, and attributes for structured logging.
// It implements both error and slog.LogValuer.
//
// Errors are immutable. Every method that changes an Error returns a copy
// that remembers the sentinel it was derived from, so errors.Is matches a
// derived error against its sentinel.
type Error struct {
	base   *Error
	err    error // Wrapped error (for errors.Unwrap)
	kind   string
	msg    string
	detail string
	attrs  []slog.Attr // Attributes for structured logging
	pos    token.Pos
}

// New creates a sentinel Error of the given kind.
func New(kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// As returns err as an *Error, or nil if no error in its chain is one.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return nil
}

func (e *Error) derive() *Error {
	c := *e
	if e.base == nil {
		c.base = e
	}

	return &c
}

// Kind returns the error's category name, e.g. "TypeError".
func (e *Error) Kind() string { return e.kind }

// Pos returns the source position the error refers to, if any.
func (e *Error) Pos() token.Pos { return e.pos }

// Message returns the error text without position information.
func (e *Error) Message() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.detail != "" {
		part = append(part, e.detail)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Error implements the error interface.
func (e *Error) Error() string {
	if !e.pos.IsValid() {
		return e.Message()
	}

	return "line " + strconv.Itoa(e.pos.Line) +
		", column " + strconv.Itoa(e.pos.Column) + ": " + e.Message()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is e itself or the sentinel e derives from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.kind != "" {
		attrs = append(attrs, slog.String("kind", e.kind))
	}

	attrs = append(attrs, slog.String("error", e.msg))

	if e.detail != "" {
		attrs = append(attrs, slog.String("detail", e.detail))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// Detailf returns a copy of e with a formatted detail appended to its message.
func (e *Error) Detailf(format string, args ...any) *Error {
	c := e.derive()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// At returns a copy of e positioned at pos. An already positioned error
// keeps its original position.
func (e *Error) At(pos token.Pos) *Error {
	if e.pos.IsValid() || !pos.IsValid() {
		return e
	}

	c := e.derive()
	c.pos = pos

	return c
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }
