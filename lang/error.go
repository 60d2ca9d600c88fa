package lang

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/lang/token"
)

// Runtime errors. Each is a sentinel matched with errors.Is; the evaluator
// returns positioned copies carrying detail.
var (
	ErrUndefined     = diag.New("NameError", "undefined variable")
	ErrUndefinedType = diag.New("NameError", "undefined type")
	ErrOperand       = diag.New("TypeError", "unsupported operand types")
	ErrNotCallable   = diag.New("TypeError", "value is not callable")
	ErrNotIterable   = diag.New("TypeError", "value is not iterable")
	ErrNotIndexable  = diag.New("TypeError", "value is not indexable")
	ErrUnhashable    = diag.New("TypeError", "unhashable type")
	ErrCompare       = diag.New("TypeError", "values are not comparable")
	ErrArgType       = diag.New("TypeError", "invalid argument type")
	ErrUnionInit     = diag.New("TypeError", "union literal requires exactly one field")
	ErrArity         = diag.New("ArityError", "wrong number of arguments")
	ErrArgument      = diag.New("ArityError", "invalid argument")
	ErrConst         = diag.New("ConstError", "cannot assign to constant")
	ErrImmutable     = diag.New("ConstError", "cannot assign to immutable binding")
	ErrIndex         = diag.New("IndexError", "index out of range")
	ErrKey           = diag.New("KeyError", "key not found")
	ErrMember        = diag.New("AttributeError", "no such member")
	ErrInactive      = diag.New("AttributeError", "union field is not active")
	ErrZeroDivision  = diag.New("ZeroDivisionError", "division by zero")
	ErrValue         = diag.New("ValueError", "invalid value")
	ErrFormat        = diag.New("ValueError", "invalid format")
	ErrAssert        = diag.New("AssertionError", "assertion failed")
	ErrRecursion     = diag.New("RecursionError", "maximum call depth exceeded")
	ErrImport        = diag.New("ImportError", "import failed")
	ErrControl       = diag.New("SyntaxError", "control statement outside its construct")
	ErrTarget        = diag.New("SyntaxError", "invalid operand")
)

// Thrown is a user value raised by a throw statement.
type Thrown struct {
	Value Value
	Pos   token.Pos
}

// Kind is the name a catch clause matches against: the declared type of a
// struct, union or enum value and "Exception" otherwise.
func (t *Thrown) Kind() string {
	switch t.Value.(type) {
	case *Struct, *Union, *Enum:
		return TypeName(t.Value)
	}

	return "Exception"
}

// Message is the text bound by a catch clause.
func (t *Thrown) Message() string { return t.Value.String() }

func (t *Thrown) Error() string {
	msg := "uncaught " + t.Kind() + ": " + t.Message()
	if !t.Pos.IsValid() {
		return msg
	}

	return fmt.Sprintf("line %d, column %d: %s", t.Pos.Line, t.Pos.Column, msg)
}

// ErrorKind returns the category of a failure produced by the interpreter,
// or the empty string if err did not originate in a program.
func ErrorKind(err error) string {
	var t *Thrown
	if errors.As(err, &t) {
		return t.Kind()
	}

	if e := diag.As(err); e != nil {
		return e.Kind()
	}

	return ""
}

// ErrorMessage returns the message of a program failure without its
// position.
func ErrorMessage(err error) string {
	var t *Thrown
	if errors.As(err, &t) {
		return t.Message()
	}

	if e := diag.As(err); e != nil {
		return e.Message()
	}

	return err.Error()
}

func catchable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return ErrorKind(err) != ""
}

// catches reports whether a catch clause naming typ handles err.
func catches(typ string, err error) bool {
	switch typ {
	case "", "Error", "Exception":
		return true
	}

	return typ == ErrorKind(err)
}

// locate positions err at pos unless it already carries a position.
func locate(err error, pos token.Pos) error {
	if e, ok := err.(*diag.Error); ok {
		return e.At(pos)
	}

	return err
}
