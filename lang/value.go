package lang

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies the variant of a [Value].
type Kind int

// Enumeration of value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBigInt
	KindDecimal
	KindString
	KindChar
	KindArray
	KindTuple
	KindSet
	KindDict
	KindRange
	KindStruct
	KindUnion
	KindEnum
	KindFunction
	KindLambda
	KindNative
)

var kindName = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindInt:      "int",
	KindFloat:    "float",
	KindBigInt:   "bigint",
	KindDecimal:  "decimal",
	KindString:   "string",
	KindChar:     "char",
	KindArray:    "array",
	KindTuple:    "tuple",
	KindSet:      "set",
	KindDict:     "dict",
	KindRange:    "range",
	KindStruct:   "struct",
	KindUnion:    "union",
	KindEnum:     "enum",
	KindFunction: "function",
	KindLambda:   "lambda",
	KindNative:   "native",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a runtime value. The set of implementations is closed; every
// value kind is declared in this package.
type Value interface {
	Kind() Kind
	// String returns the display form used by print.
	String() string
	value()
}

type (
	// Null is the absent value.
	Null struct{}

	Bool bool

	// Int is an arbitrary-precision integer. The wrapped *big.Int is never
	// mutated after construction.
	Int struct{ v *big.Int }

	Float float64

	// BigInt is an arbitrary-precision integer written with the `n` suffix.
	// It behaves like [Int] but keeps its kind through arithmetic.
	BigInt struct{ v *big.Int }

	// Decimal is an arbitrary-precision decimal written with the `d` suffix.
	Decimal struct{ v decimal.Decimal }

	String string

	Char rune
)

// NullValue is the single [Null] value.
var NullValue Value = Null{}

// NewInt returns an [Int] holding i.
func NewInt(i int64) Int { return Int{big.NewInt(i)} }

// IntOf returns an [Int] taking ownership of v.
func IntOf(v *big.Int) Int { return Int{v} }

// BigIntOf returns a [BigInt] taking ownership of v.
func BigIntOf(v *big.Int) BigInt { return BigInt{v} }

// DecimalOf returns a [Decimal] holding d.
func DecimalOf(d decimal.Decimal) Decimal { return Decimal{d} }

// Big returns the integer value. Callers must not modify it.
func (i Int) Big() *big.Int { return i.v }

// Big returns the integer value. Callers must not modify it.
func (i BigInt) Big() *big.Int { return i.v }

// Decimal returns the decimal value.
func (d Decimal) Decimal() decimal.Decimal { return d.v }

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Int) Kind() Kind     { return KindInt }
func (Float) Kind() Kind   { return KindFloat }
func (BigInt) Kind() Kind  { return KindBigInt }
func (Decimal) Kind() Kind { return KindDecimal }
func (String) Kind() Kind  { return KindString }
func (Char) Kind() Kind    { return KindChar }

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (i Int) String() string { return i.v.String() }

func (f Float) String() string { return formatFloat(float64(f)) }

func (i BigInt) String() string { return i.v.String() }

func (d Decimal) String() string { return d.v.String() }

func (s String) String() string { return string(s) }

func (c Char) String() string { return string(rune(c)) }

func (Null) value()    {}
func (Bool) value()    {}
func (Int) value()     {}
func (Float) value()   {}
func (BigInt) value()  {}
func (Decimal) value() {}
func (String) value()  {}
func (Char) value()    {}

// formatFloat renders f with at least one fractional digit, switching to
// exponent notation for very large or very small magnitudes.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	abs := math.Abs(f)

	var s string
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		s = strconv.FormatFloat(f, 'g', -1, 64)
	} else {
		s = strconv.FormatFloat(f, 'f', -1, 64)
	}

	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// Repr returns the form of v used inside container displays: text is quoted
// and everything else uses its display form.
func Repr(v Value) string {
	switch v := v.(type) {
	case String:
		return `"` + string(v) + `"`
	case Char:
		return "'" + string(rune(v)) + "'"
	}

	return v.String()
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Null:
		return false
	case Bool:
		return bool(v)
	case Int:
		return v.v.Sign() != 0
	case BigInt:
		return v.v.Sign() != 0
	case Float:
		return v != 0
	case Decimal:
		return !v.v.IsZero()
	case String:
		return v != ""
	case Char:
		return v != 0
	case *Array:
		return len(v.Elems) > 0
	case *Tuple:
		return len(v.Elems) > 0
	case *Set:
		return v.Len() > 0
	case *Dict:
		return v.Len() > 0
	case *Range:
		return v.Len().Sign() > 0
	}

	return true
}

// TypeName returns the user-facing type of v: the declared name for
// aggregates and the kind name otherwise.
func TypeName(v Value) string {
	switch v := v.(type) {
	case *Struct:
		return v.Name
	case *Union:
		return v.Def.Name
	case *Enum:
		return v.Enum
	}

	return v.Kind().String()
}
