package lang

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// hashKey returns a string that is equal for values that compare equal,
// or ErrUnhashable for mutable values.
func hashKey(v Value) (string, error) {
	switch v := v.(type) {
	case Null:
		return "null", nil
	case Bool:
		return "b:" + v.String(), nil
	case Int:
		return "n:" + v.v.String(), nil
	case BigInt:
		return "n:" + v.v.String(), nil
	case Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "f:" + formatFloat(f), nil
		}

		if f == math.Trunc(f) {
			n, _ := big.NewFloat(f).Int(nil)

			return "n:" + n.String(), nil
		}

		return "n:" + decimal.NewFromFloat(f).String(), nil
	case Decimal:
		if v.v.IsInteger() {
			return "n:" + v.v.BigInt().String(), nil
		}

		return "n:" + v.v.String(), nil
	case String:
		return "s:" + string(v), nil
	case Char:
		return "s:" + string(rune(v)), nil
	case *Tuple:
		var b strings.Builder

		b.WriteString("t(")

		for _, e := range v.Elems {
			k, err := hashKey(e)
			if err != nil {
				return "", err
			}

			b.WriteString(k)
			b.WriteByte(',')
		}

		b.WriteByte(')')

		return b.String(), nil
	case *Range:
		return "r:" + v.String(), nil
	case *Enum:
		k, err := hashKey(NewTuple(v.Data...))
		if err != nil {
			return "", err
		}

		return "e:" + v.Enum + "::" + v.Variant + k, nil
	case *Function:
		return fmt.Sprintf("f:%p:%p", v.Decl, v.Env), nil
	case *Lambda, *Native:
		return fmt.Sprintf("f:%p", v), nil
	}

	return "", ErrUnhashable.Detailf("%s", v.Kind())
}

// isNumber reports whether v takes part in numeric comparison.
func isNumber(v Value) bool {
	switch v.(type) {
	case Int, BigInt, Float, Decimal:
		return true
	}

	return false
}

// textOf returns v as text if v is a string or a char.
func textOf(v Value) (string, bool) {
	switch v := v.(type) {
	case String:
		return string(v), true
	case Char:
		return string(rune(v)), true
	}

	return "", false
}

// Equal reports whether a and b are equal. Numbers compare by value across
// kinds, a char equals the one-character string holding it, and containers
// compare element-wise.
func Equal(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		c, ok := compareNumbers(a, b)

		return ok && c == 0
	}

	if sa, ok := textOf(a); ok {
		sb, ok := textOf(b)

		return ok && sa == sb
	}

	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)

		return ok
	case Bool:
		bb, ok := b.(Bool)

		return ok && a == bb
	case *Array:
		bb, ok := b.(*Array)

		return ok && equalElems(a.Elems, bb.Elems)
	case *Tuple:
		bb, ok := b.(*Tuple)

		return ok && equalElems(a.Elems, bb.Elems)
	case *Set:
		bb, ok := b.(*Set)
		if !ok || a.Len() != bb.Len() {
			return false
		}

		for _, e := range a.elems {
			if !bb.Has(e) {
				return false
			}
		}

		return true
	case *Dict:
		bb, ok := b.(*Dict)
		if !ok || a.Len() != bb.Len() {
			return false
		}

		for k, v := range a.All() {
			w, ok := bb.Get(k)
			if !ok || !Equal(v, w) {
				return false
			}
		}

		return true
	case *Range:
		bb, ok := b.(*Range)

		return ok && a.Inclusive == bb.Inclusive &&
			a.Lo.Cmp(bb.Lo) == 0 && a.Hi.Cmp(bb.Hi) == 0 && a.Step.Cmp(bb.Step) == 0
	case *Struct:
		bb, ok := b.(*Struct)
		if !ok || a.Name != bb.Name || len(a.names) != len(bb.names) {
			return false
		}

		for n, v := range a.fields {
			w, ok := bb.fields[n]
			if !ok || !Equal(v, w) {
				return false
			}
		}

		return true
	case *Union:
		bb, ok := b.(*Union)

		return ok && a.Def == bb.Def && a.Field == bb.Field && Equal(a.Value, bb.Value)
	case *Enum:
		bb, ok := b.(*Enum)

		return ok && a.Enum == bb.Enum && a.Variant == bb.Variant && equalElems(a.Data, bb.Data)
	}

	return Identical(a, b)
}

func equalElems(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

// Identical reports whether a and b are the same object. Scalars are
// identical when they have the same kind and value.
func Identical(a, b Value) bool {
	switch a := a.(type) {
	case *Array:
		return a == b
	case *Tuple:
		return a == b
	case *Set:
		return a == b
	case *Dict:
		return a == b
	case *Range:
		return a == b
	case *Struct:
		return a == b
	case *Union:
		return a == b
	case *Enum:
		return a == b
	case *Function:
		bb, ok := b.(*Function)

		return ok && a.Decl == bb.Decl && a.Env == bb.Env
	case *Lambda:
		return a == b
	case *Native:
		return a == b
	}

	return a.Kind() == b.Kind() && Equal(a, b)
}

// Compare orders a and b, returning -1, 0 or +1.
func Compare(a, b Value) (int, error) {
	if isNumber(a) && isNumber(b) {
		if c, ok := compareNumbers(a, b); ok {
			return c, nil
		}

		return 0, ErrCompare.Detailf("nan")
	}

	if sa, ok := textOf(a); ok {
		if sb, ok := textOf(b); ok {
			return strings.Compare(sa, sb), nil
		}
	}

	switch a := a.(type) {
	case Bool:
		if bb, ok := b.(Bool); ok {
			return cmp.Compare(boolInt(a), boolInt(bb)), nil
		}
	case *Array:
		if bb, ok := b.(*Array); ok {
			return compareElems(a.Elems, bb.Elems)
		}
	case *Tuple:
		if bb, ok := b.(*Tuple); ok {
			return compareElems(a.Elems, bb.Elems)
		}
	}

	return 0, ErrCompare.Detailf("%s and %s", a.Kind(), b.Kind())
}

func boolInt(b Bool) int {
	if b {
		return 1
	}

	return 0
}

func compareElems(a, b []Value) (int, error) {
	for i := range min(len(a), len(b)) {
		c, err := Compare(a[i], b[i])
		if err != nil || c != 0 {
			return c, err
		}
	}

	return cmp.Compare(len(a), len(b)), nil
}

// compareNumbers orders two numbers of any kind. It reports false if
// either is NaN.
func compareNumbers(a, b Value) (int, bool) {
	ia, aInt := toInteger(a)
	ib, bInt := toInteger(b)

	if aInt && bInt {
		return ia.Cmp(ib), true
	}

	_, aDec := a.(Decimal)
	_, bDec := b.(Decimal)

	if aDec || bDec {
		da, ok := toDecimal(a)
		if !ok {
			return 0, false
		}

		db, ok := toDecimal(b)
		if !ok {
			return 0, false
		}

		return da.Cmp(db), true
	}

	fa, fb := toBigFloat(a), toBigFloat(b)
	if fa == nil || fb == nil {
		return 0, false
	}

	return fa.Cmp(fb), true
}

// toInteger returns the value of an integer kind.
func toInteger(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case Int:
		return v.v, true
	case BigInt:
		return v.v, true
	case Bool:
		return toBig(v)
	}

	return nil, false
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case Float:
		return float64(v)
	case Decimal:
		return v.v.InexactFloat64()
	}

	if n, ok := toInteger(v); ok {
		f, _ := new(big.Float).SetInt(n).Float64()

		return f
	}

	return math.NaN()
}

// toBigFloat returns v exactly, or nil for NaN.
func toBigFloat(v Value) *big.Float {
	if f, ok := v.(Float); ok {
		if math.IsNaN(float64(f)) {
			return nil
		}

		return big.NewFloat(float64(f))
	}

	if n, ok := toInteger(v); ok {
		return new(big.Float).SetInt(n)
	}

	return nil
}

func toDecimal(v Value) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case Decimal:
		return v.v, true
	case Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Decimal{}, false
		}

		return decimal.NewFromFloat(f), true
	}

	if n, ok := toInteger(v); ok {
		return decimal.NewFromBigInt(n, 0), true
	}

	return decimal.Decimal{}, false
}

// contains implements the `in` operator: item in container.
func contains(container, item Value) (bool, error) {
	switch c := container.(type) {
	case *Set:
		return c.Has(item), nil
	case *Dict:
		_, ok := c.Get(item)

		return ok, nil
	case *Array:
		return containsElem(c.Elems, item), nil
	case *Tuple:
		return containsElem(c.Elems, item), nil
	case String:
		s, ok := textOf(item)
		if !ok {
			return false, ErrOperand.Detailf("%s in string", item.Kind())
		}

		return strings.Contains(string(c), s), nil
	case *Range:
		n, ok := toInteger(item)
		if !ok {
			if f, isFloat := item.(Float); isFloat && float64(f) == math.Trunc(float64(f)) {
				n, ok = toBig(f)
			}
		}

		return ok && c.Contains(n), nil
	}

	return false, ErrNotIterable.Detailf("%s", container.Kind())
}

func containsElem(elems []Value, item Value) bool {
	for _, e := range elems {
		if Equal(e, item) {
			return true
		}
	}

	return false
}

// runeLen returns the length of s in characters.
func runeLen(s string) int { return utf8.RuneCountInString(s) }
