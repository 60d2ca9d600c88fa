package lang

import (
	"math"
	"math/big"
	"strconv"
)

// IntType is a fixed-width integer type. Values stored under a declared
// IntType are reduced to its range by two's-complement wrapping.
type IntType struct {
	Name   string
	Bits   uint
	Signed bool
}

var intTypes = func() map[string]IntType {
	m := map[string]IntType{
		"usize":   {Name: "usize", Bits: 64},
		"isize":   {Name: "isize", Bits: 64, Signed: true},
		"ptrdiff": {Name: "ptrdiff", Bits: 64, Signed: true},
	}

	for _, bits := range []uint{8, 16, 32, 64, 128, 256} {
		n := strconv.FormatUint(uint64(bits), 10)
		m["int"+n] = IntType{Name: "int" + n, Bits: bits, Signed: true}
		m["uint"+n] = IntType{Name: "uint" + n, Bits: bits}
	}

	return m
}()

// LookupIntType returns the fixed-width integer type with the given name.
func LookupIntType(name string) (IntType, bool) {
	t, ok := intTypes[name]

	return t, ok
}

// Wrap reduces v into the range of t.
func (t IntType) Wrap(v *big.Int) *big.Int {
	mod := new(big.Int).Lsh(one, t.Bits)
	r := new(big.Int).Mod(v, mod)

	if t.Signed {
		half := new(big.Int).Rsh(mod, 1)
		if r.Cmp(half) >= 0 {
			r.Sub(r, mod)
		}
	}

	return r
}

// Min returns the smallest value of t.
func (t IntType) Min() *big.Int {
	if !t.Signed {
		return new(big.Int)
	}

	return new(big.Int).Neg(new(big.Int).Lsh(one, t.Bits-1))
}

// Max returns the largest value of t.
func (t IntType) Max() *big.Int {
	bits := t.Bits
	if t.Signed {
		bits--
	}

	m := new(big.Int).Lsh(one, bits)

	return m.Sub(m, one)
}

// wrapValue converts v to an Int within the range of t. A nil t leaves v
// unchanged, as does a null v so that unset fields stay null.
func wrapValue(t *IntType, v Value) (Value, error) {
	if t == nil {
		return v, nil
	}

	if _, ok := v.(Null); ok {
		return v, nil
	}

	n, ok := toBig(v)
	if !ok {
		return nil, ErrArgType.Detailf("cannot store %s in %s", v.Kind(), t.Name)
	}

	return IntOf(t.Wrap(n)), nil
}

// toBig converts an integral or numeric value to an integer, truncating
// fractions toward zero.
func toBig(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case Int:
		return v.v, true
	case BigInt:
		return v.v, true
	case Bool:
		if v {
			return big.NewInt(1), true
		}

		return new(big.Int), true
	case Char:
		return big.NewInt(int64(v)), true
	case Float:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}

		n, _ := big.NewFloat(math.Trunc(f)).Int(nil)

		return n, true
	case Decimal:
		return v.v.BigInt(), true
	}

	return nil, false
}
