package lang

import (
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// maxShift bounds shift counts and integer exponents so a single operation
// cannot exhaust memory.
const maxShift = 1 << 20

// BinaryOp applies the binary operator op to l and r.
func BinaryOp(op string, l, r Value) (Value, error) {
	switch op {
	case "and", "&&":
		return Bool(Truthy(l) && Truthy(r)), nil
	case "or", "||":
		return Bool(Truthy(l) || Truthy(r)), nil
	case "xor":
		return Bool(Truthy(l) != Truthy(r)), nil
	case "then":
		return Bool(!Truthy(l) || Truthy(r)), nil
	case "nand":
		return Bool(!(Truthy(l) && Truthy(r))), nil

	case "==":
		return Bool(Equal(l, r)), nil
	case "!=":
		return Bool(!Equal(l, r)), nil
	case "===":
		return Bool(Identical(l, r)), nil
	case "!==":
		return Bool(!Identical(l, r)), nil

	case "<", "<=", ">", ">=", "<=>":
		c, err := Compare(l, r)
		if err != nil {
			return nil, err
		}

		switch op {
		case "<":
			return Bool(c < 0), nil
		case "<=":
			return Bool(c <= 0), nil
		case ">":
			return Bool(c > 0), nil
		case ">=":
			return Bool(c >= 0), nil
		}

		return NewInt(int64(c)), nil

	case "in":
		ok, err := contains(r, l)
		if err != nil {
			return nil, err
		}

		return Bool(ok), nil

	case "&", "|", "^", "<<", ">>":
		return bitwise(op, l, r)

	case "+", "-", "*", "/", "//", "%", "**":
		return arithmetic(op, l, r)
	}

	return nil, ErrOperand.Detailf("unknown operator %s", op)
}

func operandError(op string, l, r Value) error {
	return ErrOperand.Detailf("%s %s %s", l.Kind(), op, r.Kind())
}

func arithmetic(op string, l, r Value) (Value, error) {
	if v, ok, err := sequenceOp(op, l, r); ok {
		return v, err
	}

	rank := max(numRank(l), numRank(r))
	if numRank(l) < 0 || numRank(r) < 0 {
		return nil, operandError(op, l, r)
	}

	switch rank {
	case rankDecimal:
		a, aok := toDecimal(l)
		b, bok := toDecimal(r)

		if !aok || !bok {
			return nil, operandError(op, l, r)
		}

		return decimalArith(op, a, b)

	case rankFloat:
		return floatArith(op, toFloat(l), toFloat(r))
	}

	a, _ := toInteger(l)
	b, _ := toInteger(r)

	v, err := intArith(op, a, b)
	if err != nil {
		return nil, err
	}

	if n, ok := v.(Int); ok && rank == rankBigInt {
		return BigInt(n), nil
	}

	return v, nil
}

const (
	rankInt = iota
	rankBigInt
	rankFloat
	rankDecimal
)

// numRank orders the numeric tower. Mixing kinds promotes to the higher
// rank; it is negative for non-numbers.
func numRank(v Value) int {
	switch v.(type) {
	case Int, Bool:
		return rankInt
	case BigInt:
		return rankBigInt
	case Float:
		return rankFloat
	case Decimal:
		return rankDecimal
	}

	return -1
}

// sequenceOp handles the operators defined on text, sequences and sets. It
// reports false if neither operand is one of those.
func sequenceOp(op string, l, r Value) (Value, bool, error) {
	switch a := l.(type) {
	case *Set:
		b, ok := r.(*Set)
		if !ok {
			return nil, true, operandError(op, l, r)
		}

		out := NewSet()

		switch op {
		case "+":
			for _, e := range slices.Concat(a.elems, b.elems) {
				_ = out.Add(e)
			}
		case "-":
			for _, e := range a.elems {
				if !b.Has(e) {
					_ = out.Add(e)
				}
			}
		case "*":
			for _, e := range a.elems {
				if b.Has(e) {
					_ = out.Add(e)
				}
			}
		default:
			return nil, true, operandError(op, l, r)
		}

		return out, true, nil

	case *Array:
		switch b := r.(type) {
		case *Array:
			if op == "+" {
				return NewArray(slices.Concat(a.Elems, b.Elems)...), true, nil
			}
		default:
			if op == "*" {
				elems, err := repeat(a.Elems, r)

				return NewArray(elems...), true, err
			}
		}

		return nil, true, operandError(op, l, r)

	case *Tuple:
		switch b := r.(type) {
		case *Tuple:
			if op == "+" {
				return NewTuple(slices.Concat(a.Elems, b.Elems)...), true, nil
			}
		default:
			if op == "*" {
				elems, err := repeat(a.Elems, r)

				return NewTuple(elems...), true, err
			}
		}

		return nil, true, operandError(op, l, r)
	}

	if _, ok := r.(*Set); ok {
		return nil, true, operandError(op, l, r)
	}

	sl, lText := textOf(l)
	sr, rText := textOf(r)

	switch {
	case op == "+" && (lText || rText):
		return String(l.String() + r.String()), true, nil
	case op == "*" && lText:
		s, err := repeatText(sl, r)

		return s, true, err
	case op == "*" && rText:
		s, err := repeatText(sr, l)

		return s, true, err
	case lText || rText:
		return nil, true, operandError(op, l, r)
	}

	return nil, false, nil
}

func count(v Value) (int, error) {
	n, ok := toInteger(v)
	if !ok {
		return 0, ErrArgType.Detailf("repeat count must be an integer, not %s", v.Kind())
	}

	if !n.IsInt64() || n.Int64() > maxShift {
		return 0, ErrValue.Detailf("repeat count %s too large", n)
	}

	return max(int(n.Int64()), 0), nil
}

func repeat(elems []Value, times Value) ([]Value, error) {
	n, err := count(times)
	if err != nil {
		return nil, err
	}

	out := make([]Value, 0, len(elems)*n)
	for range n {
		out = append(out, elems...)
	}

	return out, nil
}

func repeatText(s string, times Value) (Value, error) {
	n, err := count(times)
	if err != nil {
		return nil, err
	}

	return String(strings.Repeat(s, n)), nil
}

func intArith(op string, a, b *big.Int) (Value, error) {
	switch op {
	case "+":
		return IntOf(new(big.Int).Add(a, b)), nil
	case "-":
		return IntOf(new(big.Int).Sub(a, b)), nil
	case "*":
		return IntOf(new(big.Int).Mul(a, b)), nil
	case "/":
		if b.Sign() == 0 {
			return nil, ErrZeroDivision
		}

		f, _ := new(big.Rat).SetFrac(a, b).Float64()

		return Float(f), nil
	case "//":
		if b.Sign() == 0 {
			return nil, ErrZeroDivision
		}

		q, _ := floorDivMod(a, b)

		return IntOf(q), nil
	case "%":
		if b.Sign() == 0 {
			return nil, ErrZeroDivision
		}

		_, m := floorDivMod(a, b)

		return IntOf(m), nil
	case "**":
		if b.Sign() < 0 {
			return floatArith(op, toFloat(IntOf(a)), toFloat(IntOf(b)))
		}

		if !b.IsInt64() || int64(a.BitLen())*b.Int64() > maxShift*8 {
			return nil, ErrValue.Detailf("exponent %s too large", b)
		}

		return IntOf(new(big.Int).Exp(a, b, nil)), nil
	}

	return nil, ErrOperand.Detailf("unknown operator %s", op)
}

// floorDivMod returns the quotient rounded toward negative infinity and the
// remainder with the sign of the divisor.
func floorDivMod(a, b *big.Int) (*big.Int, *big.Int) {
	q, m := new(big.Int).QuoRem(a, b, new(big.Int))
	if m.Sign() != 0 && (m.Sign() < 0) != (b.Sign() < 0) {
		q.Sub(q, one)
		m.Add(m, b)
	}

	return q, m
}

func floatArith(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, ErrZeroDivision
		}

		return Float(a / b), nil
	case "//":
		if b == 0 {
			return nil, ErrZeroDivision
		}

		return Float(math.Floor(a / b)), nil
	case "%":
		if b == 0 {
			return nil, ErrZeroDivision
		}

		return Float(a - b*math.Floor(a/b)), nil
	case "**":
		if a == 0 && b < 0 {
			return nil, ErrZeroDivision.Detailf("zero to a negative power")
		}

		return Float(math.Pow(a, b)), nil
	}

	return nil, ErrOperand.Detailf("unknown operator %s", op)
}

func decimalArith(op string, a, b decimal.Decimal) (Value, error) {
	switch op {
	case "+":
		return DecimalOf(a.Add(b)), nil
	case "-":
		return DecimalOf(a.Sub(b)), nil
	case "*":
		return DecimalOf(a.Mul(b)), nil
	case "/":
		if b.IsZero() {
			return nil, ErrZeroDivision
		}

		return DecimalOf(a.Div(b)), nil
	case "//":
		if b.IsZero() {
			return nil, ErrZeroDivision
		}

		return DecimalOf(a.Div(b).Floor()), nil
	case "%":
		if b.IsZero() {
			return nil, ErrZeroDivision
		}

		m := a.Mod(b)
		if !m.IsZero() && m.Sign() != b.Sign() {
			m = m.Add(b)
		}

		return DecimalOf(m), nil
	case "**":
		if b.IsInteger() && b.Abs().LessThanOrEqual(decimal.NewFromInt(maxShift)) {
			if a.IsZero() && b.IsNegative() {
				return nil, ErrZeroDivision.Detailf("zero to a negative power")
			}

			return DecimalOf(a.Pow(b)), nil
		}

		f := math.Pow(a.InexactFloat64(), b.InexactFloat64())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, ErrValue.Detailf("%s ** %s is not a finite decimal", a, b)
		}

		return DecimalOf(decimal.NewFromFloat(f)), nil
	}

	return nil, ErrOperand.Detailf("unknown operator %s", op)
}

func bitwise(op string, l, r Value) (Value, error) {
	a, aok := toInteger(l)
	b, bok := toInteger(r)

	if !aok || !bok {
		return nil, operandError(op, l, r)
	}

	v := new(big.Int)

	switch op {
	case "&":
		v.And(a, b)
	case "|":
		v.Or(a, b)
	case "^":
		v.Xor(a, b)
	case "<<", ">>":
		if b.Sign() < 0 {
			return nil, ErrValue.Detailf("negative shift count")
		}

		if !b.IsInt64() || b.Int64() > maxShift {
			if op == ">>" {
				if a.Sign() < 0 {
					v.SetInt64(-1)
				}

				break
			}

			return nil, ErrValue.Detailf("shift count %s too large", b)
		}

		if op == "<<" {
			v.Lsh(a, uint(b.Int64()))
		} else {
			v.Rsh(a, uint(b.Int64()))
		}
	}

	if _, ok := l.(BigInt); ok {
		return BigInt{v}, nil
	}

	if _, ok := r.(BigInt); ok {
		return BigInt{v}, nil
	}

	return IntOf(v), nil
}

// UnaryOp applies the prefix operator op to x.
func UnaryOp(op string, x Value) (Value, error) {
	switch op {
	case "!", "not":
		return Bool(!Truthy(x)), nil

	case "-":
		switch x := x.(type) {
		case Int:
			return IntOf(new(big.Int).Neg(x.v)), nil
		case BigInt:
			return BigInt{new(big.Int).Neg(x.v)}, nil
		case Bool:
			return IntOf(big.NewInt(-int64(boolInt(x)))), nil
		case Float:
			return -x, nil
		case Decimal:
			return DecimalOf(x.v.Neg()), nil
		}

	case "+":
		if b, ok := x.(Bool); ok {
			return NewInt(int64(boolInt(b))), nil
		}

		if isNumber(x) {
			return x, nil
		}

	case "~":
		switch x := x.(type) {
		case Int:
			return IntOf(new(big.Int).Not(x.v)), nil
		case BigInt:
			return BigInt{new(big.Int).Not(x.v)}, nil
		case Bool:
			return NewInt(^int64(boolInt(x))), nil
		}

	default:
		return nil, ErrOperand.Detailf("unknown operator %s", op)
	}

	return nil, ErrOperand.Detailf("%s%s", op, x.Kind())
}
