package lang

import (
	"context"
	"maps"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// builtins returns the native functions installed in every root scope.
var builtins = sync.OnceValue(func() []*Native {
	list := []*Native{
		{Name: "len", Min: 1, Max: 1, Fn: pure(builtinLen)},
		{Name: "typeof", Min: 1, Max: 1, Fn: pure(func(a []Value) (Value, error) { return String(TypeName(a[0])), nil })},
		{Name: "str", Min: 1, Max: 1, Fn: pure(func(a []Value) (Value, error) { return String(a[0].String()), nil })},
		{Name: "int", Min: 1, Max: 1, Fn: pure(builtinInt)},
		{Name: "bigint", Min: 1, Max: 1, Fn: pure(builtinBigInt)},
		{Name: "float", Min: 1, Max: 1, Fn: pure(builtinFloat)},
		{Name: "decimal", Min: 1, Max: 1, Fn: pure(builtinDecimal)},
		{Name: "bool", Min: 1, Max: 1, Fn: pure(func(a []Value) (Value, error) { return Bool(Truthy(a[0])), nil })},
		{Name: "chr", Min: 1, Max: 1, Fn: pure(builtinChr)},
		{Name: "ord", Min: 1, Max: 1, Fn: pure(builtinOrd)},
		{Name: "abs", Min: 1, Max: 1, Fn: pure(builtinAbs)},
		{Name: "round", Min: 1, Max: 2, Fn: pure(builtinRound)},
		{Name: "min", Min: 1, Max: -1, Fn: pure(extremum(-1))},
		{Name: "max", Min: 1, Max: -1, Fn: pure(extremum(+1))},
		{Name: "sum", Min: 1, Max: 2, Fn: pure(builtinSum)},
		{Name: "range", Min: 1, Max: 3, Fn: pure(builtinRange)},
		{Name: "sorted", Min: 1, Max: 2, Fn: builtinSorted},
		{Name: "reversed", Min: 1, Max: 1, Fn: pure(builtinReversed)},
		{Name: "keys", Min: 1, Max: 1, Fn: pure(builtinKeys)},
		{Name: "values", Min: 1, Max: 1, Fn: pure(builtinValues)},
		{Name: "push", Min: 2, Max: -1, Fn: pure(builtinPush)},
		{Name: "pop", Min: 1, Max: 2, Fn: pure(builtinPop)},
		{Name: "array", Min: 0, Max: 1, Fn: pure(builtinArray)},
		{Name: "tuple", Min: 0, Max: 1, Fn: pure(builtinTuple)},
		{Name: "set", Min: 0, Max: 1, Fn: pure(builtinSet)},
		{Name: "map", Min: 2, Max: 2, Fn: builtinMap},
		{Name: "filter", Min: 2, Max: 2, Fn: builtinFilter},
		{Name: "reduce", Min: 2, Max: 3, Fn: builtinReduce},
		{Name: "assert", Min: 1, Max: 2, Fn: pure(builtinAssert)},
	}

	for _, name := range slices.Sorted(maps.Keys(intTypes)) {
		t := intTypes[name]
		list = append(list, &Native{
			Name: name,
			Min:  1,
			Max:  1,
			Fn: pure(func(a []Value) (Value, error) {
				if _, ok := a[0].(Null); ok {
					return nil, ErrArgType.Detailf("%s(null)", name)
				}

				return wrapValue(&t, a[0])
			}),
		})
	}

	return list
})

// Builtins returns the names of the builtin functions.
func Builtins() []string {
	list := builtins()
	names := make([]string, len(list))

	for i, b := range list {
		names[i] = b.Name
	}

	return names
}

// pure adapts a builtin that neither calls back into the interpreter nor
// observes cancellation.
func pure(fn func([]Value) (Value, error)) NativeFunc {
	return func(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
		return fn(args)
	}
}

func builtinLen(a []Value) (Value, error) {
	switch v := a[0].(type) {
	case String:
		return NewInt(int64(runeLen(string(v)))), nil
	case *Array:
		return NewInt(int64(len(v.Elems))), nil
	case *Tuple:
		return NewInt(int64(len(v.Elems))), nil
	case *Set:
		return NewInt(int64(v.Len())), nil
	case *Dict:
		return NewInt(int64(v.Len())), nil
	case *Range:
		return IntOf(v.Len()), nil
	case *Struct:
		return NewInt(int64(len(v.names))), nil
	}

	return nil, ErrArgType.Detailf("len(%s)", a[0].Kind())
}

func parseInteger(v Value) (*big.Int, error) {
	if s, ok := v.(String); ok {
		n, ok := new(big.Int).SetString(strings.TrimSpace(string(s)), 0)
		if !ok {
			return nil, ErrValue.Detailf("invalid integer %q", string(s))
		}

		return n, nil
	}

	n, ok := toBig(v)
	if !ok {
		return nil, ErrArgType.Detailf("cannot convert %s to an integer", v.Kind())
	}

	return n, nil
}

func builtinInt(a []Value) (Value, error) {
	n, err := parseInteger(a[0])
	if err != nil {
		return nil, err
	}

	return IntOf(n), nil
}

func builtinBigInt(a []Value) (Value, error) {
	if s, ok := a[0].(String); ok {
		a = []Value{String(strings.TrimSuffix(strings.TrimSpace(string(s)), "n"))}
	}

	n, err := parseInteger(a[0])
	if err != nil {
		return nil, err
	}

	return BigIntOf(n), nil
}

func builtinFloat(a []Value) (Value, error) {
	switch v := a[0].(type) {
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, ErrValue.Detailf("invalid float %q", string(v))
		}

		return Float(f), nil
	case Char:
		return nil, ErrArgType.Detailf("cannot convert char to float")
	}

	if numRank(a[0]) < 0 {
		return nil, ErrArgType.Detailf("cannot convert %s to float", a[0].Kind())
	}

	return Float(toFloat(a[0])), nil
}

func builtinDecimal(a []Value) (Value, error) {
	if s, ok := a[0].(String); ok {
		d, err := decimal.NewFromString(strings.TrimSuffix(strings.TrimSpace(string(s)), "d"))
		if err != nil {
			return nil, ErrValue.Wrap(err)
		}

		return DecimalOf(d), nil
	}

	d, ok := toDecimal(a[0])
	if !ok {
		return nil, ErrArgType.Detailf("cannot convert %s to decimal", a[0].Kind())
	}

	return DecimalOf(d), nil
}

func builtinChr(a []Value) (Value, error) {
	n, ok := toInteger(a[0])
	if !ok || !n.IsInt64() || n.Int64() > math.MaxInt32 || !utf8.ValidRune(rune(n.Int64())) {
		return nil, ErrValue.Detailf("chr(%s)", a[0])
	}

	return Char(rune(n.Int64())), nil
}

func builtinOrd(a []Value) (Value, error) {
	s, ok := textOf(a[0])
	if !ok || runeLen(s) != 1 {
		return nil, ErrArgType.Detailf("ord expects a single character")
	}

	r, _ := utf8.DecodeRuneInString(s)

	return NewInt(int64(r)), nil
}

func builtinAbs(a []Value) (Value, error) {
	switch v := a[0].(type) {
	case Int:
		return IntOf(new(big.Int).Abs(v.v)), nil
	case BigInt:
		return BigIntOf(new(big.Int).Abs(v.v)), nil
	case Bool:
		return NewInt(int64(boolInt(v))), nil
	case Float:
		return Float(math.Abs(float64(v))), nil
	case Decimal:
		return DecimalOf(v.v.Abs()), nil
	}

	return nil, ErrArgType.Detailf("abs(%s)", a[0].Kind())
}

func builtinRound(a []Value) (Value, error) {
	places := int64(0)

	if len(a) == 2 {
		n, ok := toInteger(a[1])
		if !ok || !n.IsInt64() {
			return nil, ErrArgType.Detailf("round places must be an integer")
		}

		places = n.Int64()
	}

	switch v := a[0].(type) {
	case Int, BigInt, Bool:
		return v, nil
	case Decimal:
		return DecimalOf(v.v.RoundBank(int32(places))), nil
	case Float:
		if len(a) == 1 {
			n, ok := toBig(Float(math.RoundToEven(float64(v))))
			if !ok {
				return nil, ErrValue.Detailf("cannot round %s", v)
			}

			return IntOf(n), nil
		}

		p := math.Pow(10, float64(places))

		return Float(math.RoundToEven(float64(v)*p) / p), nil
	}

	return nil, ErrArgType.Detailf("round(%s)", a[0].Kind())
}

// operands returns the values min and max range over: the elements of a
// single iterable argument, or the arguments themselves.
func operands(a []Value) ([]Value, error) {
	if len(a) != 1 {
		return a, nil
	}

	return collect(a[0])
}

func extremum(sign int) func([]Value) (Value, error) {
	return func(a []Value) (Value, error) {
		vals, err := operands(a)
		if err != nil {
			return nil, err
		}

		if len(vals) == 0 {
			return nil, ErrValue.Detailf("empty sequence")
		}

		best := vals[0]

		for _, v := range vals[1:] {
			c, err := Compare(v, best)
			if err != nil {
				return nil, err
			}

			if c*sign > 0 {
				best = v
			}
		}

		return best, nil
	}
}

func builtinSum(a []Value) (Value, error) {
	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	var total Value = NewInt(0)
	if len(a) == 2 {
		total = a[1]
	}

	for _, v := range vals {
		if total, err = BinaryOp("+", total, v); err != nil {
			return nil, err
		}
	}

	return total, nil
}

func builtinRange(a []Value) (Value, error) {
	bounds := make([]*big.Int, len(a))

	for i, v := range a {
		n, ok := toInteger(v)
		if !ok {
			return nil, ErrArgType.Detailf("range arguments must be integers, not %s", v.Kind())
		}

		bounds[i] = n
	}

	r := &Range{Lo: new(big.Int), Step: one}

	switch len(bounds) {
	case 1:
		r.Hi = bounds[0]
	case 2:
		r.Lo, r.Hi = bounds[0], bounds[1]
	default:
		r.Lo, r.Hi, r.Step = bounds[0], bounds[1], bounds[2]
		if r.Step.Sign() == 0 {
			return nil, ErrValue.Detailf("range step cannot be zero")
		}
	}

	return r, nil
}

func builtinSorted(ctx context.Context, in *Interpreter, a []Value) (Value, error) {
	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	keys := vals

	if len(a) == 2 {
		keys = make([]Value, len(vals))
		for i, v := range vals {
			if keys[i], err = in.call(ctx, a[1], []Value{v}, nil); err != nil {
				return nil, err
			}
		}
	}

	order := make([]int, len(vals))
	for i := range order {
		order[i] = i
	}

	var cmpErr error

	slices.SortStableFunc(order, func(x, y int) int {
		c, err := Compare(keys[x], keys[y])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}

		return c
	})

	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]Value, len(vals))
	for i, j := range order {
		out[i] = vals[j]
	}

	return NewArray(out...), nil
}

func builtinReversed(a []Value) (Value, error) {
	if s, ok := a[0].(String); ok {
		rs := []rune(string(s))
		slices.Reverse(rs)

		return String(rs), nil
	}

	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	slices.Reverse(vals)

	return NewArray(vals...), nil
}

func builtinKeys(a []Value) (Value, error) {
	switch v := a[0].(type) {
	case *Dict:
		return NewArray(slices.Clone(v.keys)...), nil
	case *Struct:
		names := make([]Value, len(v.names))
		for i, n := range v.names {
			names[i] = String(n)
		}

		return NewArray(names...), nil
	}

	return nil, ErrArgType.Detailf("keys(%s)", a[0].Kind())
}

func builtinValues(a []Value) (Value, error) {
	switch v := a[0].(type) {
	case *Dict:
		return NewArray(slices.Clone(v.vals)...), nil
	case *Struct:
		vals := make([]Value, len(v.names))
		for i, n := range v.names {
			vals[i] = v.fields[n]
		}

		return NewArray(vals...), nil
	}

	return nil, ErrArgType.Detailf("values(%s)", a[0].Kind())
}

func builtinPush(a []Value) (Value, error) {
	arr, ok := a[0].(*Array)
	if !ok {
		return nil, ErrArgType.Detailf("push(%s)", a[0].Kind())
	}

	return arrayPush(arr, a[1:])
}

func builtinPop(a []Value) (Value, error) {
	arr, ok := a[0].(*Array)
	if !ok {
		return nil, ErrArgType.Detailf("pop(%s)", a[0].Kind())
	}

	return arrayPop(arr, a[1:])
}

func builtinArray(a []Value) (Value, error) {
	if len(a) == 0 {
		return NewArray(), nil
	}

	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	return NewArray(vals...), nil
}

func builtinTuple(a []Value) (Value, error) {
	if len(a) == 0 {
		return NewTuple(), nil
	}

	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	return NewTuple(vals...), nil
}

func builtinSet(a []Value) (Value, error) {
	if len(a) == 0 {
		return NewSet(), nil
	}

	vals, err := collect(a[0])
	if err != nil {
		return nil, err
	}

	return setOf(vals)
}

func builtinMap(ctx context.Context, in *Interpreter, a []Value) (Value, error) {
	vals, err := collect(a[1])
	if err != nil {
		return nil, err
	}

	out := make([]Value, len(vals))
	for i, v := range vals {
		if out[i], err = in.call(ctx, a[0], []Value{v}, nil); err != nil {
			return nil, err
		}
	}

	return NewArray(out...), nil
}

func builtinFilter(ctx context.Context, in *Interpreter, a []Value) (Value, error) {
	vals, err := collect(a[1])
	if err != nil {
		return nil, err
	}

	var out []Value

	for _, v := range vals {
		keep, err := in.call(ctx, a[0], []Value{v}, nil)
		if err != nil {
			return nil, err
		}

		if Truthy(keep) {
			out = append(out, v)
		}
	}

	return NewArray(out...), nil
}

func builtinReduce(ctx context.Context, in *Interpreter, a []Value) (Value, error) {
	vals, err := collect(a[1])
	if err != nil {
		return nil, err
	}

	var acc Value

	switch {
	case len(a) == 3:
		acc = a[2]
	case len(vals) == 0:
		return nil, ErrValue.Detailf("reduce of empty sequence with no initial value")
	default:
		acc, vals = vals[0], vals[1:]
	}

	for _, v := range vals {
		if acc, err = in.call(ctx, a[0], []Value{acc, v}, nil); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func builtinAssert(a []Value) (Value, error) {
	if Truthy(a[0]) {
		return NullValue, nil
	}

	if len(a) == 2 {
		return nil, ErrAssert.Detailf("%s", a[1])
	}

	return nil, ErrAssert
}
