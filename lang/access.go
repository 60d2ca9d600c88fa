package lang

import (
	"iter"
	"math/big"
	"strconv"
)

// member resolves obj.name.
func (in *Interpreter) member(obj Value, name string) (Value, error) {
	switch o := obj.(type) {
	case *Struct:
		if v, ok := o.Field(name); ok {
			return v, nil
		}

	case *Union:
		if name == o.Field {
			return o.Value, nil
		}

		if fieldIndex(o.Def.Fields, name) >= 0 {
			return nil, ErrInactive.Detailf("%s.%s (active field is %s)", o.Def.Name, name, o.Field)
		}

	case *Dict:
		if v, ok := o.Get(String(name)); ok {
			return v, nil
		}

	case *Tuple:
		if i, err := strconv.Atoi(name); err == nil {
			if i < 0 || i >= len(o.Elems) {
				return nil, ErrIndex.Detailf("tuple index %d", i)
			}

			return o.Elems[i], nil
		}
	}

	if m, ok := boundMethod(obj, name); ok {
		return m, nil
	}

	return nil, ErrMember.Detailf("%s has no member %s", TypeName(obj), name)
}

// setMember implements obj.name = v.
func (in *Interpreter) setMember(obj Value, name string, v Value, env *Environment) error {
	switch o := obj.(type) {
	case *Struct:
		if _, ok := o.Field(name); !ok {
			return ErrMember.Detailf("%s has no field %s", o.Name, name)
		}

		var width *IntType
		if def, ok := env.LookupStruct(o.Name); ok {
			if i := fieldIndex(def.Fields, name); i >= 0 {
				width = env.IntType(def.Fields[i].Type)
			}
		}

		w, err := wrapValue(width, v)
		if err != nil {
			return err
		}

		o.set(name, w)

		return nil

	case *Union:
		i := fieldIndex(o.Def.Fields, name)
		if i < 0 {
			return ErrMember.Detailf("%s has no field %s", o.Def.Name, name)
		}

		w, err := wrapValue(env.IntType(o.Def.Fields[i].Type), v)
		if err != nil {
			return err
		}

		o.Field, o.Value = name, w

		return nil

	case *Dict:
		return o.Set(String(name), v)
	}

	return ErrMember.Detailf("cannot set member %s of %s", name, TypeName(obj))
}

// position converts an index value to an offset into a sequence of length
// n, counting negative indices from the end.
func position(idx Value, n int) (int, error) {
	b, ok := toInteger(idx)
	if !ok {
		return 0, ErrArgType.Detailf("index must be an integer, not %s", idx.Kind())
	}

	if !b.IsInt64() {
		return 0, ErrIndex.Detailf("index %s", b)
	}

	i := b.Int64()
	if i < 0 {
		i += int64(n)
	}

	if i < 0 || i >= int64(n) {
		return 0, ErrIndex.Detailf("index %s, length %d", b, n)
	}

	return int(i), nil
}

func index(obj, idx Value) (Value, error) {
	switch o := obj.(type) {
	case *Array:
		i, err := position(idx, len(o.Elems))
		if err != nil {
			return nil, err
		}

		return o.Elems[i], nil

	case *Tuple:
		i, err := position(idx, len(o.Elems))
		if err != nil {
			return nil, err
		}

		return o.Elems[i], nil

	case String:
		rs := []rune(string(o))

		i, err := position(idx, len(rs))
		if err != nil {
			return nil, err
		}

		return String(rs[i]), nil

	case *Dict:
		v, ok := o.Get(idx)
		if !ok {
			if _, err := hashKey(idx); err != nil {
				return nil, err
			}

			return nil, ErrKey.Detailf("%s", Repr(idx))
		}

		return v, nil

	case *Range:
		n := o.Len()
		if !n.IsInt64() {
			return nil, ErrIndex.Detailf("range too large")
		}

		i, err := position(idx, int(n.Int64()))
		if err != nil {
			return nil, err
		}

		return IntOf(o.At(big.NewInt(int64(i)))), nil
	}

	return nil, ErrNotIndexable.Detailf("%s", obj.Kind())
}

func setIndex(obj, idx, v Value) error {
	switch o := obj.(type) {
	case *Array:
		i, err := position(idx, len(o.Elems))
		if err != nil {
			return err
		}

		o.Elems[i] = v

		return nil

	case *Dict:
		return o.Set(idx, v)
	}

	return ErrNotIndexable.Detailf("cannot assign to element of %s", obj.Kind())
}

// sliceBound converts an optional slice bound to an int, clamping values
// beyond the int range.
func sliceBound(v Value) (*int, error) {
	if v == nil {
		return nil, nil
	}

	if _, ok := v.(Null); ok {
		return nil, nil
	}

	b, ok := toInteger(v)
	if !ok {
		return nil, ErrArgType.Detailf("slice bound must be an integer, not %s", v.Kind())
	}

	var i int

	switch {
	case b.IsInt64():
		i = int(b.Int64())
	case b.Sign() < 0:
		i = -int(^uint(0) >> 1)
	default:
		i = int(^uint(0) >> 1)
	}

	return &i, nil
}

// sliceIndices returns the offsets selected by lo:hi:step over a sequence
// of length n.
func sliceIndices(n int, lo, hi, step Value) ([]int, error) {
	l, err := sliceBound(lo)
	if err != nil {
		return nil, err
	}

	h, err := sliceBound(hi)
	if err != nil {
		return nil, err
	}

	s, err := sliceBound(step)
	if err != nil {
		return nil, err
	}

	st := 1
	if s != nil {
		st = *s
	}

	if st == 0 {
		return nil, ErrValue.Detailf("slice step cannot be zero")
	}

	clamp := func(p *int, def, floor, ceil int) int {
		if p == nil {
			return def
		}

		i := *p
		if i < 0 {
			i += n
		}

		return min(max(i, floor), ceil)
	}

	var start, stop int
	if st > 0 {
		start = clamp(l, 0, 0, n)
		stop = clamp(h, n, 0, n)
	} else {
		start = clamp(l, n-1, -1, n-1)
		stop = clamp(h, -1, -1, n-1)
	}

	var out []int
	for i := start; (st > 0 && i < stop) || (st < 0 && i > stop); i += st {
		out = append(out, i)
	}

	return out, nil
}

func slice(obj, lo, hi, step Value) (Value, error) {
	switch o := obj.(type) {
	case *Array:
		idx, err := sliceIndices(len(o.Elems), lo, hi, step)
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(idx))
		for i, j := range idx {
			out[i] = o.Elems[j]
		}

		return NewArray(out...), nil

	case *Tuple:
		idx, err := sliceIndices(len(o.Elems), lo, hi, step)
		if err != nil {
			return nil, err
		}

		out := make([]Value, len(idx))
		for i, j := range idx {
			out[i] = o.Elems[j]
		}

		return NewTuple(out...), nil

	case String:
		rs := []rune(string(o))

		idx, err := sliceIndices(len(rs), lo, hi, step)
		if err != nil {
			return nil, err
		}

		out := make([]rune, len(idx))
		for i, j := range idx {
			out[i] = rs[j]
		}

		return String(out), nil
	}

	return nil, ErrNotIndexable.Detailf("cannot slice %s", obj.Kind())
}

// iterate returns the elements a for-in loop visits. Arrays are read live
// so appends during iteration are observed.
func iterate(v Value) (iter.Seq[Value], error) {
	switch o := v.(type) {
	case *Array:
		return func(yield func(Value) bool) {
			for i := 0; i < len(o.Elems); i++ {
				if !yield(o.Elems[i]) {
					return
				}
			}
		}, nil

	case *Tuple:
		return valuesOf(o.Elems), nil

	case *Set:
		return valuesOf(append([]Value(nil), o.elems...)), nil

	case *Dict:
		return valuesOf(append([]Value(nil), o.keys...)), nil

	case *Range:
		return func(yield func(Value) bool) {
			for n := range o.All() {
				if !yield(IntOf(n)) {
					return
				}
			}
		}, nil

	case String:
		return func(yield func(Value) bool) {
			for _, r := range string(o) {
				if !yield(String(r)) {
					return
				}
			}
		}, nil
	}

	return nil, ErrNotIterable.Detailf("%s", TypeName(v))
}

func valuesOf(elems []Value) iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, e := range elems {
			if !yield(e) {
				return
			}
		}
	}
}

// collect materializes the elements of an iterable value.
func collect(v Value) ([]Value, error) {
	seq, err := iterate(v)
	if err != nil {
		return nil, err
	}

	var out []Value
	for e := range seq {
		out = append(out, e)
	}

	return out, nil
}
