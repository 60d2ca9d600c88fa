package lang

import (
	"iter"
	"math/big"
	"strings"
)

type (
	// Array is a mutable ordered sequence shared by reference.
	Array struct {
		Elems []Value
	}

	// Tuple is an immutable ordered sequence.
	Tuple struct {
		Elems []Value
	}

	// Set is an insertion-ordered collection of unique hashable values.
	Set struct {
		index map[string]int
		elems []Value
	}

	// Dict is an insertion-ordered map with unique hashable keys.
	Dict struct {
		index map[string]int
		keys  []Value
		vals  []Value
	}

	// Range is the integer sequence Lo, Lo+Step, ... up to Hi, which is
	// excluded unless Inclusive is set.
	Range struct {
		Lo, Hi, Step *big.Int
		Inclusive    bool
	}
)

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array { return &Array{Elems: elems} }

// NewTuple returns a tuple holding elems.
func NewTuple(elems ...Value) *Tuple { return &Tuple{Elems: elems} }

// NewSet returns an empty set.
func NewSet() *Set { return &Set{index: map[string]int{}} }

// NewDict returns an empty dict.
func NewDict() *Dict { return &Dict{index: map[string]int{}} }

func (*Array) Kind() Kind { return KindArray }
func (*Tuple) Kind() Kind { return KindTuple }
func (*Set) Kind() Kind   { return KindSet }
func (*Dict) Kind() Kind  { return KindDict }
func (*Range) Kind() Kind { return KindRange }

func (*Array) value() {}
func (*Tuple) value() {}
func (*Set) value()   {}
func (*Dict) value()  {}
func (*Range) value() {}

func joinRepr(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = Repr(e)
	}

	return strings.Join(parts, ", ")
}

func (a *Array) String() string { return "[" + joinRepr(a.Elems) + "]" }

func (t *Tuple) String() string {
	if len(t.Elems) == 1 {
		return "(" + Repr(t.Elems[0]) + ",)"
	}

	return "(" + joinRepr(t.Elems) + ")"
}

func (s *Set) String() string {
	if len(s.elems) == 0 {
		return "set()"
	}

	return "{" + joinRepr(s.elems) + "}"
}

func (d *Dict) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i := range d.keys {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(Repr(d.keys[i]))
		b.WriteString(": ")
		b.WriteString(Repr(d.vals[i]))
	}

	b.WriteByte('}')

	return b.String()
}

func (r *Range) String() string {
	if r.Step.Cmp(one) != 0 {
		end := r.Hi
		if r.Inclusive {
			end = new(big.Int).Add(r.Hi, big.NewInt(int64(r.Step.Sign())))
		}

		return "range(" + r.Lo.String() + ", " + end.String() + ", " + r.Step.String() + ")"
	}

	if r.Inclusive {
		return r.Lo.String() + "..=" + r.Hi.String()
	}

	return r.Lo.String() + ".." + r.Hi.String()
}

// ---------------------------------------------------------------------------
// Set

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Elems returns the elements in insertion order. Callers must not modify the
// returned slice.
func (s *Set) Elems() []Value { return s.elems }

// Add inserts v, reporting an error if v is not hashable.
func (s *Set) Add(v Value) error {
	k, err := hashKey(v)
	if err != nil {
		return err
	}

	if _, ok := s.index[k]; !ok {
		s.index[k] = len(s.elems)
		s.elems = append(s.elems, v)
	}

	return nil
}

// Has reports whether v is an element.
func (s *Set) Has(v Value) bool {
	k, err := hashKey(v)
	if err != nil {
		return false
	}

	_, ok := s.index[k]

	return ok
}

// Remove deletes v and reports whether it was present.
func (s *Set) Remove(v Value) bool {
	k, err := hashKey(v)
	if err != nil {
		return false
	}

	i, ok := s.index[k]
	if !ok {
		return false
	}

	s.elems = append(s.elems[:i], s.elems[i+1:]...)
	delete(s.index, k)

	for j := i; j < len(s.elems); j++ {
		kj, _ := hashKey(s.elems[j])
		s.index[kj] = j
	}

	return true
}

func setOf(elems []Value) (*Set, error) {
	s := NewSet()
	for _, e := range elems {
		if err := s.Add(e); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ---------------------------------------------------------------------------
// Dict

// Len returns the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Keys returns the keys in insertion order. Callers must not modify the
// returned slice.
func (d *Dict) Keys() []Value { return d.keys }

// Values returns the values in key insertion order. Callers must not modify
// the returned slice.
func (d *Dict) Values() []Value { return d.vals }

// Get returns the value stored under k.
func (d *Dict) Get(k Value) (Value, bool) {
	hk, err := hashKey(k)
	if err != nil {
		return nil, false
	}

	i, ok := d.index[hk]
	if !ok {
		return nil, false
	}

	return d.vals[i], true
}

// Set stores v under k, keeping the original position of an existing key.
func (d *Dict) Set(k, v Value) error {
	hk, err := hashKey(k)
	if err != nil {
		return err
	}

	if i, ok := d.index[hk]; ok {
		d.vals[i] = v

		return nil
	}

	d.index[hk] = len(d.keys)
	d.keys = append(d.keys, k)
	d.vals = append(d.vals, v)

	return nil
}

// Delete removes k and reports whether it was present.
func (d *Dict) Delete(k Value) bool {
	hk, err := hashKey(k)
	if err != nil {
		return false
	}

	i, ok := d.index[hk]
	if !ok {
		return false
	}

	d.keys = append(d.keys[:i], d.keys[i+1:]...)
	d.vals = append(d.vals[:i], d.vals[i+1:]...)
	delete(d.index, hk)

	for j := i; j < len(d.keys); j++ {
		kj, _ := hashKey(d.keys[j])
		d.index[kj] = j
	}

	return true
}

// All iterates over the entries in insertion order.
func (d *Dict) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for i := range d.keys {
			if !yield(d.keys[i], d.vals[i]) {
				return
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Range

var one = big.NewInt(1)

// NewRange returns the range lo..hi (or lo..=hi) with step 1.
func NewRange(lo, hi *big.Int, inclusive bool) *Range {
	return &Range{Lo: lo, Hi: hi, Step: one, Inclusive: inclusive}
}

// Len returns the number of integers in the range.
func (r *Range) Len() *big.Int {
	// Normalize to a half-open interval [lo, end) in the direction of step.
	end := r.Hi
	if r.Inclusive {
		end = new(big.Int).Add(r.Hi, big.NewInt(int64(r.Step.Sign())))
	}

	span := new(big.Int).Sub(end, r.Lo)
	if span.Sign() != r.Step.Sign() || span.Sign() == 0 {
		return new(big.Int)
	}

	step := new(big.Int).Abs(r.Step)
	span.Abs(span)
	span.Add(span, step)
	span.Sub(span, one)

	return span.Quo(span, step)
}

// At returns the i-th element of the range, assuming 0 <= i < Len().
func (r *Range) At(i *big.Int) *big.Int {
	v := new(big.Int).Mul(i, r.Step)

	return v.Add(v, r.Lo)
}

// Contains reports whether n is one of the range's elements.
func (r *Range) Contains(n *big.Int) bool {
	off := new(big.Int).Sub(n, r.Lo)
	q, m := new(big.Int).QuoRem(off, r.Step, new(big.Int))

	if m.Sign() != 0 || q.Sign() < 0 {
		return false
	}

	return q.Cmp(r.Len()) < 0
}

// All iterates over the range lazily.
func (r *Range) All() iter.Seq[*big.Int] {
	return func(yield func(*big.Int) bool) {
		n := r.Len()
		for i := new(big.Int); i.Cmp(n) < 0; i.Add(i, one) {
			if !yield(r.At(i)) {
				return
			}
		}
	}
}
