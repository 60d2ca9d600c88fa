package lang

import (
	"context"
	"slices"
	"strings"
)

// method is a builtin method of a value kind. fn receives the receiver
// followed by the call arguments.
type method struct {
	fn       func(recv Value, args []Value) (Value, error)
	min, max int
}

var (
	arrayMethods = map[string]method{
		"push": {min: 1, max: -1, fn: func(r Value, a []Value) (Value, error) {
			return arrayPush(r.(*Array), a)
		}},
		"pop": {min: 0, max: 1, fn: func(r Value, a []Value) (Value, error) {
			return arrayPop(r.(*Array), a)
		}},
		"insert":   {min: 2, max: 2, fn: arrayInsert},
		"remove":   {min: 1, max: 1, fn: arrayRemove},
		"contains": {min: 1, max: 1, fn: containsMethod},
		"len":      {min: 0, max: 0, fn: lenMethod},
		"join":     {min: 0, max: 1, fn: arrayJoin},
	}

	stringMethods = map[string]method{
		"len":         {min: 0, max: 0, fn: lenMethod},
		"upper":       {min: 0, max: 0, fn: textMethod(strings.ToUpper)},
		"lower":       {min: 0, max: 0, fn: textMethod(strings.ToLower)},
		"trim":        {min: 0, max: 0, fn: textMethod(strings.TrimSpace)},
		"split":       {min: 0, max: 1, fn: stringSplit},
		"contains":    {min: 1, max: 1, fn: containsMethod},
		"starts_with": {min: 1, max: 1, fn: textTest(strings.HasPrefix)},
		"ends_with":   {min: 1, max: 1, fn: textTest(strings.HasSuffix)},
		"replace":     {min: 2, max: 2, fn: stringReplace},
	}

	dictMethods = map[string]method{
		"keys":   {min: 0, max: 0, fn: func(r Value, _ []Value) (Value, error) { return builtinKeys([]Value{r}) }},
		"values": {min: 0, max: 0, fn: func(r Value, _ []Value) (Value, error) { return builtinValues([]Value{r}) }},
		"items":  {min: 0, max: 0, fn: dictItems},
		"has":    {min: 1, max: 1, fn: containsMethod},
		"get":    {min: 1, max: 2, fn: dictGet},
		"remove": {min: 1, max: 1, fn: dictRemove},
		"len":    {min: 0, max: 0, fn: lenMethod},
	}

	setMethods = map[string]method{
		"add":    {min: 1, max: 1, fn: setAdd},
		"remove": {min: 1, max: 1, fn: setRemove},
		"has":    {min: 1, max: 1, fn: containsMethod},
		"len":    {min: 0, max: 0, fn: lenMethod},
	}
)

// boundMethod returns the builtin method name of obj bound to obj.
func boundMethod(obj Value, name string) (*Native, bool) {
	var table map[string]method

	switch obj.(type) {
	case *Array:
		table = arrayMethods
	case String:
		table = stringMethods
	case *Dict:
		table = dictMethods
	case *Set:
		table = setMethods
	default:
		return nil, false
	}

	m, ok := table[name]
	if !ok {
		return nil, false
	}

	return &Native{
		Name: obj.Kind().String() + "." + name,
		Min:  m.min,
		Max:  m.max,
		Fn: func(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
			return m.fn(obj, args)
		},
	}, true
}

// Methods returns the builtin method names of values of kind k.
func Methods(k Kind) []string {
	var table map[string]method

	switch k {
	case KindArray:
		table = arrayMethods
	case KindString:
		table = stringMethods
	case KindDict:
		table = dictMethods
	case KindSet:
		table = setMethods
	}

	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

func lenMethod(r Value, _ []Value) (Value, error) { return builtinLen([]Value{r}) }

func containsMethod(r Value, a []Value) (Value, error) {
	ok, err := contains(r, a[0])

	return Bool(ok), err
}

func arrayPush(arr *Array, vals []Value) (Value, error) {
	arr.Elems = append(arr.Elems, vals...)

	return NullValue, nil
}

func arrayPop(arr *Array, a []Value) (Value, error) {
	if len(arr.Elems) == 0 {
		return nil, ErrIndex.Detailf("pop from empty array")
	}

	i := len(arr.Elems) - 1

	if len(a) == 1 {
		var err error
		if i, err = position(a[0], len(arr.Elems)); err != nil {
			return nil, err
		}
	}

	v := arr.Elems[i]
	arr.Elems = slices.Delete(arr.Elems, i, i+1)

	return v, nil
}

func arrayInsert(r Value, a []Value) (Value, error) {
	arr := r.(*Array)

	n, ok := toInteger(a[0])
	if !ok || !n.IsInt64() {
		return nil, ErrArgType.Detailf("insert index must be an integer")
	}

	i := int(n.Int64())
	if i < 0 {
		i += len(arr.Elems)
	}

	i = min(max(i, 0), len(arr.Elems))
	arr.Elems = slices.Insert(arr.Elems, i, a[1])

	return NullValue, nil
}

func arrayRemove(r Value, a []Value) (Value, error) {
	arr := r.(*Array)

	for i, e := range arr.Elems {
		if Equal(e, a[0]) {
			arr.Elems = slices.Delete(arr.Elems, i, i+1)

			return NullValue, nil
		}
	}

	return nil, ErrValue.Detailf("%s not in array", Repr(a[0]))
}

func arrayJoin(r Value, a []Value) (Value, error) {
	sep := ""

	if len(a) == 1 {
		s, ok := textOf(a[0])
		if !ok {
			return nil, ErrArgType.Detailf("join separator must be a string")
		}

		sep = s
	}

	elems := r.(*Array).Elems
	parts := make([]string, len(elems))

	for i, e := range elems {
		parts[i] = e.String()
	}

	return String(strings.Join(parts, sep)), nil
}

func textMethod(fn func(string) string) func(Value, []Value) (Value, error) {
	return func(r Value, _ []Value) (Value, error) {
		return String(fn(string(r.(String)))), nil
	}
}

func textTest(fn func(s, t string) bool) func(Value, []Value) (Value, error) {
	return func(r Value, a []Value) (Value, error) {
		t, ok := textOf(a[0])
		if !ok {
			return nil, ErrArgType.Detailf("expected a string, not %s", a[0].Kind())
		}

		return Bool(fn(string(r.(String)), t)), nil
	}
}

func stringSplit(r Value, a []Value) (Value, error) {
	s := string(r.(String))

	var parts []string

	if len(a) == 0 {
		parts = strings.Fields(s)
	} else {
		sep, ok := textOf(a[0])
		if !ok {
			return nil, ErrArgType.Detailf("split separator must be a string")
		}

		if sep == "" {
			return nil, ErrValue.Detailf("empty separator")
		}

		parts = strings.Split(s, sep)
	}

	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = String(p)
	}

	return NewArray(out...), nil
}

func stringReplace(r Value, a []Value) (Value, error) {
	old, ok1 := textOf(a[0])
	repl, ok2 := textOf(a[1])

	if !ok1 || !ok2 {
		return nil, ErrArgType.Detailf("replace expects strings")
	}

	return String(strings.ReplaceAll(string(r.(String)), old, repl)), nil
}

func dictItems(r Value, _ []Value) (Value, error) {
	d := r.(*Dict)
	out := make([]Value, 0, d.Len())

	for k, v := range d.All() {
		out = append(out, NewTuple(k, v))
	}

	return NewArray(out...), nil
}

func dictGet(r Value, a []Value) (Value, error) {
	if v, ok := r.(*Dict).Get(a[0]); ok {
		return v, nil
	}

	if len(a) == 2 {
		return a[1], nil
	}

	return NullValue, nil
}

func dictRemove(r Value, a []Value) (Value, error) {
	d := r.(*Dict)

	v, ok := d.Get(a[0])
	if !ok {
		return nil, ErrKey.Detailf("%s", Repr(a[0]))
	}

	d.Delete(a[0])

	return v, nil
}

func setAdd(r Value, a []Value) (Value, error) {
	return NullValue, r.(*Set).Add(a[0])
}

func setRemove(r Value, a []Value) (Value, error) {
	if !r.(*Set).Remove(a[0]) {
		return nil, ErrKey.Detailf("%s", Repr(a[0]))
	}

	return NullValue, nil
}
