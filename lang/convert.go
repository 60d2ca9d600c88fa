package lang

import (
	"fmt"
	"maps"
	"math/big"
	"reflect"
	"slices"
)

// FromNative converts a Go value produced by a host library into a [Value].
// Maps become dicts with sorted keys; unsupported values are converted to
// their fmt representation.
func FromNative(x any) Value {
	switch x := x.(type) {
	case nil:
		return NullValue
	case Value:
		return x
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return NewInt(int64(x))
	case int8:
		return NewInt(int64(x))
	case int16:
		return NewInt(int64(x))
	case int32:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case uint:
		return IntOf(new(big.Int).SetUint64(uint64(x)))
	case uint8:
		return NewInt(int64(x))
	case uint16:
		return NewInt(int64(x))
	case uint32:
		return NewInt(int64(x))
	case uint64:
		return IntOf(new(big.Int).SetUint64(x))
	case float32:
		return Float(x)
	case float64:
		return Float(x)
	case *big.Int:
		return BigIntOf(new(big.Int).Set(x))
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			elems[i] = FromNative(e)
		}

		return NewArray(elems...)
	case map[string]any:
		d := NewDict()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			_ = d.Set(String(k), FromNative(x[k]))
		}

		return d
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		elems := make([]Value, rv.Len())
		for i := range elems {
			elems[i] = FromNative(rv.Index(i).Interface())
		}

		return NewArray(elems...)
	case reflect.Map:
		d := NewDict()

		keys := rv.MapKeys()
		slices.SortFunc(keys, func(a, b reflect.Value) int {
			c, _ := Compare(String(fmt.Sprint(a.Interface())), String(fmt.Sprint(b.Interface())))

			return c
		})

		for _, k := range keys {
			_ = d.Set(FromNative(k.Interface()), FromNative(rv.MapIndex(k).Interface()))
		}

		return d
	}

	return String(fmt.Sprint(x))
}

// ToNative converts v into plain Go data suitable for encoding: nil, bool,
// int64, float64, string, []any and map[string]any. Integers beyond the
// int64 range and decimals are rendered as strings.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(v)
	case Int:
		if v.v.IsInt64() {
			return v.v.Int64()
		}

		return v.v.String()
	case BigInt:
		return v.v.String()
	case Float:
		return float64(v)
	case Decimal:
		return v.v.String()
	case String:
		return string(v)
	case Char:
		return string(rune(v))
	case *Array:
		return nativeList(v.Elems)
	case *Tuple:
		return nativeList(v.Elems)
	case *Set:
		return nativeList(v.elems)
	case *Dict:
		m := make(map[string]any, v.Len())
		for k, e := range v.All() {
			m[k.String()] = ToNative(e)
		}

		return m
	case *Struct:
		m := make(map[string]any, len(v.names))
		for _, n := range v.names {
			m[n] = ToNative(v.fields[n])
		}

		return m
	case *Union:
		return map[string]any{v.Field: ToNative(v.Value)}
	case *Enum:
		if len(v.Data) == 0 {
			return v.String()
		}

		return map[string]any{v.Enum + "::" + v.Variant: nativeList(v.Data)}
	}

	return v.String()
}

func nativeList(elems []Value) []any {
	out := make([]any, len(elems))
	for i, e := range elems {
		out[i] = ToNative(e)
	}

	return out
}
