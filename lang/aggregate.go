package lang

import (
	"context"
	"strings"

	"github.com/ardnew/zyra/lang/ast"
)

type (
	// StructDef is a declared struct type.
	StructDef struct {
		Name   string
		Fields []ast.Field
	}

	// UnionDef is a declared union type.
	UnionDef struct {
		Name   string
		Fields []ast.Field
	}

	// EnumDef is a declared enum type.
	EnumDef struct {
		Name     string
		Variants []ast.Variant
	}
)

func fieldIndex(fields []ast.Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}

	return -1
}

// Variant returns the named variant of d.
func (d *EnumDef) Variant(name string) (ast.Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}

	return ast.Variant{}, false
}

type (
	// Struct is an instance of a struct type. Fields are mutable and shared
	// by reference.
	Struct struct {
		Name   string
		names  []string
		fields map[string]Value
	}

	// Union is an instance of a union type with exactly one active field.
	Union struct {
		Def   *UnionDef
		Field string
		Value Value
	}

	// Enum is a variant of an enum type together with its data.
	Enum struct {
		Enum    string
		Variant string
		Data    []Value
	}
)

func newStruct(name string) *Struct {
	return &Struct{Name: name, fields: map[string]Value{}}
}

// Field returns the value of the named field.
func (s *Struct) Field(name string) (Value, bool) {
	v, ok := s.fields[name]

	return v, ok
}

// Fields returns the field names in declaration order.
func (s *Struct) Fields() []string { return s.names }

func (s *Struct) set(name string, v Value) {
	if _, ok := s.fields[name]; !ok {
		s.names = append(s.names, name)
	}

	s.fields[name] = v
}

func (*Struct) Kind() Kind { return KindStruct }
func (*Union) Kind() Kind  { return KindUnion }
func (*Enum) Kind() Kind   { return KindEnum }

func (*Struct) value() {}
func (*Union) value()  {}
func (*Enum) value()   {}

func (s *Struct) String() string {
	if len(s.names) == 0 {
		return s.Name + " {}"
	}

	parts := make([]string, len(s.names))
	for i, n := range s.names {
		parts[i] = n + ": " + Repr(s.fields[n])
	}

	return s.Name + " { " + strings.Join(parts, ", ") + " }"
}

func (u *Union) String() string {
	return u.Def.Name + " { " + u.Field + ": " + Repr(u.Value) + " }"
}

func (e *Enum) String() string {
	s := e.Enum + "::" + e.Variant
	if len(e.Data) > 0 {
		s += "(" + joinRepr(e.Data) + ")"
	}

	return s
}

// NativeFunc implements a builtin. It receives the calling interpreter so it
// can call back into user functions.
type NativeFunc func(ctx context.Context, in *Interpreter, args []Value) (Value, error)

type (
	// Function is a named function closing over its defining environment.
	Function struct {
		Decl *ast.FuncDecl
		Env  *Environment
	}

	// Lambda is an anonymous single-expression function.
	Lambda struct {
		Decl *ast.Lambda
		Env  *Environment
	}

	// Native is a function implemented in Go. Max < 0 means variadic.
	Native struct {
		Fn   NativeFunc
		Name string
		Min  int
		Max  int
	}
)

func (*Function) Kind() Kind { return KindFunction }
func (*Lambda) Kind() Kind   { return KindLambda }
func (*Native) Kind() Kind   { return KindNative }

func (*Function) value() {}
func (*Lambda) value()   {}
func (*Native) value()   {}

func (f *Function) String() string { return "<fnc " + f.Decl.Name + ">" }
func (*Lambda) String() string     { return "<lambda>" }
func (n *Native) String() string   { return "<native " + n.Name + ">" }
