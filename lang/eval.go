package lang

import (
	"context"
	"math/big"
	"strings"

	"github.com/ardnew/zyra/lang/ast"
)

func (in *Interpreter) eval(ctx context.Context, x ast.Expr, env *Environment) (Value, error) {
	v, err := in.evalExpr(ctx, x, env)
	if err != nil {
		return nil, locate(err, x.Pos())
	}

	return v, nil
}

func (in *Interpreter) evalExpr(ctx context.Context, x ast.Expr, env *Environment) (Value, error) {
	switch x := x.(type) {
	case *ast.Ident:
		v, ok := env.Get(x.Name)
		if !ok {
			return nil, ErrUndefined.Detailf("%s", x.Name)
		}

		return v, nil

	case *ast.NullLit:
		return NullValue, nil
	case *ast.BoolLit:
		return Bool(x.Value), nil
	case *ast.IntLit:
		return IntOf(x.Value), nil
	case *ast.FloatLit:
		return Float(x.Value), nil
	case *ast.BigIntLit:
		return BigIntOf(x.Value), nil
	case *ast.DecimalLit:
		return DecimalOf(x.Value), nil
	case *ast.CharLit:
		return Char(x.Value), nil
	case *ast.StringLit:
		return String(x.Value), nil

	case *ast.Interp:
		var b strings.Builder

		for _, part := range x.Parts {
			v, err := in.eval(ctx, part, env)
			if err != nil {
				return nil, err
			}

			b.WriteString(v.String())
		}

		return String(b.String()), nil

	case *ast.ArrayLit:
		elems, err := in.evalList(ctx, x.Elems, env)
		if err != nil {
			return nil, err
		}

		return NewArray(elems...), nil

	case *ast.TupleLit:
		elems, err := in.evalList(ctx, x.Elems, env)
		if err != nil {
			return nil, err
		}

		return NewTuple(elems...), nil

	case *ast.SetLit:
		elems, err := in.evalList(ctx, x.Elems, env)
		if err != nil {
			return nil, err
		}

		return setOf(elems)

	case *ast.DictLit:
		d := NewDict()

		for _, e := range x.Entries {
			k, err := in.eval(ctx, e.Key, env)
			if err != nil {
				return nil, err
			}

			v, err := in.eval(ctx, e.Value, env)
			if err != nil {
				return nil, err
			}

			if err := d.Set(k, v); err != nil {
				return nil, locate(err, e.Key.Pos())
			}
		}

		return d, nil

	case *ast.RangeLit:
		return in.evalRange(ctx, x, env)

	case *ast.Binary:
		l, err := in.eval(ctx, x.Left, env)
		if err != nil {
			return nil, err
		}

		r, err := in.eval(ctx, x.Right, env)
		if err != nil {
			return nil, err
		}

		return BinaryOp(x.Op, l, r)

	case *ast.Unary:
		switch x.Op {
		case "++", "--":
			return in.increment(x.X, x.Op, true, env)
		case "await":
			return in.eval(ctx, x.X, env)
		}

		v, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}

		return UnaryOp(x.Op, v)

	case *ast.Postfix:
		return in.increment(x.X, x.Op, false, env)

	case *ast.Ternary:
		c, err := in.eval(ctx, x.Cond, env)
		if err != nil {
			return nil, err
		}

		if Truthy(c) {
			return in.eval(ctx, x.Then, env)
		}

		return in.eval(ctx, x.Else, env)

	case *ast.Lambda:
		return &Lambda{Decl: x, Env: env}, nil

	case *ast.Call:
		return in.evalCall(ctx, x, env)

	case *ast.Member:
		if id, ok := x.X.(*ast.Ident); ok {
			if _, bound := env.Lookup(id.Name); !bound {
				if def, ok := env.LookupEnum(id.Name); ok {
					return enumMember(def, x.Name, env)
				}
			}
		}

		obj, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}

		return in.member(obj, x.Name)

	case *ast.Index:
		obj, err := in.eval(ctx, x.X, env)
		if err != nil {
			return nil, err
		}

		idx, err := in.eval(ctx, x.Index, env)
		if err != nil {
			return nil, err
		}

		return index(obj, idx)

	case *ast.Slice:
		return in.evalSlice(ctx, x, env)

	case *ast.StructLit:
		return in.evalStructLit(ctx, x, env)
	}

	return nil, ErrOperand.Detailf("unsupported expression %T", x)
}

func (in *Interpreter) evalList(ctx context.Context, xs []ast.Expr, env *Environment) ([]Value, error) {
	out := make([]Value, len(xs))

	for i, x := range xs {
		v, err := in.eval(ctx, x, env)
		if err != nil {
			return nil, err
		}

		out[i] = v
	}

	return out, nil
}

func (in *Interpreter) evalRange(ctx context.Context, x *ast.RangeLit, env *Environment) (Value, error) {
	bound := func(e ast.Expr) (*big.Int, error) {
		v, err := in.eval(ctx, e, env)
		if err != nil {
			return nil, err
		}

		n, ok := toInteger(v)
		if !ok {
			return nil, ErrArgType.Detailf("range bound must be an integer, not %s", v.Kind()).At(e.Pos())
		}

		return n, nil
	}

	lo, err := bound(x.Lo)
	if err != nil {
		return nil, err
	}

	hi, err := bound(x.Hi)
	if err != nil {
		return nil, err
	}

	return NewRange(lo, hi, x.Inclusive), nil
}

// increment applies ++ or -- to the variable named by target, returning
// the previous value for prefix forms and the stored value for postfix
// forms.
func (in *Interpreter) increment(target ast.Expr, op string, prefix bool, env *Environment) (Value, error) {
	id, ok := target.(*ast.Ident)
	if !ok {
		return nil, ErrTarget.Detailf("%s requires a variable", op)
	}

	b, ok := env.Lookup(id.Name)
	if !ok {
		return nil, ErrUndefined.Detailf("%s", id.Name)
	}

	old := b.Value

	arith := "+"
	if op == "--" {
		arith = "-"
	}

	next, err := BinaryOp(arith, old, NewInt(1))
	if err != nil {
		return nil, err
	}

	if err := env.Assign(id.Name, next); err != nil {
		return nil, err
	}

	if prefix {
		return old, nil
	}

	return b.Value, nil
}

func (in *Interpreter) evalCall(ctx context.Context, x *ast.Call, env *Environment) (Value, error) {
	callee, err := in.eval(ctx, x.Callee, env)
	if err != nil {
		return nil, err
	}

	var (
		args  []Value
		named []namedArg
	)

	for _, a := range x.Args {
		v, err := in.eval(ctx, a.Value, env)
		if err != nil {
			return nil, err
		}

		if a.Name == "" {
			args = append(args, v)
		} else {
			named = append(named, namedArg{name: a.Name, value: v})
		}
	}

	return in.call(ctx, callee, args, named)
}

func (in *Interpreter) evalSlice(ctx context.Context, x *ast.Slice, env *Environment) (Value, error) {
	obj, err := in.eval(ctx, x.X, env)
	if err != nil {
		return nil, err
	}

	var bounds [3]Value

	for i, e := range []ast.Expr{x.Lo, x.Hi, x.Step} {
		if e == nil {
			continue
		}

		if bounds[i], err = in.eval(ctx, e, env); err != nil {
			return nil, err
		}
	}

	return slice(obj, bounds[0], bounds[1], bounds[2])
}

// evalStructLit builds a union or struct value. Unions are searched along
// the whole scope chain before structs.
func (in *Interpreter) evalStructLit(ctx context.Context, x *ast.StructLit, env *Environment) (Value, error) {
	if def, ok := env.LookupUnion(x.Name); ok {
		return in.evalUnionLit(ctx, def, x, env)
	}

	def, ok := env.LookupStruct(x.Name)
	if !ok {
		return nil, ErrUndefinedType.Detailf("%s", x.Name)
	}

	s := newStruct(def.Name)

	for _, f := range def.Fields {
		var v Value = NullValue

		if f.Default != nil {
			var err error
			if v, err = in.eval(ctx, f.Default, env); err != nil {
				return nil, err
			}
		}

		w, err := wrapValue(env.IntType(f.Type), v)
		if err != nil {
			return nil, err
		}

		s.set(f.Name, w)
	}

	positional := 0

	for _, fi := range x.Fields {
		name := fi.Name

		if name == "" {
			if positional >= len(def.Fields) {
				return nil, ErrArgument.Detailf("too many fields for %s", def.Name)
			}

			name = def.Fields[positional].Name
			positional++
		}

		i := fieldIndex(def.Fields, name)
		if i < 0 {
			return nil, ErrMember.Detailf("%s has no field %s", def.Name, name)
		}

		v, err := in.eval(ctx, fi.Value, env)
		if err != nil {
			return nil, err
		}

		w, err := wrapValue(env.IntType(def.Fields[i].Type), v)
		if err != nil {
			return nil, err
		}

		s.set(name, w)
	}

	return s, nil
}

func (in *Interpreter) evalUnionLit(ctx context.Context, def *UnionDef, x *ast.StructLit, env *Environment) (Value, error) {
	if len(x.Fields) != 1 {
		return nil, ErrUnionInit.Detailf("%s given %d", def.Name, len(x.Fields))
	}

	name := x.Fields[0].Name
	if name == "" {
		if len(def.Fields) == 0 {
			return nil, ErrMember.Detailf("%s has no fields", def.Name)
		}

		name = def.Fields[0].Name
	}

	i := fieldIndex(def.Fields, name)
	if i < 0 {
		return nil, ErrMember.Detailf("%s has no field %s", def.Name, name)
	}

	v, err := in.eval(ctx, x.Fields[0].Value, env)
	if err != nil {
		return nil, err
	}

	w, err := wrapValue(env.IntType(def.Fields[i].Type), v)
	if err != nil {
		return nil, err
	}

	return &Union{Def: def, Field: name, Value: w}, nil
}

// enumMember resolves Enum.Variant to the unit value or, for variants that
// carry data, to the variant's constructor.
func enumMember(def *EnumDef, name string, env *Environment) (Value, error) {
	v, ok := def.Variant(name)
	if !ok {
		return nil, ErrMember.Detailf("%s has no variant %s", def.Name, name)
	}

	if len(v.Types) == 0 {
		return &Enum{Enum: def.Name, Variant: v.Name}, nil
	}

	if ctor, ok := env.Get(def.Name + "_" + v.Name); ok {
		return ctor, nil
	}

	return variantConstructor(def, v, env), nil
}
