package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/zyra/lang/ast"
)

type namedArg struct {
	value Value
	name  string
}

func (in *Interpreter) call(ctx context.Context, callee Value, args []Value, named []namedArg) (Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *Function:
		return in.callFunction(ctx, fn, args, named)
	case *Lambda:
		return in.callLambda(ctx, fn, args, named)
	case *Native:
		return in.callNative(ctx, fn, args, named)
	}

	return nil, ErrNotCallable.Detailf("%s", callee.Kind())
}

func (in *Interpreter) enterFrame(name string) error {
	if in.depth >= in.maxDepth {
		return ErrRecursion.Detailf("%s", name).With(slog.Int("depth", in.depth))
	}

	in.depth++

	in.trace("call", slog.String("name", name), slog.Int("depth", in.depth))

	return nil
}

func (in *Interpreter) leaveFrame() { in.depth-- }

// bindArgs matches positional then named arguments to params, reporting
// which params were supplied.
func bindArgs(name string, params []string, args []Value, named []namedArg) ([]Value, []bool, error) {
	if len(args) > len(params) {
		return nil, nil, ErrArity.Detailf("%s takes at most %d arguments, got %d", name, len(params), len(args)+len(named))
	}

	vals := make([]Value, len(params))
	set := make([]bool, len(params))

	for i, a := range args {
		vals[i], set[i] = a, true
	}

	for _, na := range named {
		i := -1

		for j, p := range params {
			if p == na.name {
				i = j

				break
			}
		}

		switch {
		case i < 0:
			return nil, nil, ErrArgument.Detailf("%s has no parameter %s", name, na.name)
		case set[i]:
			return nil, nil, ErrArgument.Detailf("%s got multiple values for %s", name, na.name)
		}

		vals[i], set[i] = na.value, true
	}

	return vals, set, nil
}

func arityRange(lo, hi int) string {
	if lo == hi {
		return strconv.Itoa(lo)
	}

	return strconv.Itoa(lo) + " to " + strconv.Itoa(hi)
}

func (in *Interpreter) callFunction(ctx context.Context, fn *Function, args []Value, named []namedArg) (Value, error) {
	decl := fn.Decl

	required := 0
	names := make([]string, len(decl.Params))

	for i, p := range decl.Params {
		names[i] = p.Name
		if p.Default == nil {
			required++
		}
	}

	if n := len(args) + len(named); n < required || n > len(names) {
		return nil, ErrArity.Detailf("%s expects %s arguments, got %d", decl.Name, arityRange(required, len(names)), n)
	}

	vals, set, err := bindArgs(decl.Name, names, args, named)
	if err != nil {
		return nil, err
	}

	if err := in.enterFrame(decl.Name); err != nil {
		return nil, err
	}
	defer in.leaveFrame()

	frame := NewEnvironment(fn.Env)

	for i, p := range decl.Params {
		v := vals[i]

		switch {
		case set[i]:
		case p.Default != nil:
			if v, err = in.eval(ctx, p.Default, frame); err != nil {
				return nil, err
			}
		default:
			v = NullValue
		}

		err := frame.Declare(p.Name, Binding{Value: v, Type: p.Type, Width: frame.IntType(p.Type), Mut: true})
		if err != nil {
			return nil, locate(err, p.Pos())
		}
	}

	res, err := in.execStmts(ctx, decl.Body.Stmts, frame)
	if err != nil {
		return nil, err
	}

	return frameResult(decl, res, frame)
}

// frameResult converts the completion of a function body into its return
// value.
func frameResult(decl *ast.FuncDecl, res result, frame *Environment) (Value, error) {
	switch res.flow {
	case flowBreak, flowContinue:
		return nil, ErrControl.Detailf("%s outside loop in %s", res.flow, decl.Name)
	case flowReturn:
		return wrapValue(frame.IntType(decl.ReturnType), res.value)
	}

	return NullValue, nil
}

func (in *Interpreter) callLambda(ctx context.Context, fn *Lambda, args []Value, named []namedArg) (Value, error) {
	params := fn.Decl.Params

	if n := len(args) + len(named); n != len(params) {
		return nil, ErrArity.Detailf("lambda expects %d arguments, got %d", len(params), n)
	}

	vals, _, err := bindArgs("lambda", params, args, named)
	if err != nil {
		return nil, err
	}

	if err := in.enterFrame("lambda"); err != nil {
		return nil, err
	}
	defer in.leaveFrame()

	frame := NewEnvironment(fn.Env)
	for i, p := range params {
		frame.Set(p, vals[i])
	}

	return in.eval(ctx, fn.Decl.Body, frame)
}

func (in *Interpreter) callNative(ctx context.Context, fn *Native, args []Value, named []namedArg) (Value, error) {
	if len(named) > 0 {
		return nil, ErrArgument.Detailf("%s does not accept named arguments", fn.Name)
	}

	if len(args) < fn.Min || (fn.Max >= 0 && len(args) > fn.Max) {
		want := "at least " + strconv.Itoa(fn.Min)
		if fn.Max >= 0 {
			want = arityRange(fn.Min, fn.Max)
		}

		return nil, ErrArity.Detailf("%s expects %s arguments, got %d", fn.Name, want, len(args))
	}

	return fn.Fn(ctx, in, args)
}
