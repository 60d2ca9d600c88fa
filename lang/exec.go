package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/zyra/lang/ast"
)

// flow tags how a statement completed.
type flow int

const (
	flowNormal flow = iota
	flowReturn
	flowBreak
	flowContinue
)

func (f flow) String() string {
	switch f {
	case flowReturn:
		return "return"
	case flowBreak:
		return "break"
	case flowContinue:
		return "continue"
	}

	return "normal"
}

// result is the outcome of executing a statement. value carries the
// returned or broken-with value, or the value of an expression statement.
type result struct {
	value Value
	flow  flow
}

var normal = result{}

func (in *Interpreter) exec(ctx context.Context, s ast.Stmt, env *Environment) (result, error) {
	res, err := in.execStmt(ctx, s, env)
	if err != nil {
		return result{}, locate(err, s.Pos())
	}

	return res, nil
}

// execStmts runs stmts in env, stopping at the first one that does not
// complete normally.
func (in *Interpreter) execStmts(ctx context.Context, stmts []ast.Stmt, env *Environment) (result, error) {
	for _, s := range stmts {
		res, err := in.exec(ctx, s, env)
		if err != nil || res.flow != flowNormal {
			return res, err
		}
	}

	return normal, nil
}

func (in *Interpreter) execBlock(ctx context.Context, b *ast.Block, env *Environment) (result, error) {
	return in.execStmts(ctx, b.Stmts, NewEnvironment(env))
}

func (in *Interpreter) execStmt(ctx context.Context, s ast.Stmt, env *Environment) (result, error) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		v, err := in.eval(ctx, s.X, env)
		if err != nil {
			return result{}, err
		}

		return result{value: v}, nil

	case *ast.VarDecl:
		return normal, in.declare(ctx, s, env)

	case *ast.Assign:
		return normal, in.assign(ctx, s, env)

	case *ast.FuncDecl:
		if s.Async {
			in.trace("async function declared", slog.String("name", s.Name))
		}

		return normal, env.Declare(s.Name, Binding{Value: &Function{Decl: s, Env: env}, Mut: true})

	case *ast.StructDecl:
		env.DefineStruct(&StructDef{Name: s.Name, Fields: s.Fields})

		return normal, nil

	case *ast.UnionDecl:
		env.DefineUnion(&UnionDef{Name: s.Name, Fields: s.Fields})

		return normal, nil

	case *ast.EnumDecl:
		return normal, in.declareEnum(s, env)

	case *ast.TypeAlias:
		env.DefineAlias(s.Name, s.Target)

		return normal, nil

	case *ast.Block:
		return in.execBlock(ctx, s, env)

	case *ast.If:
		return in.execIf(ctx, s, env)

	case *ast.While:
		return in.execWhile(ctx, s, env)

	case *ast.For:
		return in.execFor(ctx, s, env)

	case *ast.ForIn:
		return in.execForIn(ctx, s, env)

	case *ast.Switch:
		return in.execSwitch(ctx, s, env)

	case *ast.Match:
		return in.execMatch(ctx, s, env)

	case *ast.Try:
		return in.execTry(ctx, s, env)

	case *ast.Throw:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return result{}, err
		}

		return result{}, &Thrown{Value: v, Pos: s.Pos()}

	case *ast.Return:
		v, err := in.evalOptional(ctx, s.Value, env)

		return result{value: v, flow: flowReturn}, err

	case *ast.Break:
		v, err := in.evalOptional(ctx, s.Value, env)

		return result{value: v, flow: flowBreak}, err

	case *ast.Continue:
		return result{flow: flowContinue}, nil

	case *ast.Print:
		v, err := in.eval(ctx, s.Value, env)
		if err != nil {
			return result{}, err
		}

		text := v.String()
		if _, ok := textOf(v); ok {
			text = Unescape(text)
		}

		_, err = io.WriteString(in.out, text+"\n")

		return normal, err

	case *ast.Printf:
		return normal, in.execPrintf(ctx, s, env)

	case *ast.Import:
		return normal, in.execImport(ctx, s, env)
	}

	return result{}, ErrControl.Detailf("unsupported statement %T", s)
}

func (in *Interpreter) evalOptional(ctx context.Context, x ast.Expr, env *Environment) (Value, error) {
	if x == nil {
		return NullValue, nil
	}

	return in.eval(ctx, x, env)
}

func (in *Interpreter) declare(ctx context.Context, d *ast.VarDecl, env *Environment) error {
	v, err := in.eval(ctx, d.Value, env)
	if err != nil {
		return err
	}

	return env.Declare(d.Name, Binding{
		Value: v,
		Type:  d.Type,
		Width: env.IntType(d.Type),
		Const: d.Const,
		Mut:   !d.Const,
	})
}

func (in *Interpreter) declareEnum(d *ast.EnumDecl, env *Environment) error {
	def := &EnumDef{Name: d.Name, Variants: d.Variants}
	env.DefineEnum(def)

	for _, v := range d.Variants {
		err := env.Declare(d.Name+"_"+v.Name, Binding{Value: variantConstructor(def, v, env), Const: true})
		if err != nil {
			return err
		}
	}

	return nil
}

// variantConstructor returns the native that builds variant v of def,
// wrapping data declared with a fixed-width integer type.
func variantConstructor(def *EnumDef, v ast.Variant, env *Environment) *Native {
	return &Native{
		Name: def.Name + "_" + v.Name,
		Min:  len(v.Types),
		Max:  len(v.Types),
		Fn: func(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
			data := make([]Value, len(args))

			for i, a := range args {
				w, err := wrapValue(env.IntType(v.Types[i]), a)
				if err != nil {
					return nil, err
				}

				data[i] = w
			}

			return &Enum{Enum: def.Name, Variant: v.Name, Data: data}, nil
		},
	}
}

func (in *Interpreter) assign(ctx context.Context, a *ast.Assign, env *Environment) error {
	op := ""
	if a.Op != "=" {
		op = a.Op[:len(a.Op)-1]
	}

	rhs, err := in.eval(ctx, a.Value, env)
	if err != nil {
		return err
	}

	switch t := a.Target.(type) {
	case *ast.Ident:
		if op != "" {
			cur, ok := env.Get(t.Name)
			if !ok {
				return ErrUndefined.Detailf("%s", t.Name).At(t.Pos())
			}

			if rhs, err = BinaryOp(op, cur, rhs); err != nil {
				return err
			}
		}

		return env.Assign(t.Name, rhs)

	case *ast.Member:
		obj, err := in.eval(ctx, t.X, env)
		if err != nil {
			return err
		}

		if op != "" {
			cur, err := in.member(obj, t.Name)
			if err != nil {
				return locate(err, t.Pos())
			}

			if rhs, err = BinaryOp(op, cur, rhs); err != nil {
				return err
			}
		}

		return locate(in.setMember(obj, t.Name, rhs, env), t.Pos())

	case *ast.Index:
		obj, err := in.eval(ctx, t.X, env)
		if err != nil {
			return err
		}

		idx, err := in.eval(ctx, t.Index, env)
		if err != nil {
			return err
		}

		if op != "" {
			cur, err := index(obj, idx)
			if err != nil {
				return locate(err, t.Pos())
			}

			if rhs, err = BinaryOp(op, cur, rhs); err != nil {
				return err
			}
		}

		return locate(setIndex(obj, idx, rhs), t.Pos())
	}

	return ErrTarget.Detailf("cannot assign to %T", a.Target)
}

func (in *Interpreter) execIf(ctx context.Context, s *ast.If, env *Environment) (result, error) {
	c, err := in.eval(ctx, s.Cond, env)
	if err != nil {
		return result{}, err
	}

	if Truthy(c) {
		return in.execBlock(ctx, s.Then, env)
	}

	if s.Else != nil {
		return in.exec(ctx, s.Else, env)
	}

	return normal, nil
}

// loopBody runs one iteration and reports whether the loop should stop.
// The returned result is propagated only when it is a return.
func (in *Interpreter) loopBody(ctx context.Context, stmts []ast.Stmt, env *Environment) (result, bool, error) {
	if err := ctx.Err(); err != nil {
		return result{}, true, err
	}

	res, err := in.execStmts(ctx, stmts, env)
	if err != nil {
		return result{}, true, err
	}

	switch res.flow {
	case flowBreak:
		return normal, true, nil
	case flowReturn:
		return res, true, nil
	}

	return normal, false, nil
}

func (in *Interpreter) execWhile(ctx context.Context, s *ast.While, env *Environment) (result, error) {
	for {
		c, err := in.eval(ctx, s.Cond, env)
		if err != nil {
			return result{}, err
		}

		if !Truthy(c) {
			return normal, nil
		}

		res, stop, err := in.loopBody(ctx, s.Body.Stmts, NewEnvironment(env))
		if stop {
			return res, err
		}
	}
}

func (in *Interpreter) execFor(ctx context.Context, s *ast.For, env *Environment) (result, error) {
	scope := NewEnvironment(env)

	if s.Init != nil {
		if _, err := in.exec(ctx, s.Init, scope); err != nil {
			return result{}, err
		}
	}

	for {
		if s.Cond != nil {
			c, err := in.eval(ctx, s.Cond, scope)
			if err != nil {
				return result{}, err
			}

			if !Truthy(c) {
				return normal, nil
			}
		}

		res, stop, err := in.loopBody(ctx, s.Body.Stmts, NewEnvironment(scope))
		if stop {
			return res, err
		}

		if s.Update != nil {
			if _, err := in.exec(ctx, s.Update, scope); err != nil {
				return result{}, err
			}
		}
	}
}

func (in *Interpreter) execForIn(ctx context.Context, s *ast.ForIn, env *Environment) (result, error) {
	it, err := in.eval(ctx, s.Iter, env)
	if err != nil {
		return result{}, err
	}

	seq, err := iterate(it)
	if err != nil {
		return result{}, locate(err, s.Iter.Pos())
	}

	for v := range seq {
		scope := NewEnvironment(env)
		scope.Set(s.Var, v)

		res, stop, err := in.loopBody(ctx, s.Body.Stmts, scope)
		if stop {
			return res, err
		}
	}

	return normal, nil
}

func (in *Interpreter) execSwitch(ctx context.Context, s *ast.Switch, env *Environment) (result, error) {
	subject, err := in.eval(ctx, s.Subject, env)
	if err != nil {
		return result{}, err
	}

	body, found, err := in.selectCase(ctx, s, subject, env)
	if err != nil || !found {
		return normal, err
	}

	res, err := in.execStmts(ctx, body, NewEnvironment(env))
	if res.flow == flowBreak {
		return normal, err
	}

	return res, err
}

func (in *Interpreter) selectCase(ctx context.Context, s *ast.Switch, subject Value, env *Environment) ([]ast.Stmt, bool, error) {
	for _, c := range s.Cases {
		for _, x := range c.Values {
			v, err := in.eval(ctx, x, env)
			if err != nil {
				return nil, false, err
			}

			if Equal(subject, v) {
				return c.Body, true, nil
			}
		}
	}

	return s.Default, s.HasDef, nil
}

func (in *Interpreter) execMatch(ctx context.Context, s *ast.Match, env *Environment) (result, error) {
	subject, err := in.eval(ctx, s.Subject, env)
	if err != nil {
		return result{}, err
	}

	for _, arm := range s.Arms {
		scope := NewEnvironment(env)

		ok, err := in.match(ctx, arm.Pattern, subject, scope)
		if err != nil {
			return result{}, err
		}

		if !ok {
			continue
		}

		if arm.Guard != nil {
			g, err := in.eval(ctx, arm.Guard, scope)
			if err != nil {
				return result{}, err
			}

			if !Truthy(g) {
				continue
			}
		}

		return in.exec(ctx, arm.Body, scope)
	}

	return normal, nil
}

func (in *Interpreter) execTry(ctx context.Context, s *ast.Try, env *Environment) (result, error) {
	res, err := in.execBlock(ctx, s.Body, env)

	if err != nil && catchable(err) {
		for _, c := range s.Catches {
			if !catches(c.Type, err) {
				continue
			}

			scope := NewEnvironment(env)
			if c.Var != "" {
				scope.Set(c.Var, String(ErrorMessage(err)))
			}

			res, err = in.execStmts(ctx, c.Body.Stmts, scope)

			break
		}
	}

	if s.Finally != nil {
		fres, ferr := in.execBlock(ctx, s.Finally, env)
		if ferr != nil || fres.flow != flowNormal {
			return fres, ferr
		}
	}

	return res, err
}

func (in *Interpreter) execPrintf(ctx context.Context, s *ast.Printf, env *Environment) error {
	f, err := in.eval(ctx, s.Format, env)
	if err != nil {
		return err
	}

	args := make([]Value, len(s.Args))
	for i, x := range s.Args {
		if args[i], err = in.eval(ctx, x, env); err != nil {
			return err
		}
	}

	text, err := Sprintf(Unescape(f.String()), args...)
	if err != nil {
		return err
	}

	_, err = io.WriteString(in.out, text)

	return err
}

func (in *Interpreter) execImport(ctx context.Context, s *ast.Import, env *Environment) error {
	if in.importer == nil {
		in.logger.Debug("import skipped", slog.String("path", s.Path))

		return nil
	}

	in.trace("import", slog.String("path", s.Path))

	mod, err := in.importer.Import(ctx, s.Path)
	if err != nil {
		if ErrorKind(err) == "ImportError" {
			return err
		}

		return ErrImport.Detailf("%s", s.Path).Wrap(err)
	}

	switch {
	case len(s.Names) > 0:
		if name, ok := mod.Globals.export(env, s.Names...); !ok {
			return ErrImport.Detailf("%s has no member %s", s.Path, name)
		}

	case s.Alias != "":
		env.Set(s.Alias, mod.Dict())

	default:
		mod.Globals.export(env)
	}

	return nil
}
