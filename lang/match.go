package lang

import (
	"context"
	"strings"

	"github.com/ardnew/zyra/lang/ast"
)

// match reports whether v matches p, binding names in env as it goes.
// Bindings made by a failed match are left in env; callers use a scope per
// attempt.
func (in *Interpreter) match(ctx context.Context, p ast.Pattern, v Value, env *Environment) (bool, error) {
	switch p := p.(type) {
	case *ast.WildcardPattern:
		return true, nil

	case *ast.BindPattern:
		if e, ok := v.(*Enum); ok && namesVariant(p.Name, e, env) {
			return p.Name == e.Variant || p.Name == e.Enum+"_"+e.Variant, nil
		}

		env.Set(p.Name, v)

		return true, nil

	case *ast.LitPattern:
		lit, err := in.eval(ctx, p.Value, env)
		if err != nil {
			return false, err
		}

		return Equal(lit, v), nil

	case *ast.TuplePattern:
		t, ok := v.(*Tuple)
		if !ok {
			return false, nil
		}

		return in.matchAll(ctx, p.Elems, t.Elems, env)

	case *ast.ArrayPattern:
		a, ok := v.(*Array)
		if !ok {
			return false, nil
		}

		return in.matchAll(ctx, p.Elems, a.Elems, env)

	case *ast.VariantPattern:
		e, ok := v.(*Enum)
		if !ok || !variantNamed(p, e) {
			return false, nil
		}

		if p.Elems == nil {
			return true, nil
		}

		return in.matchAll(ctx, p.Elems, e.Data, env)
	}

	return false, nil
}

func (in *Interpreter) matchAll(ctx context.Context, ps []ast.Pattern, vs []Value, env *Environment) (bool, error) {
	if len(ps) != len(vs) {
		return false, nil
	}

	for i := range ps {
		ok, err := in.match(ctx, ps[i], vs[i], env)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

// variantNamed reports whether the pattern names e's variant, written as
// Enum.Variant, Enum_Variant or the bare variant name.
func variantNamed(p *ast.VariantPattern, e *Enum) bool {
	if p.Enum != "" {
		return p.Enum == e.Enum && p.Name == e.Variant
	}

	return p.Name == e.Variant || p.Name == e.Enum+"_"+e.Variant
}

// namesVariant reports whether a bare pattern name refers to a variant of
// e's enum rather than introducing a binding.
func namesVariant(name string, e *Enum, env *Environment) bool {
	def, ok := env.LookupEnum(e.Enum)
	if !ok {
		return false
	}

	if _, ok := def.Variant(name); ok {
		return true
	}

	rest, ok := strings.CutPrefix(name, e.Enum+"_")
	if !ok {
		return false
	}

	_, ok = def.Variant(rest)

	return ok
}
