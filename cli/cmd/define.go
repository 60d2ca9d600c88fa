package cmd

import (
	"maps"
	"os"
	"slices"

	"github.com/expr-lang/expr"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/lang/token"
	"github.com/ardnew/zyra/pkg"
)

// defineEnv is the environment --define expressions are evaluated in.
// Besides env(name), each expression sees the script arguments and every
// definition that sorts before it.
func defineEnv(args []string) map[string]any {
	return map[string]any{
		"env":  os.Getenv,
		"args": slices.Clone(args),
	}
}

// evalDefines evaluates each expression of defs with expr-lang and converts
// the results into interpreter values. Names are processed in sorted order.
func evalDefines(defs map[string]string, args []string) (map[string]lang.Value, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	env := defineEnv(args)
	out := make(map[string]lang.Value, len(defs))

	for _, name := range slices.Sorted(maps.Keys(defs)) {
		if !validName(name) {
			return nil, pkg.ErrInvalidDefine.Wrapf("%q is not an identifier", name)
		}

		program, err := expr.Compile(defs[name], expr.Env(env))
		if err != nil {
			return nil, pkg.ErrInvalidDefine.Wrapf("%s", name).Wrap(err)
		}

		v, err := expr.Run(program, env)
		if err != nil {
			return nil, pkg.ErrInvalidDefine.Wrapf("%s", name).Wrap(err)
		}

		env[name] = v
		out[name] = lang.FromNative(v)
	}

	return out, nil
}

// validName reports whether name can be bound as a zyra global.
func validName(name string) bool {
	if name == "" || slices.Contains(token.Keywords(), name) {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
