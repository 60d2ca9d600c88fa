// Package lang implements the zyra runtime: values, environments and the
// tree-walking evaluator that executes programs produced by
// [github.com/ardnew/zyra/lang/parser].
package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/parser"
	"github.com/ardnew/zyra/log"
)

// DefaultMaxDepth is the default limit on nested function calls.
var DefaultMaxDepth = 1000

// Importer loads the module named by an import statement.
type Importer interface {
	Import(ctx context.Context, path string) (*Module, error)
}

// Module is the result of running an imported program.
type Module struct {
	Path    string
	Globals *Environment
}

// Dict returns the module's bindings as a dict keyed by name.
func (m *Module) Dict() *Dict {
	d := NewDict()
	for _, n := range m.Globals.Names() {
		v, _ := m.Globals.Get(n)
		_ = d.Set(String(n), v)
	}

	return d
}

// Interpreter executes zyra programs. It is not safe for concurrent use.
type Interpreter struct {
	logger   log.Logger
	out      io.Writer
	importer Importer
	root     *Environment
	globals  *Environment
	preset   map[string]Value
	maxDepth int
	depth    int
	tracing  bool
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithMaxDepth limits the depth of nested calls.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		if depth > 0 {
			in.maxDepth = depth
		}
	}
}

// WithLogger sets the logger receiving diagnostic records.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithOutput sets the writer receiving print and printf output.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		if w != nil {
			in.out = w
		}
	}
}

// WithImporter sets the module loader used by import statements.
func WithImporter(imp Importer) Option {
	return func(in *Interpreter) { in.importer = imp }
}

// WithGlobals predefines global bindings. They are restored by Reset.
func WithGlobals(vars map[string]Value) Option {
	return func(in *Interpreter) {
		if in.preset == nil {
			in.preset = make(map[string]Value, len(vars))
		}

		for k, v := range vars {
			in.preset[k] = v
		}
	}
}

// New returns an interpreter with the builtins installed.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	in.tracing = in.logger.Enabled(log.LevelTrace)

	in.root = NewEnvironment(nil)
	for _, b := range builtins() {
		_ = in.root.Declare(b.Name, Binding{Value: b})
	}

	in.Reset()

	return in
}

// Globals returns the program's global scope.
func (in *Interpreter) Globals() *Environment { return in.globals }

// Reset discards every global binding and type, keeping the builtins and
// any predefined globals.
func (in *Interpreter) Reset() {
	in.globals = NewEnvironment(in.root)
	in.depth = 0

	for _, k := range slices.Sorted(maps.Keys(in.preset)) {
		in.globals.Set(k, in.preset[k])
	}
}

// Run parses and executes src.
func (in *Interpreter) Run(ctx context.Context, src string) error {
	_, err := in.Eval(ctx, src)

	return err
}

// Eval parses and executes src, returning the value of its final statement
// if that statement is an expression, and null otherwise.
func (in *Interpreter) Eval(ctx context.Context, src string) (Value, error) {
	prog, err := parser.ParseString(src, parser.WithLogger(in.logger))
	if err != nil {
		return nil, err
	}

	return in.Exec(ctx, prog)
}

// Exec executes a parsed program in the global scope.
func (in *Interpreter) Exec(ctx context.Context, prog *ast.Program) (Value, error) {
	var last Value = NullValue

	for _, s := range prog.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := in.exec(ctx, s, in.globals)
		if err != nil {
			in.depth = 0

			return nil, err
		}

		if res.flow != flowNormal {
			return nil, ErrControl.Detailf("%s at top level", res.flow).At(s.Pos())
		}

		last = NullValue
		if _, ok := s.(*ast.ExprStmt); ok && res.value != nil {
			last = res.value
		}
	}

	return last, nil
}

// Call invokes a callable value with positional arguments.
func (in *Interpreter) Call(ctx context.Context, fn Value, args ...Value) (Value, error) {
	return in.call(ctx, fn, args, nil)
}

func (in *Interpreter) trace(msg string, attrs ...slog.Attr) {
	if in.tracing {
		in.logger.Trace(msg, attrs...)
	}
}
