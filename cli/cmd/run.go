package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/log"
)

// Run executes a zyra script.
type Run struct {
	File string   `arg:"" default:"-"  help:"Script file or '-' for stdin"                   name:"file"`
	Args []string `arg:"" optional:""  help:"Arguments available to the script as args"     name:"args" passthrough:""`

	Define   map[string]string `help:"Define a global from an expression (name=expr)"  mapsep:"none" placeholder:"NAME=EXPR" short:"D"`
	Path     []string          `help:"Additional import directory"                     short:"I"     type:"path"`
	Dump     string            `help:"Print the script's globals when it finishes"     enum:",yaml,json" default:""`
	MaxDepth int               `help:"Maximum depth of nested calls"                   default:"${maxDepth}"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.File == stdinSource && isTerminal(stdioFrom(ctx).in) {
		log.DebugContext(ctx, "stdin is a terminal, starting repl")

		return (&Repl{
			Define:   r.Define,
			Path:     r.Path,
			MaxDepth: r.MaxDepth,
			History:  historyPath(ctx),
		}).Run(ctx)
	}

	src, err := readSource(ctx, r.File)
	if err != nil {
		return err
	}

	in, err := r.interpreter(ctx, src)
	if err != nil {
		return err
	}

	ctx = WithImportDir(ctx, src.Dir())

	for _, pre := range preloadFrom(ctx) {
		if err := r.exec(ctx, in, pre); err != nil {
			return err
		}
	}

	if err := r.exec(ctx, in, src); err != nil {
		return err
	}

	if r.Dump == "" {
		return nil
	}

	return dumpGlobals(stdioFrom(ctx).out, r.Dump, in.Globals())
}

// interpreter builds the interpreter for src with the command's defines,
// arguments and importer.
func (r *Run) interpreter(ctx context.Context, src Source) (*lang.Interpreter, error) {
	globals, err := evalDefines(r.Define, r.Args)
	if err != nil {
		return nil, err
	}

	if globals == nil {
		globals = make(map[string]lang.Value, 1)
	}

	argv := make([]lang.Value, len(r.Args))
	for i, a := range r.Args {
		argv[i] = lang.String(a)
	}

	globals["args"] = lang.NewArray(argv...)

	logger := log.Default().With(slog.String("script", src.Name))

	var opts []lang.Option
	if r.MaxDepth > 0 {
		opts = append(opts, lang.WithMaxDepth(r.MaxDepth))
	}

	opts = append(opts, lang.WithOutput(stdioFrom(ctx).out))
	imp := NewFileImporter(logger, r.Path, opts...)

	opts = append(opts,
		lang.WithLogger(logger),
		lang.WithImporter(imp),
		lang.WithGlobals(globals),
	)

	logger.DebugContext(ctx, "run",
		slog.Int("defines", len(r.Define)),
		slog.Int("args", len(r.Args)),
		slog.Any("path", r.Path),
	)

	return lang.New(opts...), nil
}

// exec runs src, reporting a failure with its source excerpt on the
// diagnostic stream.
func (r *Run) exec(ctx context.Context, in *lang.Interpreter, src Source) error {
	err := in.Run(ctx, src.Text)
	if err == nil {
		return nil
	}

	fmt.Fprintf(stdioFrom(ctx).err, "%s: %s\n", src.Name, diag.Format(src.Text, err))

	return ErrScript.Wrap(err).With(
		slog.String("file", src.Name),
		slog.String("kind", lang.ErrorKind(err)),
	)
}

// dumpGlobals writes every non-callable global in format.
func dumpGlobals(w io.Writer, format string, env *lang.Environment) error {
	data := make(map[string]any)

	for _, name := range env.Names() {
		v, ok := env.Get(name)
		if !ok {
			continue
		}

		switch v.Kind() {
		case lang.KindFunction, lang.KindLambda, lang.KindNative:
			continue
		}

		data[name] = lang.ToNative(v)
	}

	log.Trace("dump", slog.String("format", format), slog.Any("names", slices.Sorted(maps.Keys(data))))

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(data); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		b, err := yaml.MarshalWithOptions(data, yaml.Indent(2))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(b); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
