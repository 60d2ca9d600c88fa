package cmd

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/ardnew/zyra/cli/cmd/repl"
	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/log"
)

// Repl starts an interactive session.
type Repl struct {
	Define   map[string]string `help:"Define a global from an expression (name=expr)" mapsep:"none" placeholder:"NAME=EXPR" short:"D"`
	Path     []string          `help:"Additional import directory"                    short:"I"     type:"path"`
	MaxDepth int               `help:"Maximum depth of nested calls"                  default:"${maxDepth}"`
	History  string            `help:"History file, empty to disable"                 default:"${history}" type:"path"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	globals, err := evalDefines(r.Define, nil)
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("mode", "repl"))

	var opts []lang.Option
	if r.MaxDepth > 0 {
		opts = append(opts, lang.WithMaxDepth(r.MaxDepth))
	}

	// top-level statements of imported modules would write over the shell
	imp := NewFileImporter(logger, r.Path, append(slices.Clip(opts), lang.WithOutput(io.Discard))...)
	opts = append(opts, lang.WithImporter(imp), lang.WithGlobals(globals))

	src := Source{Name: stdinSource}
	ctx = WithImportDir(ctx, src.Dir())

	return repl.Run(ctx,
		repl.WithLogger(logger),
		repl.WithHistoryFile(r.History),
		repl.WithInterpreter(opts...),
		repl.WithPreload(preloadTexts(ctx)...),
	)
}

func preloadTexts(ctx context.Context) []string {
	srcs := preloadFrom(ctx)

	texts := make([]string, len(srcs))
	for i, s := range srcs {
		texts[i] = s.Text
	}

	return texts
}
