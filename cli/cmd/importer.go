package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/log"
	"github.com/ardnew/zyra/pkg"
)

// FileImporter resolves import statements to zyra source files.
//
// A module path is looked up relative to the directory of the importing
// script, then in each search directory, then in each directory listed in
// $ZYRA_PATH. The source extension is appended when the path has none.
// Every module runs once, in a fresh interpreter sharing the importer, and
// its result is cached by absolute path.
type FileImporter struct {
	dirs   []string
	logger log.Logger
	opts   []lang.Option

	mu      sync.Mutex
	modules map[string]*lang.Module
}

// NewFileImporter returns an importer searching dirs. Interpreters created
// for modules are configured with opts.
func NewFileImporter(logger log.Logger, dirs []string, opts ...lang.Option) *FileImporter {
	return &FileImporter{
		dirs:    searchPath(dirs, os.Getenv(pkg.PathEnv)),
		logger:  logger,
		opts:    slices.Clone(opts),
		modules: make(map[string]*lang.Module),
	}
}

// searchPath joins dirs ahead of the entries of the path list env, keeping
// only existing directories.
func searchPath(dirs []string, env string) []string {
	joined := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	var out []string

	for _, dir := range filepath.SplitList(joined) {
		if dir != "" && !slices.Contains(out, dir) {
			out = append(out, dir)
		}
	}

	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

type importKey struct{}

// importState is the chain of modules being imported on the current path
// of execution, outermost first.
type importState struct {
	dir   string
	chain []string
}

// WithImportDir returns a context whose imports resolve relative to dir.
func WithImportDir(ctx context.Context, dir string) context.Context {
	st := importStateFrom(ctx)
	st.dir = dir

	return context.WithValue(ctx, importKey{}, st)
}

func importStateFrom(ctx context.Context) importState {
	st, _ := ctx.Value(importKey{}).(importState)

	return st
}

// Import implements [lang.Importer].
func (fi *FileImporter) Import(ctx context.Context, path string) (*lang.Module, error) {
	st := importStateFrom(ctx)

	file, ok := fi.resolve(st.dir, path)
	if !ok {
		return nil, pkg.ErrModuleNotFound.Wrapf("%s", path)
	}

	if slices.Contains(st.chain, file) {
		return nil, pkg.ErrImportCycle.Wrapf("%s", strings.Join(append(st.chain, file), " -> "))
	}

	fi.mu.Lock()
	mod, cached := fi.modules[file]
	fi.mu.Unlock()

	if cached {
		fi.logger.TraceContext(ctx, "import cached", slog.String("file", file))

		return mod, nil
	}

	src, err := readSource(ctx, file)
	if err != nil {
		return nil, err
	}

	fi.logger.DebugContext(ctx, "import", slog.String("module", path), slog.String("file", file))

	sub := importState{dir: filepath.Dir(file), chain: append(slices.Clip(st.chain), file)}
	opts := append(slices.Clip(fi.opts), lang.WithImporter(fi), lang.WithLogger(fi.logger))

	in := lang.New(opts...)
	if err := in.Run(context.WithValue(ctx, importKey{}, sub), src.Text); err != nil {
		return nil, err
	}

	mod = &lang.Module{Path: file, Globals: in.Globals()}

	fi.mu.Lock()
	defer fi.mu.Unlock()

	if prev, ok := fi.modules[file]; ok {
		return prev, nil
	}

	fi.modules[file] = mod

	return mod, nil
}

// resolve returns the absolute path of the file path names, searching dir
// first.
func (fi *FileImporter) resolve(dir, path string) (string, bool) {
	if filepath.Ext(path) == "" {
		path += pkg.SourceExt
	}

	if filepath.IsAbs(path) {
		return path, isFile(path)
	}

	candidates := fi.dirs
	if dir != "" {
		candidates = append([]string{dir}, fi.dirs...)
	}

	for _, d := range candidates {
		file, err := filepath.Abs(filepath.Join(d, path))
		if err == nil && isFile(file) {
			return file, true
		}
	}

	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
