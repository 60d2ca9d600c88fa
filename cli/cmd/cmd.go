package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/ardnew/zyra/pkg"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	stdioKey   struct{}
	preloadKey struct{}

	stdio struct {
		in       io.Reader
		out, err io.Writer
	}
)

// WithStdio returns a context whose commands read scripts from in and write
// program output to out and diagnostics to errOut. Nil streams fall back to
// the process streams.
func WithStdio(ctx context.Context, in io.Reader, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, stdioKey{}, stdio{in: in, out: out, err: errOut})
}

func stdioFrom(ctx context.Context) stdio {
	s, _ := ctx.Value(stdioKey{}).(stdio)

	if s.in == nil {
		s.in = os.Stdin
	}

	if s.out == nil {
		s.out = os.Stdout
	}

	if s.err == nil {
		s.err = os.Stderr
	}

	return s
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)

	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// historyPath returns the REPL history file configured for the
// application, or "" when there is none.
func historyPath(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[HistoryIdentifier]
	}

	return ""
}

// Source is a script read from a file or stdin.
type Source struct {
	Name string
	Text string
}

// Dir returns the directory relative imports of the script resolve from.
func (s Source) Dir() string {
	if s.Name == stdinSource {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}

		return "."
	}

	return filepath.Dir(s.Name)
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource reads the script at path, or from the context's stdin when
// path is "-".
func readSource(ctx context.Context, path string) (Source, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(stdioFrom(ctx).in)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return Source{}, pkg.ErrReadInput.Wrap(err)
	}

	return Source{Name: path, Text: string(data)}, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithPreload returns a context carrying the scripts at paths, read in
// order. Every file is read once even when it is named several times, by
// different relative paths or through symlinks. Stdin may be named with
// "-" and is read after every regular file.
func WithPreload(ctx context.Context, paths []string) (context.Context, error) {
	srcs, err := readUnique(ctx, paths)
	if err != nil {
		return ctx, err
	}

	return context.WithValue(ctx, preloadKey{}, srcs), nil
}

func preloadFrom(ctx context.Context) []Source {
	srcs, _ := ctx.Value(preloadKey{}).([]Source)

	return srcs
}

func readUnique(ctx context.Context, paths []string) ([]Source, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	srcs := make([]Source, 0, len(paths))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := uniqueFileKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		src, err := readSource(ctx, path)
		if err != nil {
			return nil, err
		}

		srcs = append(srcs, src)
	}

	if hasStdin {
		src, err := readSource(ctx, stdinSource)
		if err != nil {
			return nil, err
		}

		srcs = append(srcs, src)
	}

	return srcs, nil
}

// uniqueFileKey resolves path through symlinks and returns its device and
// inode. It reports false when the file cannot be inspected.
func uniqueFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
