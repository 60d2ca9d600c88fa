package pkg

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	t.Parallel()

	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("expected %q, got %q", want, Version())
	}

	if strings.ContainsAny(Version(), " \n") {
		t.Errorf("expected a trimmed version, got %q", Version())
	}
}

func TestAuthor(t *testing.T) {
	t.Parallel()

	if len(Author) == 0 {
		t.Fatal("expected at least one author")
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestNormalizePrefix(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"zyra", "zyra"},
		{"__debug_bin3312", Name},
		{".zyra", "zyra"},
		{"...", Name},
		{"zy", "zy"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := normalizePrefix(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()

	if filepath.Base(ConfigFile()) != "config.yaml" {
		t.Errorf("expected config.yaml, got %s", ConfigFile())
	}

	if filepath.Dir(ConfigFile()) != ConfigDir() {
		t.Errorf("expected config file inside %s, got %s", ConfigDir(), ConfigFile())
	}

	if filepath.Dir(HistoryFile()) != CacheDir() {
		t.Errorf("expected history file inside %s, got %s", CacheDir(), HistoryFile())
	}
}

func TestErrorChain(t *testing.T) {
	t.Parallel()

	err := ErrReadInput.Wrap(fs.ErrNotExist).Wrapf("main.zy")

	if got, want := err.Error(), "failed to read input: file does not exist: main.zy"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected the sentinel to match")
	}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected the cause to match")
	}

	if errors.Is(err, ErrImportCycle) {
		t.Error("expected an unrelated sentinel not to match")
	}

	if len(ErrReadInput) != 1 {
		t.Error("expected Wrap to leave the sentinel unchanged")
	}
}

func TestMakeError(t *testing.T) {
	t.Parallel()

	if MakeError() != nil || MakeError(nil, nil) != nil {
		t.Error("expected nil for no errors")
	}

	wrapped := MakeError(errors.Join(io.EOF, io.ErrUnexpectedEOF))
	if !errors.Is(wrapped, io.EOF) || !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("expected joined errors to be flattened into the chain")
	}

	if got := len(UnwrapErrors(ErrInvalidFormat.Wrap(io.EOF))); got != 2 {
		t.Errorf("expected 2 errors in the chain, got %d", got)
	}
}
