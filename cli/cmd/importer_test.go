package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/log"
	"github.com/ardnew/zyra/pkg"
)

func runWith(t *testing.T, imp *FileImporter, dir, src string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	in := lang.New(lang.WithImporter(imp), lang.WithOutput(&out))
	err := in.Run(WithImportDir(t.Context(), dir), src)

	return out.String(), err
}

func TestFileImporter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	lib := t.TempDir()

	writeFile(t, dir, "util.zy", "fnc double(n) { return n * 2 }\ndec scale = 10")
	writeFile(t, dir, "nested/inner.zy", "import sibling\ndec inner = sib + 1")
	writeFile(t, dir, "nested/sibling.zy", "dec sib = 41")
	writeFile(t, lib, "shared.zy", `dec greeting = "hi"`)

	imp := NewFileImporter(log.Logger{}, []string{lib})

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "plain", src: "import util\nprint(double(scale))", want: "20\n"},
		{name: "extension", src: "import \"util.zy\" as u\nprint(u.scale)", want: "10\n"},
		{name: "from", src: "from util import double\nprint(double(4))", want: "8\n"},
		{name: "search_dir", src: "import shared\nprint(greeting)", want: "hi\n"},
		{name: "relative_to_module", src: "import \"nested/inner\"\nprint(inner)", want: "42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := runWith(t, imp, dir, tt.src)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFileImporterCaches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "noisy.zy", `print("loaded")`)

	var modOut bytes.Buffer

	imp := NewFileImporter(log.Logger{}, nil, lang.WithOutput(&modOut))

	for range 2 {
		if _, err := runWith(t, imp, dir, "import noisy\nimport noisy as n"); err != nil {
			t.Fatalf("run error: %v", err)
		}
	}

	if got := modOut.String(); got != "loaded\n" {
		t.Errorf("expected the module to run once, got %q", got)
	}

	mod, err := imp.Import(WithImportDir(t.Context(), dir), "noisy")
	if err != nil {
		t.Fatalf("import error: %v", err)
	}

	if want := filepath.Join(dir, "noisy.zy"); mod.Path != want {
		t.Errorf("expected path %s, got %s", want, mod.Path)
	}
}

func TestFileImporterErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.zy", "import b")
	writeFile(t, dir, "b.zy", "import a")
	writeFile(t, dir, "broken.zy", "dec = ")

	imp := NewFileImporter(log.Logger{}, nil)

	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "missing", src: "import absent", want: pkg.ErrModuleNotFound},
		{name: "cycle", src: "import a", want: pkg.ErrImportCycle},
		{name: "broken", src: "import broken", want: lang.ErrImport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := runWith(t, imp, dir, tt.src)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if !errors.Is(err, lang.ErrImport) {
				t.Errorf("expected an import error, got %v", err)
			}
		})
	}
}

func TestSearchPath(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	missing := filepath.Join(a, "missing")

	t.Setenv(pkg.PathEnv, b+string(filepath.ListSeparator)+missing)

	imp := NewFileImporter(log.Logger{}, []string{a, b})

	if len(imp.dirs) != 2 || imp.dirs[0] != a || imp.dirs[1] != b {
		t.Errorf("expected [%s %s], got %v", a, b, imp.dirs)
	}
}
