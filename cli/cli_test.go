package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/zyra/cli/cmd"
	"github.com/ardnew/zyra/pkg"
)

// TestMain isolates the configuration and cache directories from the
// user's own.
func TestMain(m *testing.M) {
	home, err := os.MkdirTemp("", "zyra-cli-")
	if err != nil {
		panic(err)
	}

	for _, key := range []string{"HOME", "XDG_CONFIG_HOME", "XDG_CACHE_HOME"} {
		os.Setenv(key, filepath.Join(home, strings.ToLower(key)))
	}

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

func script(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.zy")
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write error: %v", err)
	}

	return path
}

// The configuration file is shared by every invocation, so subtests run in
// sequence.
func TestRun(t *testing.T) {
	exit := func(code int) { t.Errorf("unexpected exit %d", code) }

	t.Run("default_command", func(t *testing.T) {
		var out, errOut bytes.Buffer

		ctx := cmd.WithStdio(t.Context(), nil, &out, &errOut)
		path := script(t, `print("hello, " + args[0])`)

		if err := Run(ctx, exit, path, "world"); err != nil {
			t.Fatalf("run error: %v\n%s", err, errOut.String())
		}

		if out.String() != "hello, world\n" {
			t.Errorf("expected greeting, got %q", out.String())
		}
	})

	t.Run("script_error", func(t *testing.T) {
		var out, errOut bytes.Buffer

		ctx := cmd.WithStdio(t.Context(), nil, &out, &errOut)
		path := script(t, "dec x = 1\ndec y = )")

		err := Run(ctx, exit, "run", path)
		if !errors.Is(err, cmd.ErrScript) {
			t.Fatalf("expected a script error, got %v", err)
		}

		if !strings.Contains(errOut.String(), "^") {
			t.Errorf("expected a source excerpt, got %q", errOut.String())
		}
	})

	t.Run("preload", func(t *testing.T) {
		var out, errOut bytes.Buffer

		ctx := cmd.WithStdio(t.Context(), nil, &out, &errOut)
		lib := script(t, "fnc twice(n) { return n * 2 }")
		path := script(t, "print(twice(21))")

		if err := Run(ctx, exit, "--preload", lib, "run", path); err != nil {
			t.Fatalf("run error: %v\n%s", err, errOut.String())
		}

		if out.String() != "42\n" {
			t.Errorf("expected 42, got %q", out.String())
		}
	})

	t.Run("configuration_file", func(t *testing.T) {
		conf := "run:\n  dump: json\n"
		if err := os.WriteFile(pkg.ConfigFile(), []byte(conf), 0o600); err != nil {
			t.Fatalf("write error: %v", err)
		}

		t.Cleanup(func() { os.Remove(pkg.ConfigFile()) })

		var out, errOut bytes.Buffer

		ctx := cmd.WithStdio(t.Context(), nil, &out, &errOut)
		path := script(t, "dec answer = 42")

		if err := Run(ctx, exit, "run", path); err != nil {
			t.Fatalf("run error: %v\n%s", err, errOut.String())
		}

		if !strings.Contains(out.String(), `"answer": 42`) {
			t.Errorf("expected a JSON dump, got %q", out.String())
		}
	})

	t.Run("unknown_flag", func(t *testing.T) {
		var exited []int

		ctx := cmd.WithStdio(t.Context(), nil, new(bytes.Buffer), new(bytes.Buffer))

		err := Run(ctx, func(code int) { exited = append(exited, code) }, "--bogus")
		if err == nil {
			t.Error("expected a parse error")
		}

		if len(exited) != 0 {
			t.Errorf("expected no exit, got %v", exited)
		}
	})
}
