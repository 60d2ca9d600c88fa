package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestHistoryMemoryOnly(t *testing.T) {
	t.Parallel()

	h := NewHistory("")

	for _, e := range []string{"a", "  ", "b", "b", "a"} {
		if err := h.Add(e); err != nil {
			t.Fatalf("add error: %v", err)
		}
	}

	if want := []string{"b", "a"}; !slices.Equal(h.Entries(), want) {
		t.Errorf("expected %v, got %v", want, h.Entries())
	}

	if _, err := h.Get(2); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	if err := h.Load(); err != nil {
		t.Errorf("expected no error loading without a file, got %v", err)
	}
}

func TestHistoryPersistence(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load error: %v", err)
	}

	entries := []string{
		"dec x = 1",
		"fnc f() {\n\treturn x\n}",
		`"quoted"`,
		"print(x)",
		"dec x = 1",
	}

	for _, e := range entries {
		if err := h.Add(e); err != nil {
			t.Fatalf("add error: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}

	if n := len(strings.Split(strings.TrimSpace(string(data)), "\n")); n != 4 {
		t.Errorf("expected 4 lines on disk, got %d: %q", n, data)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("load error: %v", err)
	}

	want := []string{"fnc f() {\n\treturn x\n}", `"quoted"`, "print(x)", "dec x = 1"}
	if !slices.Equal(reloaded.Entries(), want) {
		t.Errorf("expected %q, got %q", want, reloaded.Entries())
	}

	if got, err := reloaded.Get(0); err != nil || got != want[0] {
		t.Errorf("expected %q, got %q (%v)", want[0], got, err)
	}
}
