package profile

import (
	"slices"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	p := New(WithMode("cpu"), WithDir("/tmp/prof"), WithQuiet(true))

	if p.Mode != "cpu" || p.Dir != "/tmp/prof" || !p.Quiet {
		t.Errorf("expected options to be applied, got %+v", p)
	}

	base := New(WithMode("heap"))
	derived := WithMode("block")(base)

	if base.Mode != "heap" || derived.Mode != "block" {
		t.Errorf("expected options to copy, got %q and %q", base.Mode, derived.Mode)
	}
}

func TestStartDisabled(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"", "no-such-mode"} {
		s := Profiler{Mode: mode, Dir: t.TempDir(), Quiet: true}.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("expected a no-op session for mode %q, got %T", mode, s)
		}

		s.Stop()
	}
}

func TestModesSorted(t *testing.T) {
	t.Parallel()

	if !slices.IsSorted(Modes()) {
		t.Errorf("expected sorted modes, got %v", Modes())
	}
}
