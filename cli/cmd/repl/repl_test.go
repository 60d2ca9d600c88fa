package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func enter(t *testing.T, m model, line string) model {
	t.Helper()

	m.input.SetValue(line)
	m.input.SetCursor(len(line))

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	return next
}

func TestSubmitEvaluates(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m = enter(t, m, "dec x = 40 + 2")

	v, ok := m.interp.Globals().Get("x")
	if !ok {
		t.Fatal("expected x to be declared")
	}

	if v.String() != "42" {
		t.Errorf("expected 42, got %s", v)
	}

	if m.history.Len() != 1 {
		t.Errorf("expected 1 history entry, got %d", m.history.Len())
	}

	if m.input.Value() != "" {
		t.Errorf("expected cleared input, got %q", m.input.Value())
	}
}

func TestSubmitContinuesOpenBlock(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))

	m = enter(t, m, "fnc twice(n) {")
	m = enter(t, m, "  return n * 2")

	if len(m.pending) != 2 {
		t.Fatalf("expected 2 pending lines, got %d", len(m.pending))
	}

	m = enter(t, m, "}")

	if m.pending != nil {
		t.Errorf("expected no pending lines, got %q", m.pending)
	}

	if _, ok := m.interp.Globals().Get("twice"); !ok {
		t.Error("expected twice to be declared")
	}

	if got, _ := m.history.Get(0); !strings.Contains(got, "\n") {
		t.Errorf("expected one multi-line history entry, got %q", got)
	}
}

func TestSubmitEmptyLineForcesEvaluation(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))

	m = enter(t, m, "print(1,")
	m = enter(t, m, "")

	if m.pending != nil {
		t.Errorf("expected the entry to be evaluated, got pending %q", m.pending)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m = enter(t, m, "dec kept = 1")

	if vars := m.listVars(); !strings.Contains(vars, "kept") {
		t.Errorf("expected kept in %q", vars)
	}

	m = enter(t, m, "reset")

	if _, ok := m.interp.Globals().Get("kept"); ok {
		t.Error("expected reset to discard kept")
	}

	if vars := m.listVars(); !strings.Contains(vars, "no bindings") {
		t.Errorf("expected no bindings, got %q", vars)
	}

	m = enter(t, m, "quit")

	if !m.quitting {
		t.Error("expected quit to end the session")
	}
}

func TestCommandsOnlyAtTopLevel(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))

	m = enter(t, m, "while (false) {")
	m = enter(t, m, "quit")

	if m.quitting {
		t.Error("expected quit inside a block not to be a command")
	}

	if len(m.pending) != 2 {
		t.Errorf("expected 2 pending lines, got %d", len(m.pending))
	}
}

func TestCtrlC(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m = enter(t, m, "if (true) {")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})

	if m.pending != nil || m.quitting {
		t.Errorf("expected pending input to be cleared, got %q (quitting %v)", m.pending, m.quitting)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})

	if !m.quitting {
		t.Error("expected Ctrl+C on an empty line to quit")
	}
}

func TestBrowseHistory(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m = enter(t, m, "dec a = 1")
	m = enter(t, m, "dec b = 2")

	m = m.browse(-1)
	if m.input.Value() != "dec b = 2" {
		t.Errorf("expected newest entry, got %q", m.input.Value())
	}

	m = m.browse(-1)
	m = m.browse(-1)

	if m.input.Value() != "dec a = 1" {
		t.Errorf("expected oldest entry, got %q", m.input.Value())
	}

	m = m.browse(1)
	m = m.browse(1)

	if m.input.Value() != "" {
		t.Errorf("expected empty input past the newest entry, got %q", m.input.Value())
	}
}

func TestTabCycle(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m = enter(t, m, "dec alpha_one = 1")
	m = enter(t, m, "dec alpha_two = 2")

	m.input.SetValue("alpha_")
	m.input.SetCursor(6)
	refreshMatches(&m, false)

	m = m.cycle(1)
	first := m.input.Value()

	m = m.cycle(1)
	second := m.input.Value()

	if first == second || !strings.HasPrefix(first, "alpha_") || !strings.HasPrefix(second, "alpha_") {
		t.Errorf("expected two distinct completions, got %q and %q", first, second)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})

	if m.input.Value() != "alpha_" {
		t.Errorf("expected Esc to restore the typed word, got %q", m.input.Value())
	}
}
