package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/zyra/lang"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"member", "p.na", 4, "na", 2, 4},
		{"path", "Color::Re", 9, "Re", 7, 9},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"minus_separates", "a-b", 3, "b", 2, 3},
		{"unicode", "größe", 7, "größe", 0, 7},
		{"cursor_past_end", "ab", 10, "ab", 0, 2},
		{"empty_after_dot", "p.", 2, "", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("expected (%q, %d, %d), got (%q, %d, %d)",
					tt.wantWord, tt.wantStart, tt.wantEnd, word, start, end)
			}
		})
	}
}

func TestQualifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
		wantSel   selector
	}{
		{"top_level", "fo", 0, "", selectNone},
		{"member", "p.", 2, "p", selectMember},
		{"path", "Shape::", 7, "Shape", selectPath},
		{"after_operator", "x + p.", 6, "p", selectMember},
		{"chain_uses_last", "a.b.", 4, "b", selectMember},
		{"number_dot", "1.", 2, "1", selectMember},
		{"bare_dot", ".", 1, "", selectNone},
		{"operator", "a + ", 4, "", selectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, sel := qualifier(tt.input, tt.wordStart)
			if got != tt.want || sel != tt.wantSel {
				t.Errorf("expected (%q, %d), got (%q, %d)", tt.want, tt.wantSel, got, sel)
			}
		})
	}
}

func TestTopLevel(t *testing.T) {
	t.Parallel()

	in := lang.New()
	if err := in.Run(t.Context(), "dec answer = 42"); err != nil {
		t.Fatalf("run error: %v", err)
	}

	names := topLevel(in)

	for _, want := range []string{"answer", "len", "while", "fnc"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q among top level names", want)
		}
	}

	if !slices.IsSorted(names) {
		t.Error("expected sorted names")
	}

	if len(slices.Compact(slices.Clone(names))) != len(names) {
		t.Error("expected no duplicate names")
	}
}

func TestSelected(t *testing.T) {
	t.Parallel()

	in := lang.New()

	src := `
struct Point { x: int32, y: int32 }
enum Shape { Circle(int), Square(int) }
dec p = Point { x: 1, y: 2 }
dec s = "text"
`
	if err := in.Run(t.Context(), src); err != nil {
		t.Fatalf("run error: %v", err)
	}

	tests := []struct {
		name string
		qual string
		sel  selector
		want []string
	}{
		{"enum_variants", "Shape", selectPath, []string{"Circle", "Square"}},
		{"struct_fields", "p", selectMember, []string{"x", "y"}},
		{"string_methods", "s", selectMember, []string{"upper"}},
		{"unknown", "nope", selectMember, nil},
		{"not_an_enum", "p", selectPath, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := selected(in, tt.qual, tt.sel)

			if tt.want == nil && got != nil {
				t.Errorf("expected no names, got %v", got)
			}

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("expected %q in %v", w, got)
				}
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	if _, err := m.interp.Eval(t.Context(), "dec counter = 1"); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		pending []string
		want    string
		absent  string
	}{
		{name: "global", input: "coun", want: "counter"},
		{name: "command_at_start", input: "vas", want: "vars"},
		{name: "no_command_mid_line", input: "x + vars", absent: "vars"},
		{name: "no_command_when_pending", input: "rese", pending: []string{"if (true) {"}, absent: "reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m
			m.pending = tt.pending
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, end := m.computeMatches()
			if end != len(tt.input) {
				t.Errorf("expected word end %d, got %d", len(tt.input), end)
			}

			var found []string
			for _, match := range matches {
				found = append(found, match.Str)
			}

			if tt.want != "" && !slices.Contains(found, tt.want) {
				t.Errorf("expected %q in %v", tt.want, found)
			}

			if tt.absent != "" && slices.Contains(found, tt.absent) {
				t.Errorf("expected %q not in %v", tt.absent, found)
			}
		})
	}
}

func TestComputeMatchesEmptyWord(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))

	m.input.SetValue("x + ")
	m.input.SetCursor(4)

	if matches, _, _ := m.computeMatches(); len(matches) != 0 {
		t.Errorf("expected no matches for an empty word, got %d", len(matches))
	}

	if _, err := m.interp.Eval(t.Context(), `dec s = "abc"`); err != nil {
		t.Fatalf("eval error: %v", err)
	}

	m.input.SetValue("s.")
	m.input.SetCursor(2)

	matches, _, _ := m.computeMatches()
	if len(matches) != len(lang.Methods(lang.KindString)) {
		t.Errorf("expected every string method, got %d", len(matches))
	}
}

func TestRenderCandidateBar(t *testing.T) {
	t.Parallel()

	m := newModel(t.Context(), config{}, NewHistory(""))
	m.input.SetValue("pri")
	m.input.SetCursor(3)

	matches, _, _ := m.computeMatches()
	if len(matches) == 0 {
		t.Fatal("expected matches for pri")
	}

	if renderCandidateBar(matches, -1, false, 0) != "" {
		t.Error("expected an empty bar with no width")
	}

	if renderCandidateBar(nil, -1, false, 80) != "" {
		t.Error("expected an empty bar with no matches")
	}

	if bar := renderCandidateBar(matches, 0, true, 80); bar == "" {
		t.Error("expected a rendered bar")
	}
}
