package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/zyra/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{name: "no_call", input: "greeting", cursor: 8},
		{name: "open", input: "add(", cursor: 4, wantName: "add", wantInCall: true},
		{name: "first_arg", input: "add(1", cursor: 5, wantName: "add", wantInCall: true},
		{name: "second_arg", input: "add(1,", cursor: 6, wantName: "add", wantIndex: 1, wantInCall: true},
		{name: "second_arg_value", input: "add(1, 2", cursor: 8, wantName: "add", wantIndex: 1, wantInCall: true},
		{name: "method", input: `s.split(",", `, cursor: 13, wantName: "split", wantIndex: 1, wantInCall: true},
		{name: "nested_outer", input: "add(mul(2, 3),", cursor: 14, wantName: "add", wantIndex: 1, wantInCall: true},
		{name: "nested_inner", input: "add(mul(2, 3), 4)", cursor: 10, wantName: "mul", wantIndex: 1, wantInCall: true},
		{name: "closed", input: "add(1, 2)", cursor: 9},
		{name: "array_commas", input: "len([1, 2, 3]", cursor: 13, wantName: "len", wantInCall: true},
		{name: "inside_array", input: "f([1, ", cursor: 6},
		{name: "string_comma", input: `printf("a, b", `, cursor: 15, wantName: "printf", wantIndex: 1, wantInCall: true},
		{name: "string_paren", input: `print(")", `, cursor: 11, wantName: "print", wantIndex: 1, wantInCall: true},
		{name: "escaped_quote", input: `print("\")", `, cursor: 13, wantName: "print", wantIndex: 1, wantInCall: true},
		{name: "grouping", input: "(1, ", cursor: 4},
		{name: "cursor_before_call", input: "add(1, 2", cursor: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := detectFunctionCall(tt.input, tt.cursor)

			if got.name != tt.wantName {
				t.Errorf("expected name %q, got %q", tt.wantName, got.name)
			}

			if got.argIndex != tt.wantIndex {
				t.Errorf("expected argument %d, got %d", tt.wantIndex, got.argIndex)
			}

			if got.inCall != tt.wantInCall {
				t.Errorf("expected inCall %v, got %v", tt.wantInCall, got.inCall)
			}
		})
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()

	in := lang.New()

	src := `
fnc greet(name, greeting = "Hello") { return greeting + name }
fnc narrow(int8 a) { return a }
fnc none() { return 0 }
dec double = |x| x * 2
dec answer = 42
`
	if err := in.Run(t.Context(), src); err != nil {
		t.Fatalf("run error: %v", err)
	}

	tests := []struct {
		name   string
		fn     string
		want   []string
		wantOK bool
	}{
		{name: "defaults", fn: "greet", want: []string{"name", "greeting?"}, wantOK: true},
		{name: "typed", fn: "narrow", want: []string{"int8 a"}, wantOK: true},
		{name: "no_params", fn: "none", want: []string{}, wantOK: true},
		{name: "lambda", fn: "double", want: []string{"x"}, wantOK: true},
		{name: "native_fixed", fn: "len", want: []string{"arg1"}, wantOK: true},
		{name: "native_optional", fn: "range", want: []string{"arg1", "arg2?", "arg3?"}, wantOK: true},
		{name: "native_variadic", fn: "max", want: []string{"arg1", "..."}, wantOK: true},
		{name: "not_callable", fn: "answer"},
		{name: "undefined", fn: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := signature(in, tt.fn)
			if ok != tt.wantOK {
				t.Fatalf("expected ok %v, got %v", tt.wantOK, ok)
			}

			if ok && !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fn     string
		params []string
		arg    int
		want   []string
	}{
		{name: "no_params", fn: "none", params: nil, want: []string{"none", "(", ")"}},
		{name: "first", fn: "add", params: []string{"a", "b"}, arg: 0, want: []string{"add", "a", ", ", "b"}},
		{name: "past_end", fn: "add", params: []string{"a", "b"}, arg: 5, want: []string{"a", "b"}},
		{name: "variadic", fn: "max", params: []string{"arg1", "..."}, arg: 4, want: []string{"max", "arg1", "..."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := renderSignatureHint(tt.fn, tt.params, tt.arg)

			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in %q", w, got)
				}
			}
		})
	}
}
