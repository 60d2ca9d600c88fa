package lang

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSprintf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		args   []Value
		want   string
	}{
		{format: "plain", want: "plain"},
		{format: "%d%%", args: []Value{NewInt(50)}, want: "50%"},
		{format: "[%5d|%-5d|%05d]", args: []Value{NewInt(42), NewInt(42), NewInt(42)}, want: "[   42|42   |00042]"},
		{format: "%i %u", args: []Value{NewInt(-3), Bool(true)}, want: "-3 1"},
		{format: "%x %X %o %b", args: []Value{NewInt(255), NewInt(255), NewInt(8), NewInt(5)}, want: "ff FF 10 101"},
		{format: "%.3f", args: []Value{Float(3.14159)}, want: "3.142"},
		{format: "%F", args: []Value{NewInt(2)}, want: "2.000000"},
		{format: "%e", args: []Value{Float(12345.678)}, want: "1.234568e+04"},
		{format: "%g", args: []Value{DecimalOf(decimal.RequireFromString("0.25"))}, want: "0.25"},
		{format: "%s and %s", args: []Value{String("a"), NewArray(NewInt(1), String("b"))}, want: `a and [1, "b"]`},
		{format: "%-4s|", args: []Value{String("ab")}, want: "ab  |"},
		{format: "%c%c%c", args: []Value{Char('x'), String("y"), NewInt(122)}, want: "xyz"},
		{format: "%d", args: []Value{BigIntOf(IntType{Bits: 80}.Max())}, want: "1208925819614629174706175"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			got, err := Sprintf(tt.format, tt.args...)
			if err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSprintfErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
		args   []Value
	}{
		{name: "too_few", format: "%d %d", args: []Value{NewInt(1)}},
		{name: "too_many", format: "%d", args: []Value{NewInt(1), NewInt(2)}},
		{name: "incomplete", format: "100%"},
		{name: "unknown_verb", format: "%q", args: []Value{NewInt(1)}},
		{name: "number_verb_on_text", format: "%d", args: []Value{String("x")}},
		{name: "float_verb_on_text", format: "%f", args: []Value{String("x")}},
		{name: "char_verb_on_word", format: "%c", args: []Value{String("xy")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Sprintf(tt.format, tt.args...); !errors.Is(err, ErrFormat) {
				t.Errorf("expected %v, got %v", ErrFormat, err)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: `no escapes`, want: "no escapes"},
		{in: `a\nb`, want: "a\nb"},
		{in: `\t\r`, want: "\t\r"},
		{in: `say \"hi\"`, want: `say "hi"`},
		{in: `back\\slash`, want: `back\slash`},
		{in: `keep \q`, want: `keep \q`},
		{in: `trailing \`, want: `trailing \`},
	}

	for _, tt := range tests {
		if got := Unescape(tt.in); got != tt.want {
			t.Errorf("Unescape(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
