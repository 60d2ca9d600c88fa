package lexer

import (
	"errors"
	"testing"

	"github.com/ardnew/zyra/lang/token"
)

type tok struct {
	kind   token.Kind
	lexeme string
}

func kinds(t *testing.T, src string) []tok {
	t.Helper()

	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", last)
	}

	out := make([]tok, 0, len(toks)-1)
	for _, x := range toks[:len(toks)-1] {
		out = append(out, tok{x.Kind, x.Lexeme})
	}

	return out
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []tok
	}{
		{
			name: "declaration",
			src:  "dec mut uint8 x = 250;",
			want: []tok{
				{token.Keyword, "dec"}, {token.Keyword, "mut"}, {token.Ident, "uint8"},
				{token.Ident, "x"}, {token.Op, "="}, {token.Int, "250"}, {token.Semicolon, ";"},
			},
		},
		{
			name: "numbers",
			src:  "0x1.8p3 0xff 0o17 0b101 123n 1.25d 1.5 1e9 2.5e-3 42",
			want: []tok{
				{token.HexFloat, "0x1.8p3"}, {token.HexInt, "0xff"}, {token.Octal, "0o17"},
				{token.Binary, "0b101"}, {token.BigInt, "123n"}, {token.Decimal, "1.25d"},
				{token.Float, "1.5"}, {token.Float, "1e9"}, {token.Float, "2.5e-3"}, {token.Int, "42"},
			},
		},
		{
			name: "range_is_not_float",
			src:  "1..=3",
			want: []tok{{token.Int, "1"}, {token.Op, "..="}, {token.Int, "3"}},
		},
		{
			name: "strings",
			src:  `f"a {x}" r"\d" """multi` + "\n" + `line""" "q\"q" 'c' '\n'`,
			want: []tok{
				{token.FString, `f"a {x}"`}, {token.RawString, `r"\d"`},
				{token.MultiString, "\"\"\"multi\nline\"\"\""}, {token.String, `"q\"q"`},
				{token.Char, `'c'`}, {token.Char, `'\n'`},
			},
		},
		{
			name: "comments",
			src:  "a # hash\nb /* block\n */ c // line\nd",
			want: []tok{{token.Ident, "a"}, {token.Ident, "b"}, {token.Ident, "c"}, {token.Ident, "d"}},
		},
		{
			name: "floor_division_needs_adjacent_operand",
			src:  "7//2 x//y (a)//b 7 // 2",
			want: []tok{
				{token.Int, "7"}, {token.Op, "//"}, {token.Int, "2"},
				{token.Ident, "x"}, {token.Op, "//"}, {token.Ident, "y"},
				{token.LParen, "("}, {token.Ident, "a"}, {token.RParen, ")"}, {token.Op, "//"}, {token.Ident, "b"},
				{token.Int, "7"},
			},
		},
		{
			name: "comment_markers_inside_literals",
			src:  `"# not // a /* comment" '#'`,
			want: []tok{{token.String, `"# not // a /* comment"`}, {token.Char, `'#'`}},
		},
		{
			name: "longest_operator_wins",
			src:  "a <<<= b <=> c === d ... e ** f -> g => h :: i",
			want: []tok{
				{token.Ident, "a"}, {token.Op, "<<<="}, {token.Ident, "b"}, {token.Op, "<=>"},
				{token.Ident, "c"}, {token.Op, "==="}, {token.Ident, "d"}, {token.Op, "..."},
				{token.Ident, "e"}, {token.Op, "**"}, {token.Ident, "f"}, {token.Op, "->"},
				{token.Ident, "g"}, {token.Op, "=>"}, {token.Ident, "h"}, {token.Op, "::"},
				{token.Ident, "i"},
			},
		},
		{
			name: "literal_words",
			src:  "true null and nand größe",
			want: []tok{
				{token.Bool, "true"}, {token.Null, "null"}, {token.Keyword, "and"},
				{token.Keyword, "nand"}, {token.Ident, "größe"},
			},
		},
		{
			name: "delimiters",
			src:  "({[;:,.@$]})",
			want: []tok{
				{token.LParen, "("}, {token.LBrace, "{"}, {token.LBracket, "["}, {token.Semicolon, ";"},
				{token.Colon, ":"}, {token.Comma, ","}, {token.Dot, "."}, {token.At, "@"},
				{token.Dollar, "$"}, {token.RBracket, "]"}, {token.RBrace, "}"}, {token.RParen, ")"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := kinds(t, tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.want), len(got), got)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: expected %v %q, got %v %q",
						i, tt.want[i].kind, tt.want[i].lexeme, got[i].kind, got[i].lexeme)
				}
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	t.Parallel()

	toks, err := Tokenize("dec x\n  = 1")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}

	want := []token.Pos{{Line: 1, Column: 1}, {Line: 1, Column: 5}, {Line: 2, Column: 3}, {Line: 2, Column: 5}, {Line: 2, Column: 6}}
	for i, p := range want {
		if toks[i].Pos != p {
			t.Errorf("token %d: expected %v, got %v", i, p, toks[i].Pos)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
		pos  token.Pos
	}{
		{name: "unexpected", src: "a = `b`", want: ErrUnexpectedChar, pos: token.Pos{Line: 1, Column: 5}},
		{name: "unterminated_string", src: "x\n \"abc", want: ErrUnterminated, pos: token.Pos{Line: 2, Column: 2}},
		{name: "unterminated_comment", src: "/* never", want: ErrUnterminatedRem, pos: token.Pos{Line: 1, Column: 1}},
		{name: "number_suffix", src: "12ab", want: ErrMalformedNumber, pos: token.Pos{Line: 1, Column: 1}},
		{name: "empty_hex", src: "0x", want: ErrMalformedNumber, pos: token.Pos{Line: 1, Column: 1}},
		{name: "long_char", src: "'ab'", want: ErrMalformedChar, pos: token.Pos{Line: 1, Column: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Tokenize(tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}

			var pe interface{ Pos() token.Pos }
			if !errors.As(err, &pe) {
				t.Fatalf("expected a positioned error, got %T", err)
			}

			if pe.Pos() != tt.pos {
				t.Errorf("expected position %v, got %v", tt.pos, pe.Pos())
			}
		})
	}
}
