package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/zyra/lang/lexer"
)

func TestLex(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "lex.zy", "dec x = 0x1F\nprint(x)")

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		if err := (&Lex{File: path, Format: "text"}).Run(WithStdio(t.Context(), nil, &out, nil)); err != nil {
			t.Fatalf("lex error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		if !strings.HasPrefix(lines[0], "1:1") || !strings.Contains(lines[0], `"dec"`) {
			t.Errorf("expected the first token at 1:1, got %q", lines[0])
		}

		if !strings.Contains(out.String(), `"0x1F"`) {
			t.Errorf("expected the hex literal, got %q", out.String())
		}
	})

	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer

			if err := (&Lex{File: path, Format: format}).Run(WithStdio(t.Context(), nil, &out, nil)); err != nil {
				t.Fatalf("lex error: %v", err)
			}

			var toks []lexeme

			unmarshal := json.Unmarshal
			if format == "yaml" {
				unmarshal = yaml.Unmarshal
			}

			if err := unmarshal(out.Bytes(), &toks); err != nil {
				t.Fatalf("unmarshal error: %v", err)
			}

			if len(toks) < 8 {
				t.Fatalf("expected at least 8 tokens, got %d", len(toks))
			}

			if toks[3].Lexeme != "0x1F" || toks[3].Line != 1 || toks[3].Column != 9 {
				t.Errorf("expected 0x1F at 1:9, got %+v", toks[3])
			}

			if toks[4].Line != 2 {
				t.Errorf("expected print on line 2, got %+v", toks[4])
			}
		})
	}
}

func TestLexError(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer

	path := writeFile(t, t.TempDir(), "bad.zy", `dec s = "open`)

	err := (&Lex{File: path, Format: "text"}).Run(WithStdio(t.Context(), nil, nil, &errOut))
	if !errors.Is(err, lexer.ErrUnterminated) {
		t.Errorf("expected ErrUnterminated, got %v", err)
	}

	if !strings.Contains(errOut.String(), "bad.zy") {
		t.Errorf("expected the file name in the diagnostic, got %q", errOut.String())
	}
}
