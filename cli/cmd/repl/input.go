package repl

import (
	"errors"
	"strings"

	"github.com/ardnew/zyra/lang/lexer"
	"github.com/ardnew/zyra/lang/token"
)

// needsMore reports whether src is an unfinished fragment that should be
// continued on the next line: an open bracket, an open multi-line string or
// an open block comment. Any other lexical error is left for the evaluator
// to report.
func needsMore(src string) bool {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return errors.Is(err, lexer.ErrUnterminatedRem) ||
			(errors.Is(err, lexer.ErrUnterminated) && strings.Count(src, `"""`)%2 == 1)
	}

	depth := 0

	for _, t := range toks {
		switch t.Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
	}

	return depth > 0
}
