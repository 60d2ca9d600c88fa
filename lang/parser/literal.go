package parser

import (
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/lexer"
	"github.com/ardnew/zyra/lang/token"
)

// number converts a numeric literal token into its AST node.
func number(t token.Token) (ast.Expr, error) {
	span := ast.At(t.Pos)
	bad := func() error { return ErrLiteral.Detailf("%s", t.Lexeme).At(t.Pos) }

	switch t.Kind {
	case token.Int:
		v, ok := new(big.Int).SetString(t.Lexeme, 10)
		if !ok {
			return nil, bad()
		}

		return &ast.IntLit{Span: span, Value: v}, nil

	case token.HexInt, token.Octal, token.Binary:
		// base 0 honours the 0x, 0o and 0b prefixes
		v, ok := new(big.Int).SetString(strings.ToLower(t.Lexeme), 0)
		if !ok {
			return nil, bad()
		}

		return &ast.IntLit{Span: span, Value: v}, nil

	case token.BigInt:
		v, ok := new(big.Int).SetString(strings.TrimSuffix(t.Lexeme, "n"), 10)
		if !ok {
			return nil, bad()
		}

		return &ast.BigIntLit{Span: span, Value: v}, nil

	case token.Decimal:
		v, err := decimal.NewFromString(strings.TrimSuffix(t.Lexeme, "d"))
		if err != nil {
			return nil, ErrLiteral.Wrap(err).At(t.Pos)
		}

		return &ast.DecimalLit{Span: span, Value: v}, nil

	case token.HexFloat:
		s := t.Lexeme
		if !strings.ContainsAny(s, "pP") {
			s += "p0"
		}

		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, ErrLiteral.Wrap(err).At(t.Pos)
		}

		return &ast.FloatLit{Span: span, Value: v}, nil

	case token.Float:
		v, err := strconv.ParseFloat(t.Lexeme, 64)
		if err != nil {
			return nil, ErrLiteral.Wrap(err).At(t.Pos)
		}

		return &ast.FloatLit{Span: span, Value: v}, nil
	}

	return nil, bad()
}

// unquote strips the delimiters of a string literal. Escape sequences are
// left untouched.
func unquote(t token.Token) string {
	s := t.Lexeme

	switch t.Kind {
	case token.RawString:
		return s[2 : len(s)-1]
	case token.MultiString:
		return s[3 : len(s)-3]
	case token.FString:
		return s[2 : len(s)-1]
	}

	return s[1 : len(s)-1]
}

var charEscapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

func decodeChar(t token.Token) (rune, error) {
	body := t.Lexeme[1 : len(t.Lexeme)-1]

	r, size := utf8.DecodeRuneInString(body)
	if r != '\\' {
		return r, nil
	}

	esc, _ := utf8.DecodeRuneInString(body[size:])
	if v, ok := charEscapes[esc]; ok {
		return v, nil
	}

	return 0, ErrLiteral.Detailf("unknown escape %s", body).At(t.Pos)
}

// interpolate splits an f-string into literal text and embedded expressions.
// `{{` and `}}` stand for literal braces.
func (p *parser) interpolate(t token.Token) (ast.Expr, error) {
	body := []rune(unquote(t))
	node := &ast.Interp{Span: ast.At(t.Pos)}

	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			node.Parts = append(node.Parts, &ast.StringLit{Span: ast.At(t.Pos), Value: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(body); i++ {
		r := body[i]

		switch {
		case r == '{' && i+1 < len(body) && body[i+1] == '{':
			text.WriteRune('{')
			i++

		case r == '}' && i+1 < len(body) && body[i+1] == '}':
			text.WriteRune('}')
			i++

		case r == '{':
			end := closingBrace(body, i)
			if end < 0 {
				return nil, ErrLiteral.Detailf("unterminated '{' in interpolated string").At(t.Pos)
			}

			flush()

			// 2 accounts for the f" prefix.
			col := t.Column + 2 + i + 1

			x, err := p.embedded(string(body[i+1:end]), token.Pos{Line: t.Line, Column: col})
			if err != nil {
				return nil, err
			}

			node.Parts = append(node.Parts, x)
			i = end

		default:
			text.WriteRune(r)
		}
	}

	flush()

	return node, nil
}

// closingBrace returns the index of the '}' matching the '{' at open,
// skipping nested braces and quoted strings, or -1.
func closingBrace(body []rune, open int) int {
	depth := 0

	var quote rune

	for i := open; i < len(body); i++ {
		r := body[i]

		switch {
		case quote != 0:
			if r == '\\' {
				i++
			} else if r == quote {
				quote = 0
			}

		case r == '\'' || r == '"':
			quote = r

		case r == '{':
			depth++

		case r == '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// embedded parses the source of one interpolated expression, shifting token
// positions so errors point into the enclosing string.
func (p *parser) embedded(src string, at token.Pos) (ast.Expr, error) {
	// Escaped quotes inside the f-string body appear as \" in the lexeme.
	src = strings.ReplaceAll(src, `\"`, `"`)

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, ErrLiteral.Wrap(err).At(at)
	}

	for i := range toks {
		if toks[i].Line == 1 {
			toks[i].Column += at.Column - 1
		}

		toks[i].Line += at.Line - 1
	}

	sub := &parser{
		logger:   p.logger,
		toks:     toks,
		depth:    p.depth,
		maxDepth: p.maxDepth,
	}

	x, err := sub.expr()
	if err != nil {
		return nil, err
	}

	if !sub.at(token.EOF) {
		return nil, sub.unexpected("'}'")
	}

	return x, nil
}
