// Package lexer converts zyra source text into a sequence of tokens.
package lexer

import (
	"strings"
	"unicode"

	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/lang/token"
)

// Predefined errors (sentinel values).
var (
	ErrUnexpectedChar  = diag.New("LexError", "unexpected character")
	ErrUnterminated    = diag.New("LexError", "unterminated literal")
	ErrUnterminatedRem = diag.New("LexError", "unterminated comment")
	ErrMalformedNumber = diag.New("LexError", "malformed number")
	ErrMalformedChar   = diag.New("LexError", "malformed char literal")
)

// scanner holds the state of a single forward scan.
type scanner struct {
	src  []rune
	off  int
	line int
	col  int
	toks []token.Token
}

// Tokenize scans src and returns its tokens, terminated by a single
// [token.EOF] token. Comments and whitespace are discarded.
//
// The first character that cannot start any token stops the scan with an
// error positioned at that character.
func Tokenize(src string) ([]token.Token, error) {
	s := &scanner{
		src:  []rune(src),
		line: 1,
		col:  1,
		toks: make([]token.Token, 0, len(src)/4+1),
	}

	for {
		if err := s.skip(); err != nil {
			return nil, err
		}

		if s.eof() {
			break
		}

		if err := s.next(); err != nil {
			return nil, err
		}
	}

	s.toks = append(s.toks, token.Token{
		Kind: token.EOF,
		Pos:  s.pos(),
	})

	return s.toks, nil
}

func (s *scanner) eof() bool { return s.off >= len(s.src) }

func (s *scanner) pos() token.Pos { return token.Pos{Line: s.line, Column: s.col} }

// peek returns the rune n positions ahead of the cursor, or 0 past the end.
func (s *scanner) peek(n int) rune {
	if i := s.off + n; i < len(s.src) {
		return s.src[i]
	}

	return 0
}

func (s *scanner) hasPrefix(p string) bool {
	i := s.off
	for _, r := range p {
		if i >= len(s.src) || s.src[i] != r {
			return false
		}

		i++
	}

	return true
}

// advance moves the cursor n runes forward, tracking lines and columns.
func (s *scanner) advance(n int) {
	for ; n > 0 && !s.eof(); n-- {
		if s.src[s.off] == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}

		s.off++
	}
}

func (s *scanner) emit(kind token.Kind, start int, pos token.Pos) {
	s.toks = append(s.toks, token.Token{
		Kind:   kind,
		Lexeme: string(s.src[start:s.off]),
		Pos:    pos,
	})
}

// skip discards whitespace and comments.
func (s *scanner) skip() error {
	for !s.eof() {
		r := s.peek(0)

		switch {
		case unicode.IsSpace(r):
			s.advance(1)

		case r == '#':
			s.skipLine()

		case r == '/' && s.peek(1) == '*':
			pos := s.pos()
			s.advance(2)

			for !s.hasPrefix("*/") {
				if s.eof() {
					return ErrUnterminatedRem.At(pos)
				}

				s.advance(1)
			}

			s.advance(2)

		case r == '/' && s.peek(1) == '/' && !s.followsOperand():
			s.skipLine()

		default:
			return nil
		}
	}

	return nil
}

func (s *scanner) skipLine() {
	for !s.eof() && s.peek(0) != '\n' {
		s.advance(1)
	}
}

// followsOperand reports whether the rune immediately before the cursor ends
// an operand. A "//" in that position is floor division, not a comment.
func (s *scanner) followsOperand() bool {
	if s.off == 0 {
		return false
	}

	r := s.src[s.off-1]

	return isIdentContinue(r) || strings.ContainsRune(`)]}"'`, r)
}

// next scans exactly one token starting at the cursor.
func (s *scanner) next() error {
	r := s.peek(0)

	switch {
	case isDigit(r):
		return s.number()

	case r == 'f' && s.peek(1) == '"':
		return s.quoted(token.FString, 1)

	case r == 'r' && s.peek(1) == '"':
		return s.raw()

	case s.hasPrefix(`"""`):
		return s.multiline()

	case r == '"':
		return s.quoted(token.String, 0)

	case r == '\'':
		return s.char()

	case isIdentStart(r):
		s.ident()

		return nil
	}

	for _, op := range token.Operators {
		if s.hasPrefix(op) {
			start, pos := s.off, s.pos()
			s.advance(len(op))
			s.emit(token.Op, start, pos)

			return nil
		}
	}

	if kind, ok := token.Delimiters[r]; ok {
		start, pos := s.off, s.pos()
		s.advance(1)
		s.emit(kind, start, pos)

		return nil
	}

	return ErrUnexpectedChar.Detailf("%q", r).At(s.pos())
}

func (s *scanner) ident() {
	start, pos := s.off, s.pos()

	for !s.eof() && isIdentContinue(s.peek(0)) {
		s.advance(1)
	}

	word := string(s.src[start:s.off])

	kind := token.Ident

	switch {
	case word == "true" || word == "false":
		kind = token.Bool
	case word == "null":
		kind = token.Null
	case token.IsKeyword(word):
		kind = token.Keyword
	}

	s.toks = append(s.toks, token.Token{Kind: kind, Lexeme: word, Pos: pos})
}

// quoted scans a double-quoted string whose opening quote is skip runes
// ahead of the cursor. Escapes are kept verbatim in the lexeme; `\"` does not
// terminate the string.
func (s *scanner) quoted(kind token.Kind, skip int) error {
	start, pos := s.off, s.pos()
	s.advance(skip + 1)

	for {
		if s.eof() || s.peek(0) == '\n' {
			return ErrUnterminated.Detailf("string").At(pos)
		}

		switch s.peek(0) {
		case '\\':
			s.advance(2)

		case '"':
			s.advance(1)
			s.emit(kind, start, pos)

			return nil

		default:
			s.advance(1)
		}
	}
}

func (s *scanner) raw() error {
	start, pos := s.off, s.pos()
	s.advance(2)

	for s.peek(0) != '"' {
		if s.eof() {
			return ErrUnterminated.Detailf("raw string").At(pos)
		}

		s.advance(1)
	}

	s.advance(1)
	s.emit(token.RawString, start, pos)

	return nil
}

func (s *scanner) multiline() error {
	start, pos := s.off, s.pos()
	s.advance(3)

	for !s.hasPrefix(`"""`) {
		if s.eof() {
			return ErrUnterminated.Detailf("multi-line string").At(pos)
		}

		s.advance(1)
	}

	s.advance(3)
	s.emit(token.MultiString, start, pos)

	return nil
}

func (s *scanner) char() error {
	start, pos := s.off, s.pos()
	s.advance(1)

	switch s.peek(0) {
	case '\\':
		s.advance(2)
	case '\'', '\n', 0:
		return ErrMalformedChar.At(pos)
	default:
		s.advance(1)
	}

	if s.peek(0) != '\'' {
		return ErrMalformedChar.At(pos)
	}

	s.advance(1)
	s.emit(token.Char, start, pos)

	return nil
}

func isDigit(r rune) bool    { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool { return isDigit(r) || (r|0x20 >= 'a' && r|0x20 <= 'f') }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
