package lexer

import "github.com/ardnew/zyra/lang/token"

// number scans a numeric literal. Forms are tried most specific first:
// hex float, hex int, octal, binary, bigint, decimal, float, int.
func (s *scanner) number() error {
	start, pos := s.off, s.pos()

	if s.peek(0) == '0' {
		switch s.peek(1) | 0x20 {
		case 'x':
			return s.hex(start, pos)
		case 'o':
			return s.radix(start, pos, token.Octal, func(r rune) bool {
				return r >= '0' && r <= '7'
			})
		case 'b':
			return s.radix(start, pos, token.Binary, func(r rune) bool {
				return r == '0' || r == '1'
			})
		}
	}

	s.digits(isDigit)

	kind := token.Int

	switch {
	case s.peek(0) == 'n':
		s.advance(1)

		kind = token.BigInt

	case s.peek(0) == '.' && isDigit(s.peek(1)):
		s.advance(1)
		s.digits(isDigit)

		kind = token.Float

		if s.peek(0) == 'd' {
			s.advance(1)

			kind = token.Decimal
		} else {
			s.exponent()
		}

	case s.exponent():
		kind = token.Float
	}

	if isIdentContinue(s.peek(0)) {
		return s.malformed(start, pos)
	}

	s.emit(kind, start, pos)

	return nil
}

// malformed consumes the rest of a bad literal and reports it.
func (s *scanner) malformed(start int, pos token.Pos) error {
	for !s.eof() && isIdentContinue(s.peek(0)) {
		s.advance(1)
	}

	return ErrMalformedNumber.Detailf("%s", string(s.src[start:s.off])).At(pos)
}

func (s *scanner) digits(ok func(rune) bool) int {
	n := 0
	for !s.eof() && ok(s.peek(0)) {
		s.advance(1)
		n++
	}

	return n
}

// exponent consumes an [eE][+-]?digits suffix if one is present.
func (s *scanner) exponent() bool {
	if s.peek(0)|0x20 != 'e' {
		return false
	}

	n := 1
	if s.peek(1) == '+' || s.peek(1) == '-' {
		n = 2
	}

	if !isDigit(s.peek(n)) {
		return false
	}

	s.advance(n)
	s.digits(isDigit)

	return true
}

func (s *scanner) hex(start int, pos token.Pos) error {
	s.advance(2)

	if s.digits(isHexDigit) == 0 {
		return s.malformed(start, pos)
	}

	kind := token.HexInt

	if s.peek(0) == '.' && isHexDigit(s.peek(1)) {
		s.advance(1)
		s.digits(isHexDigit)

		kind = token.HexFloat
	}

	if s.peek(0)|0x20 == 'p' {
		n := 1
		if s.peek(1) == '+' || s.peek(1) == '-' {
			n = 2
		}

		if isDigit(s.peek(n)) {
			s.advance(n)
			s.digits(isDigit)

			kind = token.HexFloat
		}
	}

	if isIdentContinue(s.peek(0)) {
		return s.malformed(start, pos)
	}

	s.emit(kind, start, pos)

	return nil
}

func (s *scanner) radix(
	start int,
	pos token.Pos,
	kind token.Kind,
	ok func(rune) bool,
) error {
	s.advance(2)

	if s.digits(ok) == 0 || isIdentContinue(s.peek(0)) {
		return s.malformed(start, pos)
	}

	s.emit(kind, start, pos)

	return nil
}
