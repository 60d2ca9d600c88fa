package parser

import (
	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/token"
)

func (p *parser) pattern() (ast.Pattern, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.cur()
	span := ast.At(t.Pos)

	switch {
	case t.Kind.IsNumber(), t.Kind.IsString(),
		t.Kind == token.Char, t.Kind == token.Bool, t.Kind == token.Null:
		x, err := p.primary()
		if err != nil {
			return nil, err
		}

		return &ast.LitPattern{Span: span, Value: x}, nil

	case t.Is(token.Op, "-") && p.peek(1).Kind.IsNumber():
		p.next()

		x, err := p.primary()
		if err != nil {
			return nil, err
		}

		return &ast.LitPattern{Span: span, Value: &ast.Unary{Span: span, Op: "-", X: x}}, nil

	case t.Kind == token.LParen:
		p.next()

		elems, trailing, err := p.patterns(token.RParen)
		if err != nil {
			return nil, err
		}

		// (p) is grouping; (p,) is a 1-tuple.
		if len(elems) == 1 && !trailing {
			return elems[0], nil
		}

		return &ast.TuplePattern{Span: span, Elems: elems}, nil

	case t.Kind == token.LBracket:
		p.next()

		elems, _, err := p.patterns(token.RBracket)
		if err != nil {
			return nil, err
		}

		return &ast.ArrayPattern{Span: span, Elems: elems}, nil

	case t.Kind == token.Ident:
		return p.namePattern()
	}

	return nil, p.unexpected("pattern")
}

// namePattern parses `_`, a binding name, `Variant(p...)`, `Enum.Variant`
// and `Enum.Variant(p...)`.
func (p *parser) namePattern() (ast.Pattern, error) {
	name := p.next()
	span := ast.At(name.Pos)

	if name.Lexeme == "_" {
		return &ast.WildcardPattern{Span: span}, nil
	}

	v := &ast.VariantPattern{Span: span, Name: name.Lexeme}

	if p.at(token.Dot) || p.atOp("::") {
		p.next()

		variant, err := p.ident()
		if err != nil {
			return nil, err
		}

		v.Enum, v.Name = name.Lexeme, variant.Lexeme

		if !p.at(token.LParen) {
			return v, nil
		}
	}

	if !p.at(token.LParen) {
		return &ast.BindPattern{Span: span, Name: name.Lexeme}, nil
	}

	p.next()

	elems, _, err := p.patterns(token.RParen)
	if err != nil {
		return nil, err
	}

	v.Elems = elems
	if v.Elems == nil {
		v.Elems = []ast.Pattern{}
	}

	return v, nil
}

// patterns parses a comma-separated pattern list through closer and reports
// whether the list ended with a trailing comma.
func (p *parser) patterns(closer token.Kind) ([]ast.Pattern, bool, error) {
	var (
		elems    []ast.Pattern
		trailing bool
	)

	for !p.at(closer) {
		trailing = false

		x, err := p.pattern()
		if err != nil {
			return nil, false, err
		}

		elems = append(elems, x)

		if !p.at(token.Comma) {
			break
		}

		p.next()

		trailing = true
	}

	if _, err := p.expect(closer); err != nil {
		return nil, false, err
	}

	return elems, trailing, nil
}
