package parser

import (
	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/token"
)

// binaryTiers lists the left-associative binary operators from lowest to
// highest precedence. Ternary sits below the first tier; range, power, unary
// and postfix sit above the last and are parsed by dedicated functions.
var binaryTiers = [][]string{
	{"or", "xor", "||"},
	{"and", "&&"},
	{"then"},
	{"nand"},
	{"==", "!=", "<", ">", "<=", ">=", "<=>", "===", "!==", "in"},
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
}

// arithTiers sit between range and power.
var arithTiers = [][]string{
	{"+", "-"},
	{"*", "/", "%", "//"},
}

// atBinary reports whether the current token is one of ops, accepting both
// symbolic operators and word operators.
func (p *parser) atBinary(ops []string) bool {
	t := p.cur()
	if t.Kind != token.Op && t.Kind != token.Keyword {
		return false
	}

	for _, op := range ops {
		if t.Lexeme == op {
			return true
		}
	}

	return false
}

func (p *parser) expr() (ast.Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	return p.ternary()
}

func (p *parser) ternary() (ast.Expr, error) {
	c, err := p.tier(binaryTiers, 0, p.rangeExpr)
	if err != nil {
		return nil, err
	}

	if !p.atOp("?") {
		return c, nil
	}

	p.next()

	then, err := p.expr()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}

	els, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &ast.Ternary{Span: ast.At(c.Pos()), Cond: c, Then: then, Else: els}, nil
}

// tier parses tiers[i:] by precedence climbing, calling next for operands
// above the last tier.
func (p *parser) tier(
	tiers [][]string,
	i int,
	next func() (ast.Expr, error),
) (ast.Expr, error) {
	if i == len(tiers) {
		return next()
	}

	left, err := p.tier(tiers, i+1, next)
	if err != nil {
		return nil, err
	}

	for p.atBinary(tiers[i]) {
		op := p.next().Lexeme

		right, err := p.tier(tiers, i+1, next)
		if err != nil {
			return nil, err
		}

		left = &ast.Binary{Span: ast.At(left.Pos()), Op: op, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) rangeExpr() (ast.Expr, error) {
	lo, err := p.tier(arithTiers, 0, p.power)
	if err != nil {
		return nil, err
	}

	if !p.atOp("..", "..=") {
		return lo, nil
	}

	inclusive := p.next().Lexeme == "..="

	hi, err := p.tier(arithTiers, 0, p.power)
	if err != nil {
		return nil, err
	}

	return &ast.RangeLit{Span: ast.At(lo.Pos()), Lo: lo, Hi: hi, Inclusive: inclusive}, nil
}

// power is right-associative: 2 ** 3 ** 2 == 2 ** 9.
func (p *parser) power() (ast.Expr, error) {
	base, err := p.unary()
	if err != nil {
		return nil, err
	}

	if !p.atOp("**") {
		return base, nil
	}

	p.next()

	exp, err := p.power()
	if err != nil {
		return nil, err
	}

	return &ast.Binary{Span: ast.At(base.Pos()), Op: "**", Left: base, Right: exp}, nil
}

func (p *parser) unary() (ast.Expr, error) {
	t := p.cur()

	if t.Is(token.Op, "+", "-", "~", "!", "++", "--") || t.Is(token.Keyword, "not", "await") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		p.next()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Unary{Span: ast.At(t.Pos), Op: t.Lexeme, X: x}, nil
	}

	return p.postfix()
}

func (p *parser) postfix() (ast.Expr, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		t := p.cur()

		switch {
		case t.Is(token.Op, "::") && p.peek(1).Kind != token.Ident && p.peek(1).Kind != token.Keyword:
			// a[i::step]
			return x, nil

		case t.Kind == token.Dot || t.Is(token.Op, "::"):
			p.next()

			name := p.cur()
			if name.Kind != token.Ident && name.Kind != token.Keyword && name.Kind != token.Int {
				return nil, p.unexpected("member name")
			}

			p.next()

			x = &ast.Member{Span: ast.At(t.Pos), X: x, Name: name.Lexeme}

		case t.Kind == token.LParen:
			args, err := p.args()
			if err != nil {
				return nil, err
			}

			x = &ast.Call{Span: ast.At(t.Pos), Callee: x, Args: args}

		case t.Kind == token.LBracket:
			if x, err = p.subscript(x); err != nil {
				return nil, err
			}

		case t.Is(token.Op, "++", "--") && p.sameLine():
			p.next()

			x = &ast.Postfix{Span: ast.At(t.Pos), Op: t.Lexeme, X: x}

		default:
			return x, nil
		}
	}
}

func (p *parser) args() ([]ast.Arg, error) {
	p.next() // (

	return withStruct(p, true, func() ([]ast.Arg, error) {
		var list []ast.Arg

		for !p.at(token.RParen) {
			var a ast.Arg

			if p.at(token.Ident) && p.peek(1).Is(token.Op, "=") {
				a.Name = p.next().Lexeme
				p.next()
			}

			v, err := p.expr()
			if err != nil {
				return nil, err
			}

			a.Value = v
			list = append(list, a)

			if !p.at(token.Comma) {
				break
			}

			p.next()
		}

		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}

		return list, nil
	})
}

// subscript parses `[i]` or `[lo:hi:step]` following x.
func (p *parser) subscript(x ast.Expr) (ast.Expr, error) {
	open := p.next()

	return withStruct(p, true, func() (ast.Expr, error) {
		var (
			bounds [3]ast.Expr
			colons int
			err    error
		)

		for {
			if !p.at(token.Colon) && !p.atOp("::") && !p.at(token.RBracket) {
				if bounds[colons], err = p.expr(); err != nil {
					return nil, err
				}
			}

			// `::` lexes as one operator, as in s[::-1].
			if p.atOp("::") && colons == 0 {
				p.next()

				colons = 2

				continue
			}

			if !p.at(token.Colon) || colons == 2 {
				break
			}

			p.next()

			colons++
		}

		if _, err := p.expect(token.RBracket); err != nil {
			return nil, err
		}

		if colons == 0 {
			if bounds[0] == nil {
				return nil, ErrUnexpected.Detailf("empty index").At(open.Pos)
			}

			return &ast.Index{Span: ast.At(open.Pos), X: x, Index: bounds[0]}, nil
		}

		return &ast.Slice{
			Span: ast.At(open.Pos),
			X:    x,
			Lo:   bounds[0],
			Hi:   bounds[1],
			Step: bounds[2],
		}, nil
	})
}

// startsExpr reports whether the current token can begin an expression.
func (p *parser) startsExpr() bool {
	t := p.cur()

	switch {
	case t.Kind.IsNumber(), t.Kind.IsString():
		return true
	}

	switch t.Kind {
	case token.Char, token.Bool, token.Null, token.Ident,
		token.LParen, token.LBracket, token.LBrace:
		return true
	case token.Op:
		return t.Is(token.Op, "+", "-", "~", "!", "++", "--", "|", "||")
	case token.Keyword:
		return t.Is(token.Keyword, "not", "await", "self")
	}

	return false
}

func (p *parser) primary() (ast.Expr, error) {
	t := p.cur()

	switch {
	case t.Kind.IsNumber():
		p.next()

		return number(t)

	case t.Kind == token.FString:
		p.next()

		return p.interpolate(t)

	case t.Kind.IsString():
		p.next()

		return &ast.StringLit{Span: ast.At(t.Pos), Value: unquote(t)}, nil
	}

	switch t.Kind {
	case token.Char:
		p.next()

		r, err := decodeChar(t)
		if err != nil {
			return nil, err
		}

		return &ast.CharLit{Span: ast.At(t.Pos), Value: r}, nil

	case token.Bool:
		p.next()

		return &ast.BoolLit{Span: ast.At(t.Pos), Value: t.Lexeme == "true"}, nil

	case token.Null:
		p.next()

		return &ast.NullLit{Span: ast.At(t.Pos)}, nil

	case token.Ident:
		p.next()

		if p.at(token.LBrace) && !p.noStruct {
			return p.structLit(t)
		}

		return &ast.Ident{Span: ast.At(t.Pos), Name: t.Lexeme}, nil

	case token.Keyword:
		if t.Lexeme == "self" || t.Lexeme == "super" {
			p.next()

			return &ast.Ident{Span: ast.At(t.Pos), Name: t.Lexeme}, nil
		}

	case token.LParen:
		return p.group()

	case token.LBracket:
		p.next()

		elems, err := p.list(token.RBracket)
		if err != nil {
			return nil, err
		}

		return &ast.ArrayLit{Span: ast.At(t.Pos), Elems: elems}, nil

	case token.LBrace:
		return p.braced()

	case token.Op:
		switch t.Lexeme {
		case "|":
			return p.lambda()
		case "||":
			p.next()

			body, err := p.expr()
			if err != nil {
				return nil, err
			}

			return &ast.Lambda{Span: ast.At(t.Pos), Body: body}, nil
		}
	}

	return nil, p.unexpected("expression")
}

// list parses comma-separated expressions up to and including the closing
// delimiter. A trailing comma is allowed.
func (p *parser) list(closer token.Kind) ([]ast.Expr, error) {
	return withStruct(p, true, func() ([]ast.Expr, error) {
		var elems []ast.Expr

		for !p.at(closer) {
			x, err := p.expr()
			if err != nil {
				return nil, err
			}

			elems = append(elems, x)

			if !p.at(token.Comma) {
				break
			}

			p.next()
		}

		if _, err := p.expect(closer); err != nil {
			return nil, err
		}

		return elems, nil
	})
}

// group parses `()`, `(e)`, `(e,)` and `(a, b, ...)`.
func (p *parser) group() (ast.Expr, error) {
	open := p.next()

	return withStruct(p, true, func() (ast.Expr, error) {
		if p.at(token.RParen) {
			p.next()

			return &ast.TupleLit{Span: ast.At(open.Pos)}, nil
		}

		first, err := p.expr()
		if err != nil {
			return nil, err
		}

		if p.at(token.RParen) {
			p.next()

			return first, nil
		}

		if _, err := p.expect(token.Comma); err != nil {
			return nil, err
		}

		rest, err := p.list(token.RParen)
		if err != nil {
			return nil, err
		}

		return &ast.TupleLit{Span: ast.At(open.Pos), Elems: append([]ast.Expr{first}, rest...)}, nil
	})
}

// braced parses a dict or set literal: `{}` is an empty dict, a first
// element followed by ':' starts a dict, anything else is a set.
func (p *parser) braced() (ast.Expr, error) {
	open := p.next()

	return withStruct(p, true, func() (ast.Expr, error) {
		if p.at(token.RBrace) {
			p.next()

			return &ast.DictLit{Span: ast.At(open.Pos)}, nil
		}

		first, err := p.expr()
		if err != nil {
			return nil, err
		}

		if !p.at(token.Colon) {
			elems := []ast.Expr{first}

			if p.at(token.Comma) {
				p.next()

				rest, err := p.list(token.RBrace)
				if err != nil {
					return nil, err
				}

				elems = append(elems, rest...)
			} else if _, err := p.expect(token.RBrace); err != nil {
				return nil, err
			}

			return &ast.SetLit{Span: ast.At(open.Pos), Elems: elems}, nil
		}

		d := &ast.DictLit{Span: ast.At(open.Pos)}
		key := first

		for {
			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}

			v, err := p.expr()
			if err != nil {
				return nil, err
			}

			d.Entries = append(d.Entries, ast.Entry{Key: key, Value: v})

			if p.at(token.Comma) {
				p.next()
			}

			if p.at(token.RBrace) {
				break
			}

			if key, err = p.expr(); err != nil {
				return nil, err
			}
		}

		p.next()

		return d, nil
	})
}

func (p *parser) lambda() (ast.Expr, error) {
	open := p.next()
	l := &ast.Lambda{Span: ast.At(open.Pos)}

	for !p.atOp("|") {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		l.Params = append(l.Params, name.Lexeme)

		if !p.at(token.Comma) {
			break
		}

		p.next()
	}

	if _, err := p.expectOp("|"); err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, err
	}

	l.Body = body

	return l, nil
}

// structLit parses `Name { field: value, ... }` or `Name { value, ... }`
// after the name has been consumed.
func (p *parser) structLit(name token.Token) (ast.Expr, error) {
	p.next() // {

	return withStruct(p, true, func() (ast.Expr, error) {
		s := &ast.StructLit{Span: ast.At(name.Pos), Name: name.Lexeme}

		for !p.at(token.RBrace) {
			var f ast.FieldInit

			if p.at(token.Ident) && p.peek(1).Kind == token.Colon {
				f.Name = p.next().Lexeme
				p.next()
			}

			v, err := p.expr()
			if err != nil {
				return nil, err
			}

			f.Value = v
			s.Fields = append(s.Fields, f)

			if !p.at(token.Comma) {
				break
			}

			p.next()
		}

		if _, err := p.expect(token.RBrace); err != nil {
			return nil, err
		}

		return s, nil
	})
}
