package parser

import (
	"strings"

	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/token"
)

// assignOps are the operators accepted after an assignment target.
var assignOps = []string{
	"=", ":=", "+=", "-=", "*=", "/=", "//=", "%=", "**=",
	"&=", "|=", "^=", "<<=", ">>=",
}

// ModuleExt is appended to bare module names in import statements.
const ModuleExt = ".zy"

func (p *parser) statement() (ast.Stmt, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	t := p.cur()

	if t.Kind == token.LBrace {
		return p.block()
	}

	if t.Kind != token.Keyword {
		return p.simple()
	}

	switch t.Lexeme {
	case "dec":
		return p.varDecl()
	case "const":
		return p.constDecl()
	case "fnc":
		return p.funcDecl(false)
	case "async":
		p.next()

		if !p.atKeyword("fnc") {
			return nil, p.unexpected("'fnc' after 'async'")
		}

		return p.funcDecl(true)
	case "struct":
		return p.structDecl()
	case "union":
		return p.unionDecl()
	case "enum":
		return p.enumDecl()
	case "type":
		return p.typeAlias()
	case "if":
		return p.ifStmt()
	case "while":
		return p.whileStmt()
	case "for":
		return p.forStmt()
	case "switch":
		return p.switchStmt()
	case "match":
		return p.matchStmt()
	case "try":
		return p.tryStmt()
	case "throw":
		p.next()

		v, err := p.expr()
		if err != nil {
			return nil, err
		}

		return &ast.Throw{Span: ast.At(t.Pos), Value: v}, nil
	case "return":
		p.next()

		v, err := p.optionalValue()
		if err != nil {
			return nil, err
		}

		return &ast.Return{Span: ast.At(t.Pos), Value: v}, nil
	case "break":
		p.next()

		v, err := p.optionalValue()
		if err != nil {
			return nil, err
		}

		return &ast.Break{Span: ast.At(t.Pos), Value: v}, nil
	case "continue":
		p.next()

		return &ast.Continue{Span: ast.At(t.Pos)}, nil
	case "print":
		return p.printStmt()
	case "printf":
		return p.printfStmt()
	case "import":
		return p.importStmt()
	case "from":
		return p.fromStmt()
	}

	return p.simple()
}

// optionalValue parses the operand of return/break, which must begin on the
// same line as the keyword.
func (p *parser) optionalValue() (ast.Expr, error) {
	if !p.sameLine() || !p.startsExpr() {
		return nil, nil
	}

	return p.expr()
}

// simple parses an assignment or an expression statement.
func (p *parser) simple() (ast.Stmt, error) {
	start := p.cur().Pos

	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	if !p.atOp(assignOps...) {
		return &ast.ExprStmt{Span: ast.At(start), X: x}, nil
	}

	switch x.(type) {
	case *ast.Ident, *ast.Member, *ast.Index:
	default:
		return nil, ErrTarget.At(start)
	}

	op := p.next().Lexeme
	if op == ":=" {
		op = "="
	}

	v, err := p.expr()
	if err != nil {
		return nil, err
	}

	return &ast.Assign{Span: ast.At(start), Target: x, Op: op, Value: v}, nil
}

func (p *parser) block() (*ast.Block, error) {
	open, err := p.expect(token.LBrace)
	if err != nil {
		return nil, err
	}

	b := &ast.Block{Span: ast.At(open.Pos)}

	for !p.at(token.RBrace) {
		if p.at(token.EOF) {
			return nil, p.unexpected("'}'")
		}

		if p.skipSemis() {
			continue
		}

		s, err := p.statement()
		if err != nil {
			return nil, err
		}

		b.Stmts = append(b.Stmts, s)
	}

	p.next()

	return b, nil
}

// typeName parses a type annotation: a name optionally followed by generic
// arguments (`Array<int>`), or a bracketed element type (`[int]`).
func (p *parser) typeName() (string, error) {
	if p.at(token.LBracket) {
		p.next()

		elem, err := p.typeName()
		if err != nil {
			return "", err
		}

		if _, err := p.expect(token.RBracket); err != nil {
			return "", err
		}

		return "[" + elem + "]", nil
	}

	name, err := p.ident()
	if err != nil {
		return "", err
	}

	if !p.atOp("<") {
		return name.Lexeme, nil
	}

	p.next()

	args := []string{}

	for {
		arg, err := p.typeName()
		if err != nil {
			return "", err
		}

		args = append(args, arg)

		if !p.at(token.Comma) {
			break
		}

		p.next()
	}

	if _, err := p.expectOp(">"); err != nil {
		return "", err
	}

	return name.Lexeme + "<" + strings.Join(args, ", ") + ">", nil
}

func (p *parser) varDecl() (ast.Stmt, error) {
	kw := p.next()
	decl := &ast.VarDecl{Span: ast.At(kw.Pos), Mut: true}

	if p.atKeyword("mut") {
		p.next()
	}

	// `dec Type name` when two identifiers follow.
	if p.at(token.Ident) && p.peek(1).Kind == token.Ident {
		decl.Type = p.next().Lexeme
	}

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	decl.Name = name.Lexeme

	if decl.Type == "" && p.at(token.Colon) {
		p.next()

		if decl.Type, err = p.typeName(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	if decl.Value, err = p.expr(); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) constDecl() (ast.Stmt, error) {
	kw := p.next()
	decl := &ast.VarDecl{Span: ast.At(kw.Pos), Const: true}

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	decl.Name = name.Lexeme

	if p.at(token.Colon) {
		p.next()

		if decl.Type, err = p.typeName(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	if decl.Value, err = p.expr(); err != nil {
		return nil, err
	}

	return decl, nil
}

func (p *parser) funcDecl(async bool) (ast.Stmt, error) {
	kw := p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	fn := &ast.FuncDecl{Span: ast.At(kw.Pos), Name: name.Lexeme, Async: async}

	if fn.Params, err = p.params(); err != nil {
		return nil, err
	}

	if p.atOp("->") {
		p.next()

		if fn.ReturnType, err = p.typeName(); err != nil {
			return nil, err
		}
	}

	if fn.Body, err = p.block(); err != nil {
		return nil, err
	}

	return fn, nil
}

// params parses `( [Type] name [= default], ... )`.
func (p *parser) params() ([]ast.Param, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	var list []ast.Param

	for !p.at(token.RParen) {
		param := ast.Param{Span: ast.At(p.cur().Pos)}

		if p.at(token.Ident) && p.peek(1).Kind == token.Ident {
			param.Type = p.next().Lexeme
		}

		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		param.Name = name.Lexeme

		if param.Type == "" && p.at(token.Colon) {
			p.next()

			if param.Type, err = p.typeName(); err != nil {
				return nil, err
			}
		}

		if p.atOp("=") {
			p.next()

			if param.Default, err = p.expr(); err != nil {
				return nil, err
			}
		}

		list = append(list, param)

		if !p.at(token.Comma) {
			break
		}

		p.next()
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	return list, nil
}

// fields parses `{ name: Type [= default], ... }` for struct and union
// definitions. Commas and semicolons between fields are optional.
func (p *parser) fields(defaults bool) ([]ast.Field, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	var list []ast.Field

	for !p.at(token.RBrace) {
		if p.at(token.Comma) || p.at(token.Semicolon) {
			p.next()

			continue
		}

		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		f := ast.Field{Span: ast.At(name.Pos), Name: name.Lexeme}

		if _, err := p.expect(token.Colon); err != nil {
			return nil, err
		}

		if f.Type, err = p.typeName(); err != nil {
			return nil, err
		}

		if defaults && p.atOp("=") {
			p.next()

			if f.Default, err = p.expr(); err != nil {
				return nil, err
			}
		}

		list = append(list, f)
	}

	p.next()

	return list, nil
}

func (p *parser) structDecl() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	fields, err := p.fields(true)
	if err != nil {
		return nil, err
	}

	return &ast.StructDecl{Span: ast.At(kw.Pos), Name: name.Lexeme, Fields: fields}, nil
}

func (p *parser) unionDecl() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	fields, err := p.fields(false)
	if err != nil {
		return nil, err
	}

	return &ast.UnionDecl{Span: ast.At(kw.Pos), Name: name.Lexeme, Fields: fields}, nil
}

func (p *parser) enumDecl() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	decl := &ast.EnumDecl{Span: ast.At(kw.Pos), Name: name.Lexeme}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		if p.at(token.Comma) || p.at(token.Semicolon) {
			p.next()

			continue
		}

		vname, err := p.ident()
		if err != nil {
			return nil, err
		}

		v := ast.Variant{Span: ast.At(vname.Pos), Name: vname.Lexeme}

		if p.at(token.LParen) {
			p.next()

			for !p.at(token.RParen) {
				typ, err := p.typeName()
				if err != nil {
					return nil, err
				}

				v.Types = append(v.Types, typ)

				if !p.at(token.Comma) {
					break
				}

				p.next()
			}

			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}
		}

		decl.Variants = append(decl.Variants, v)
	}

	p.next()

	return decl, nil
}

func (p *parser) typeAlias() (ast.Stmt, error) {
	kw := p.next()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectOp("="); err != nil {
		return nil, err
	}

	target, err := p.typeName()
	if err != nil {
		return nil, err
	}

	return &ast.TypeAlias{Span: ast.At(kw.Pos), Name: name.Lexeme, Target: target}, nil
}

// cond parses a condition with struct literals disabled, so that the `{` of
// the following block is not taken as a literal.
func (p *parser) cond() (ast.Expr, error) {
	return withStruct(p, false, p.expr)
}

func (p *parser) ifStmt() (ast.Stmt, error) {
	kw := p.next()

	c, err := p.cond()
	if err != nil {
		return nil, err
	}

	then, err := p.block()
	if err != nil {
		return nil, err
	}

	s := &ast.If{Span: ast.At(kw.Pos), Cond: c, Then: then}

	switch {
	case p.atKeyword("elif"):
		s.Else, err = p.ifStmt()

	case p.atKeyword("else"):
		p.next()

		if p.atKeyword("if") {
			s.Else, err = p.ifStmt()
		} else {
			s.Else, err = p.block()
		}
	}

	if err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) whileStmt() (ast.Stmt, error) {
	kw := p.next()

	c, err := p.cond()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.While{Span: ast.At(kw.Pos), Cond: c, Body: body}, nil
}

func (p *parser) forStmt() (ast.Stmt, error) {
	kw := p.next()

	switch {
	case p.at(token.Ident) && p.peek(1).Is(token.Keyword, "in"):
		return p.forIn(kw, false)

	case p.at(token.LParen) &&
		p.peek(1).Kind == token.Ident &&
		p.peek(2).Is(token.Keyword, "in"):
		p.next()

		return p.forIn(kw, true)

	case p.at(token.LParen):
		return p.forC(kw)
	}

	return nil, p.unexpected("'(' or loop variable")
}

func (p *parser) forIn(kw token.Token, paren bool) (ast.Stmt, error) {
	name := p.next()
	p.next() // in

	iter, err := p.cond()
	if err != nil {
		return nil, err
	}

	if paren {
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &ast.ForIn{Span: ast.At(kw.Pos), Var: name.Lexeme, Iter: iter, Body: body}, nil
}

func (p *parser) forC(kw token.Token) (ast.Stmt, error) {
	p.next() // (

	s := &ast.For{Span: ast.At(kw.Pos)}

	var err error

	if !p.at(token.Semicolon) {
		if p.atKeyword("dec") {
			s.Init, err = p.varDecl()
		} else {
			s.Init, err = p.simple()
		}

		if err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	if !p.at(token.Semicolon) {
		if s.Cond, err = p.expr(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}

	if !p.at(token.RParen) {
		if s.Update, err = p.simple(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	if s.Body, err = p.block(); err != nil {
		return nil, err
	}

	return s, nil
}

func (p *parser) switchStmt() (ast.Stmt, error) {
	kw := p.next()

	subject, err := p.cond()
	if err != nil {
		return nil, err
	}

	s := &ast.Switch{Span: ast.At(kw.Pos), Subject: subject}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		switch {
		case p.skipSemis():

		case p.atKeyword("case"):
			c := ast.Case{Span: ast.At(p.next().Pos)}

			for {
				v, err := p.expr()
				if err != nil {
					return nil, err
				}

				c.Values = append(c.Values, v)

				if !p.at(token.Comma) {
					break
				}

				p.next()
			}

			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}

			if c.Body, err = p.caseBody(); err != nil {
				return nil, err
			}

			s.Cases = append(s.Cases, c)

		case p.atKeyword("default"):
			p.next()

			if _, err := p.expect(token.Colon); err != nil {
				return nil, err
			}

			if s.Default, err = p.caseBody(); err != nil {
				return nil, err
			}

			s.HasDef = true

		default:
			return nil, p.unexpected("'case', 'default' or '}'")
		}
	}

	p.next()

	return s, nil
}

// caseBody parses statements up to the next case label or the closing brace.
func (p *parser) caseBody() ([]ast.Stmt, error) {
	var body []ast.Stmt

	for !p.at(token.RBrace) && !p.atKeyword("case", "default") {
		if p.at(token.EOF) {
			return nil, p.unexpected("'}'")
		}

		if p.skipSemis() {
			continue
		}

		s, err := p.statement()
		if err != nil {
			return nil, err
		}

		body = append(body, s)
	}

	return body, nil
}

func (p *parser) matchStmt() (ast.Stmt, error) {
	kw := p.next()

	subject, err := p.cond()
	if err != nil {
		return nil, err
	}

	m := &ast.Match{Span: ast.At(kw.Pos), Subject: subject}

	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		if p.at(token.Comma) || p.at(token.Semicolon) {
			p.next()

			continue
		}

		arm := ast.Arm{Span: ast.At(p.cur().Pos)}

		if arm.Pattern, err = p.pattern(); err != nil {
			return nil, err
		}

		if p.atKeyword("if") {
			p.next()

			if arm.Guard, err = p.expr(); err != nil {
				return nil, err
			}
		}

		if _, err := p.expectOp("=>"); err != nil {
			return nil, err
		}

		if p.at(token.LBrace) {
			arm.Body, err = p.block()
		} else {
			arm.Body, err = p.statement()
		}

		if err != nil {
			return nil, err
		}

		m.Arms = append(m.Arms, arm)
	}

	p.next()

	return m, nil
}

func (p *parser) tryStmt() (ast.Stmt, error) {
	kw := p.next()

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	s := &ast.Try{Span: ast.At(kw.Pos), Body: body}

	for p.atKeyword("catch") {
		c := ast.Catch{Span: ast.At(p.next().Pos)}

		switch {
		case p.at(token.LParen):
			p.next()

			first, err := p.ident()
			if err != nil {
				return nil, err
			}

			if p.at(token.Comma) {
				p.next()
			}

			if p.at(token.Ident) {
				c.Type, c.Var = first.Lexeme, p.next().Lexeme
			} else {
				c.Var = first.Lexeme
			}

			if _, err := p.expect(token.RParen); err != nil {
				return nil, err
			}

		case p.at(token.Ident):
			c.Var = p.next().Lexeme
		}

		if c.Body, err = p.block(); err != nil {
			return nil, err
		}

		s.Catches = append(s.Catches, c)
	}

	if p.atKeyword("finally") {
		p.next()

		if s.Finally, err = p.block(); err != nil {
			return nil, err
		}
	}

	if len(s.Catches) == 0 && s.Finally == nil {
		return nil, p.unexpected("'catch' or 'finally'")
	}

	return s, nil
}

func (p *parser) printStmt() (ast.Stmt, error) {
	kw := p.next()

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	v, err := withStruct(p, true, p.expr)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	return &ast.Print{Span: ast.At(kw.Pos), Value: v}, nil
}

func (p *parser) printfStmt() (ast.Stmt, error) {
	kw := p.next()

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	args, err := withStruct(p, true, func() ([]ast.Expr, error) {
		var list []ast.Expr

		for !p.at(token.RParen) {
			x, err := p.expr()
			if err != nil {
				return nil, err
			}

			list = append(list, x)

			if !p.at(token.Comma) {
				break
			}

			p.next()
		}

		return list, nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}

	if len(args) == 0 {
		return nil, ErrUnexpected.Detailf("printf requires a format").At(kw.Pos)
	}

	return &ast.Printf{Span: ast.At(kw.Pos), Format: args[0], Args: args[1:]}, nil
}

// modulePath parses the module operand of import/from: a string literal used
// verbatim, or a bare name with [ModuleExt] appended.
func (p *parser) modulePath() (string, error) {
	t := p.cur()

	switch t.Kind {
	case token.String, token.RawString:
		p.next()

		return unquote(t), nil

	case token.Ident:
		p.next()

		return t.Lexeme + ModuleExt, nil
	}

	return "", p.unexpected("module path")
}

func (p *parser) importStmt() (ast.Stmt, error) {
	kw := p.next()

	path, err := p.modulePath()
	if err != nil {
		return nil, err
	}

	s := &ast.Import{Span: ast.At(kw.Pos), Path: path}

	if p.atKeyword("as") {
		p.next()

		alias, err := p.ident()
		if err != nil {
			return nil, err
		}

		s.Alias = alias.Lexeme
	}

	return s, nil
}

func (p *parser) fromStmt() (ast.Stmt, error) {
	kw := p.next()

	path, err := p.modulePath()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKeyword("import"); err != nil {
		return nil, err
	}

	s := &ast.Import{Span: ast.At(kw.Pos), Path: path}

	for {
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		s.Names = append(s.Names, name.Lexeme)

		if !p.at(token.Comma) {
			break
		}

		p.next()
	}

	return s, nil
}
