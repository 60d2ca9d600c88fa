// Package ast declares the syntax tree of a zyra program.
//
// The node set is closed: [Stmt], [Expr] and [Pattern] are sealed by
// unexported marker methods, so only the types in this package satisfy them
// and every type switch over them can be checked for exhaustiveness.
package ast

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/ardnew/zyra/lang/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Pos
}

// Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Pattern is the left-hand side of a match arm.
type Pattern interface {
	Node
	patternNode()
}

// Span records where a node starts in the source.
type Span struct {
	Start token.Pos
}

// At returns a Span starting at pos.
func At(pos token.Pos) Span { return Span{Start: pos} }

// Pos implements [Node].
func (s Span) Pos() token.Pos { return s.Start }

// Program is the root of a parsed source file.
type Program struct {
	Stmts []Stmt
}

// ---------------------------------------------------------------------------
// Declarations

type (
	// VarDecl is `dec [mut] [Type] name = value` or `const name [: Type] = value`.
	VarDecl struct {
		Span
		Value Expr
		Name  string
		Type  string
		Mut   bool
		Const bool
	}

	// Param is one formal parameter of a function.
	Param struct {
		Span
		Default Expr
		Name    string
		Type    string
	}

	// FuncDecl is `[async] fnc name(params) [-> Type] { body }`.
	FuncDecl struct {
		Span
		Body       *Block
		Name       string
		ReturnType string
		Params     []Param
		Async      bool
	}

	// Field is one member of a struct or union definition.
	Field struct {
		Span
		Default Expr
		Name    string
		Type    string
	}

	// StructDecl is `struct Name { field: Type [= default], ... }`.
	StructDecl struct {
		Span
		Name   string
		Fields []Field
	}

	// UnionDecl is `union Name { field: Type, ... }`.
	UnionDecl struct {
		Span
		Name   string
		Fields []Field
	}

	// Variant is one alternative of an enum, with optional data types.
	Variant struct {
		Span
		Name  string
		Types []string
	}

	// EnumDecl is `enum Name { A, B(Type, ...) }`.
	EnumDecl struct {
		Span
		Name     string
		Variants []Variant
	}

	// TypeAlias is `type Name = Target`.
	TypeAlias struct {
		Span
		Name   string
		Target string
	}
)

// ---------------------------------------------------------------------------
// Statements

type (
	// Block is a braced statement list.
	Block struct {
		Span
		Stmts []Stmt
	}

	// If is `if (Cond) Then [else Else]`. An elif chain is a nested If in Else.
	If struct {
		Span
		Cond Expr
		Then *Block
		Else Stmt // *Block, *If or nil
	}

	While struct {
		Span
		Cond Expr
		Body *Block
	}

	// For is the C-style `for (Init; Cond; Update) Body`. Any clause may be nil.
	For struct {
		Span
		Init   Stmt
		Cond   Expr
		Update Stmt
		Body   *Block
	}

	// ForIn is `for Var in Iter Body`.
	ForIn struct {
		Span
		Iter Expr
		Body *Block
		Var  string
	}

	// Case is one `case v[, v...]:` clause of a switch.
	Case struct {
		Span
		Values []Expr
		Body   []Stmt
	}

	Switch struct {
		Span
		Subject Expr
		Cases   []Case
		Default []Stmt
		HasDef  bool
	}

	// Arm is `Pattern [if Guard] => Body` inside a match.
	Arm struct {
		Span
		Pattern Pattern
		Guard   Expr
		Body    Stmt
	}

	Match struct {
		Span
		Subject Expr
		Arms    []Arm
	}

	// Catch is `catch [(Type Var) | (Var)] Body`.
	Catch struct {
		Span
		Body *Block
		Type string
		Var  string
	}

	Try struct {
		Span
		Body    *Block
		Finally *Block
		Catches []Catch
	}

	Throw struct {
		Span
		Value Expr
	}

	Return struct {
		Span
		Value Expr // may be nil
	}

	Break struct {
		Span
		Value Expr // may be nil
	}

	Continue struct {
		Span
	}

	Print struct {
		Span
		Value Expr
	}

	Printf struct {
		Span
		Format Expr
		Args   []Expr
	}

	// Import is `import Path [as Alias]` or `from Path import Names...`.
	Import struct {
		Span
		Path  string
		Alias string
		Names []string
	}

	// Assign is `Target Op Value` where Op is "=" or an augmented operator
	// such as "+=". Target is an *Ident, *Member or *Index.
	Assign struct {
		Span
		Target Expr
		Value  Expr
		Op     string
	}

	ExprStmt struct {
		Span
		X Expr
	}
)

// ---------------------------------------------------------------------------
// Expressions

type (
	Ident struct {
		Span
		Name string
	}

	NullLit struct {
		Span
	}

	BoolLit struct {
		Span
		Value bool
	}

	IntLit struct {
		Span
		Value *big.Int
	}

	FloatLit struct {
		Span
		Value float64
	}

	BigIntLit struct {
		Span
		Value *big.Int
	}

	DecimalLit struct {
		Span
		Value decimal.Decimal
	}

	CharLit struct {
		Span
		Value rune
	}

	// StringLit holds the literal text between the quotes. Escape sequences
	// are not interpreted.
	StringLit struct {
		Span
		Value string
	}

	// Interp is an interpolated string; Parts alternate freely between
	// *StringLit and arbitrary expressions.
	Interp struct {
		Span
		Parts []Expr
	}

	ArrayLit struct {
		Span
		Elems []Expr
	}

	TupleLit struct {
		Span
		Elems []Expr
	}

	SetLit struct {
		Span
		Elems []Expr
	}

	Entry struct {
		Key   Expr
		Value Expr
	}

	DictLit struct {
		Span
		Entries []Entry
	}

	RangeLit struct {
		Span
		Lo        Expr
		Hi        Expr
		Inclusive bool
	}

	Binary struct {
		Span
		Left  Expr
		Right Expr
		Op    string
	}

	// Unary is a prefix operator, including "++", "--" and "await".
	Unary struct {
		Span
		X  Expr
		Op string
	}

	// Postfix is a trailing "++" or "--".
	Postfix struct {
		Span
		X  Expr
		Op string
	}

	Ternary struct {
		Span
		Cond Expr
		Then Expr
		Else Expr
	}

	Lambda struct {
		Span
		Body   Expr
		Params []string
	}

	// Arg is a call argument; Name is empty for positional arguments.
	Arg struct {
		Value Expr
		Name  string
	}

	Call struct {
		Span
		Callee Expr
		Args   []Arg
	}

	Member struct {
		Span
		X    Expr
		Name string
	}

	Index struct {
		Span
		X     Expr
		Index Expr
	}

	// Slice is X[Lo:Hi:Step]; omitted bounds are nil.
	Slice struct {
		Span
		X    Expr
		Lo   Expr
		Hi   Expr
		Step Expr
	}

	// FieldInit is one field of a struct literal; Name is empty when the
	// field is given positionally.
	FieldInit struct {
		Value Expr
		Name  string
	}

	StructLit struct {
		Span
		Name   string
		Fields []FieldInit
	}
)

// ---------------------------------------------------------------------------
// Patterns

type (
	// LitPattern matches values equal to a literal.
	LitPattern struct {
		Span
		Value Expr
	}

	// WildcardPattern is `_`.
	WildcardPattern struct {
		Span
	}

	// BindPattern matches anything and binds it to Name.
	BindPattern struct {
		Span
		Name string
	}

	TuplePattern struct {
		Span
		Elems []Pattern
	}

	ArrayPattern struct {
		Span
		Elems []Pattern
	}

	// VariantPattern matches an enum value: `Name(p...)`, `Name()` or
	// `Enum.Name`. Name may be the bare variant or `Enum_Variant`. Elems is
	// nil when no parenthesized list was written, which matches any data.
	VariantPattern struct {
		Span
		Enum  string
		Name  string
		Elems []Pattern
	}
)

func (*VarDecl) stmtNode()    {}
func (*FuncDecl) stmtNode()   {}
func (*StructDecl) stmtNode() {}
func (*UnionDecl) stmtNode()  {}
func (*EnumDecl) stmtNode()   {}
func (*TypeAlias) stmtNode()  {}
func (*Block) stmtNode()      {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*For) stmtNode()        {}
func (*ForIn) stmtNode()      {}
func (*Switch) stmtNode()     {}
func (*Match) stmtNode()      {}
func (*Try) stmtNode()        {}
func (*Throw) stmtNode()      {}
func (*Return) stmtNode()     {}
func (*Break) stmtNode()      {}
func (*Continue) stmtNode()   {}
func (*Print) stmtNode()      {}
func (*Printf) stmtNode()     {}
func (*Import) stmtNode()     {}
func (*Assign) stmtNode()     {}
func (*ExprStmt) stmtNode()   {}

func (*Ident) exprNode()      {}
func (*NullLit) exprNode()    {}
func (*BoolLit) exprNode()    {}
func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*BigIntLit) exprNode()  {}
func (*DecimalLit) exprNode() {}
func (*CharLit) exprNode()    {}
func (*StringLit) exprNode()  {}
func (*Interp) exprNode()     {}
func (*ArrayLit) exprNode()   {}
func (*TupleLit) exprNode()   {}
func (*SetLit) exprNode()     {}
func (*DictLit) exprNode()    {}
func (*RangeLit) exprNode()   {}
func (*Binary) exprNode()     {}
func (*Unary) exprNode()      {}
func (*Postfix) exprNode()    {}
func (*Ternary) exprNode()    {}
func (*Lambda) exprNode()     {}
func (*Call) exprNode()       {}
func (*Member) exprNode()     {}
func (*Index) exprNode()      {}
func (*Slice) exprNode()      {}
func (*StructLit) exprNode()  {}

func (*LitPattern) patternNode()      {}
func (*WildcardPattern) patternNode() {}
func (*BindPattern) patternNode()     {}
func (*TuplePattern) patternNode()    {}
func (*ArrayPattern) patternNode()    {}
func (*VariantPattern) patternNode()  {}
