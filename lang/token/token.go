// Package token defines the lexical tokens of the zyra language.
package token

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
type Kind int

// Enumeration of token kinds.
const (
	Invalid Kind = iota
	EOF

	Int      // 42
	HexInt   // 0xff
	HexFloat // 0x1.8p3
	Octal    // 0o17
	Binary   // 0b101
	BigInt   // 123n
	Decimal  // 1.25d
	Float    // 1.5, 1e9

	String      // "text"
	RawString   // r"text"
	MultiString // """text"""
	FString     // f"text {expr}"
	Char        // 'c'

	Bool  // true, false
	Null  // null
	Ident // name
	Keyword
	Op

	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Colon     // :
	Comma     // ,
	Dot       // .
	At        // @
	Dollar    // $
)

var kindName = [...]string{
	Invalid:     "invalid",
	EOF:         "EOF",
	Int:         "int",
	HexInt:      "hex int",
	HexFloat:    "hex float",
	Octal:       "octal",
	Binary:      "binary",
	BigInt:      "bigint",
	Decimal:     "decimal",
	Float:       "float",
	String:      "string",
	RawString:   "raw string",
	MultiString: "multi-line string",
	FString:     "interpolated string",
	Char:        "char",
	Bool:        "bool",
	Null:        "null",
	Ident:       "identifier",
	Keyword:     "keyword",
	Op:          "operator",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
	Semicolon:   ";",
	Colon:       ":",
	Comma:       ",",
	Dot:         ".",
	At:          "@",
	Dollar:      "$",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsNumber reports whether k is one of the numeric literal kinds.
func (k Kind) IsNumber() bool { return k >= Int && k <= Float }

// IsString reports whether k is one of the string literal kinds.
func (k Kind) IsString() bool { return k >= String && k <= FString }

// Pos is a 1-based source position. The zero value means "unknown".
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position refers to an actual source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexeme with its kind and starting position.
type Token struct {
	Kind   Kind
	Lexeme string
	Pos
}

// Is reports whether t has kind k and, if lexemes are given, one of them.
func (t Token) Is(k Kind, lexemes ...string) bool {
	if t.Kind != k {
		return false
	}

	if len(lexemes) == 0 {
		return true
	}

	for _, s := range lexemes {
		if t.Lexeme == s {
			return true
		}
	}

	return false
}

func (t Token) String() string {
	var b strings.Builder

	b.WriteString(t.Pos.String())
	b.WriteByte(' ')
	b.WriteString(t.Kind.String())

	if t.Kind != EOF && t.Lexeme != t.Kind.String() {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(t.Lexeme))
	}

	return b.String()
}
