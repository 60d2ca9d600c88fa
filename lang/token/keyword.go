package token

// keywords is the fixed set of reserved words. Identifiers matching one of
// these are reclassified as [Keyword] by the lexer.
var keywords = map[string]struct{}{
	"dec": {}, "if": {}, "else": {}, "elif": {}, "while": {}, "for": {},
	"in": {}, "print": {}, "printf": {}, "fnc": {}, "return": {},
	"break": {}, "continue": {}, "switch": {}, "case": {}, "default": {},
	"try": {}, "catch": {}, "throw": {}, "match": {}, "async": {},
	"await": {}, "yield": {}, "import": {}, "from": {}, "as": {},
	"export": {}, "const": {}, "mut": {}, "ref": {}, "type": {},
	"struct": {}, "enum": {}, "union": {}, "trait": {}, "impl": {},
	"pub": {}, "priv": {}, "static": {}, "self": {}, "super": {},
	"where": {}, "unsafe": {}, "macro": {}, "finally": {},

	// word operators
	"and": {}, "or": {}, "not": {}, "xor": {}, "then": {}, "nand": {},
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}

	return out
}

// Operators lists every operator lexeme, longest first, so that a scanner
// trying them in order always takes the longest match.
var Operators = []string{
	"<<<=", ">>>=",
	"**=", "//=", "..=", "<=>", "===", "!==", "...", "<<=", ">>=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"==", "!=", "<=", ">=", "<<", ">>", "**", "//", "&&", "||",
	"::", "->", "=>", "..", ":=", "++", "--",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~", "?",
}

// Delimiters maps single-character delimiters to their kinds.
var Delimiters = map[rune]Kind{
	'(': LParen,
	')': RParen,
	'{': LBrace,
	'}': RBrace,
	'[': LBracket,
	']': RBracket,
	';': Semicolon,
	':': Colon,
	',': Comma,
	'.': Dot,
	'@': At,
	'$': Dollar,
}
