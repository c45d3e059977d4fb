package exprcalc

import "strconv"

// Token is a lexical unit of an expression.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Text is the literal text of the token. For text tokens, it is the
	// contents between the quotes. For function tokens, it is lowercased.
	Text string
	// Pos is the 0-based rune offset of the token's first character.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	// TokenNone is the zero TokenKind. The tokenizer never produces it.
	TokenNone TokenKind = iota
	TokenPlus
	TokenMinus
	TokenDivide
	TokenMultiply
	TokenModulo
	TokenOpen
	TokenClose
	// TokenNumber is a numeric literal.
	TokenNumber
	// TokenText is a double-quoted text literal.
	TokenText
	// TokenFunction is a function name.
	TokenFunction
	TokenComma
	// TokenEnd indicates the end of the input. Once the tokenizer returns it,
	// it returns it on every subsequent call.
	TokenEnd
)

var tokenKindNames = [...]string{
	TokenNone:     "none",
	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenDivide:   "/",
	TokenMultiply: "*",
	TokenModulo:   "%",
	TokenOpen:     "(",
	TokenClose:    ")",
	TokenNumber:   "number",
	TokenText:     "text",
	TokenFunction: "function",
	TokenComma:    ",",
	TokenEnd:      "end of expression",
}

// String returns the spelling used for the token kind in error messages.
func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}
