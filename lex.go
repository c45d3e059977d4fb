package exprcalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/%"

// opkinds maps byte indices in Operators to token kinds.
var opkinds = [...]TokenKind{TokenPlus, TokenMinus, TokenMultiply, TokenDivide, TokenModulo}

// Tokenizer scans tokens from an expression one at a time.
type Tokenizer struct {
	src io.RuneScanner
	buf strings.Builder
	// pos is the number of runes read from src.
	pos int
	eof bool
}

// NewTokenizer creates a tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return lex(strings.NewReader(src))
}

func lex(src io.RuneScanner) *Tokenizer {
	return &Tokenizer{src: src}
}

// readRune reads a rune from the src and updates the position info.
func (l *Tokenizer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.pos++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the position info.
// Panics if unreading returns an error.
func (l *Tokenizer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.pos--
}

// Next scans the next token from the input. Once the input is exhausted, the
// result is a TokenEnd token with a nil error, on this and every later call.
func (l *Tokenizer) Next() (Token, error) {
	if l.eof {
		return Token{Kind: TokenEnd, Pos: l.pos}, nil
	}
	defer l.buf.Reset()
	for {
		start := l.pos
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				return Token{Kind: TokenEnd, Pos: l.pos}, nil
			}
			return Token{Pos: start}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			if err := l.scanNum(start); err != nil {
				return Token{Pos: start}, err
			}
			return Token{Kind: TokenNumber, Text: l.buf.String(), Pos: start}, nil
		case r == '"':
			if err := l.scanText(start); err != nil {
				return Token{Pos: start}, err
			}
			return Token{Kind: TokenText, Text: l.buf.String(), Pos: start}, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return Token{Pos: start}, err
			}
			return Token{Kind: TokenFunction, Text: strings.ToLower(l.buf.String()), Pos: start}, nil
		case r == '(':
			return Token{Kind: TokenOpen, Text: "(", Pos: start}, nil
		case r == ')':
			return Token{Kind: TokenClose, Text: ")", Pos: start}, nil
		case r == ',':
			return Token{Kind: TokenComma, Text: ",", Pos: start}, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				return Token{Kind: opkinds[k], Text: Operators[k : k+1], Pos: start}, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return Token{Pos: start}, l.error("", start)
		}
	}
}

// delimitsNum returns whether r may immediately follow a number.
func delimitsNum(r rune) bool {
	return unicode.IsSpace(r) || r == ',' || r == ')' || strings.ContainsRune(Operators, r)
}

func (l *Tokenizer) scanNum(start int) error {
	var dot, e bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch {
		case '0' <= r && r <= '9':
			l.buf.WriteRune(r)
		case r == '.':
			l.buf.WriteRune(r)
			if dot || e {
				return l.error("number", start)
			}
			dot = true
		case r == 'e', r == 'E':
			l.buf.WriteRune(r)
			if e {
				return l.error("number", start)
			}
			e = true
			if err := l.scanExponent(start); err != nil {
				return err
			}
		case delimitsNum(r):
			l.unreadRune()
			return nil
		default:
			l.buf.WriteRune(r)
			return l.error("number", start)
		}
	}
}

// scanExponent scans the optional sign and the first digit following an
// exponent marker. scanNum picks up any remaining digits.
func (l *Tokenizer) scanExponent(start int) error {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return l.error("number", start)
		}
		return err
	}
	if r == '+' || r == '-' {
		l.buf.WriteRune(r)
		r, err = l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.error("number", start)
			}
			return err
		}
	}
	l.buf.WriteRune(r)
	if r < '0' || '9' < r {
		return l.error("number", start)
	}
	return nil
}

// scanText scans the contents of a text literal after its opening quote and
// consumes the closing quote.
func (l *Tokenizer) scanText(start int) error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return l.error("text", start)
			}
			return err
		}
		if r == '"' {
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *Tokenizer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *Tokenizer) error(kind string, start int) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  start,
	}
}

// LexError indicates an invalid token. It implements InputError and unwraps
// to ErrLex.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune. For unterminated text, it is the
	// text scanned after the opening quote.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "text", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the 0-based rune offset of the start of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	switch err.Kind {
	case "":
		return errpos(err.Col, "unexpected character "+strconv.Quote(err.Text))
	case "text":
		return errpos(err.Col, "unterminated text "+strconv.Quote(err.Text))
	default:
		return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
	}
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrLex
}
