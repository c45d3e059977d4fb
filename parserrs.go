package exprcalc

import (
	"errors"
	"strconv"
)

// Sentinel errors for each phase of evaluation. Every error resulting from
// invalid input unwraps to exactly one of these, so callers can classify
// failures with errors.Is.
var (
	ErrLex   = errors.New("lexical error")
	ErrParse = errors.New("parse error")
	ErrEval  = errors.New("evaluation error")
)

// TokenError is an error indicating a token that cannot appear where the
// parser found it. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Got is the kind of the unexpected token.
	Got TokenKind
	// Text is the text of the unexpected token.
	Text string
	// Want is the token kind the parser required, or TokenNone if the parser
	// would have accepted several.
	Want TokenKind
}

func (err *TokenError) Error() string {
	var msg string
	switch err.Got {
	case TokenEnd:
		msg = "unexpected end of expression"
	case TokenNumber, TokenText, TokenFunction:
		msg = "unexpected " + err.Got.String() + " " + strconv.Quote(err.Text)
	default:
		msg = "unexpected " + strconv.Quote(err.Got.String())
	}
	switch err.Want {
	case TokenNone:
	case TokenEnd:
		msg += ", expected end of expression"
	default:
		msg += ", expected " + strconv.Quote(err.Want.String())
	}
	return errpos(err.Col, msg)
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Unwrap() error {
	return ErrParse
}

// BracketError is an error indicating unbalanced parentheses in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched bracket.
	Col int
	// Open is true if the unmatched bracket is an open bracket.
	Open bool
}

func (err *BracketError) Error() string {
	if err.Open {
		return errpos(err.Col, "open bracket ( with no close bracket")
	}
	return errpos(err.Col, "close bracket ) with no open bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Unwrap() error {
	return ErrParse
}

// DepthError is an error indicating an expression nested more deeply than
// the limit set with MaxDepth. It implements InputError.
type DepthError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max)+" levels")
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Unwrap() error {
	return ErrParse
}

// EmptyExpressionError is an error indicating an attempt to evaluate input
// containing no expression.
type EmptyExpressionError struct {
	// Col is the position of the end of the input.
	Col int
}

func (err *EmptyExpressionError) Error() string {
	return errpos(err.Col, "no expression")
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Unwrap() error {
	return ErrParse
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return "position " + strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the 0-based rune offset of the
	// start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*TypeError)(nil)
	_ InputError = (*DomainError)(nil)
)
