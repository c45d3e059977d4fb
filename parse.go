package exprcalc

import (
	"errors"
	"strconv"
	"strings"
)

// Expr = Term { ('+' | '-') Term }
// Term = Factor { ('*' | '/' | '%') Factor }
// Factor = ('+' | '-') Factor | number | text | '(' Expr ')' | Call
// Call = function '(' [ Expr { ',' Expr } ] ')'

// Expr is a parsed expression that can be evaluated by an Evaluator.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// parsectx holds general data for parsing.
type parsectx struct {
	scan *Tokenizer
	// tok is the lookahead token.
	tok Token
	// depth is the current factor nesting depth.
	depth int
	// maxdepth is the nesting limit, or 0 if unlimited.
	maxdepth int
}

// Parse parses an expression so it can be evaluated. If src contains no
// tokens, the result is nil with no error. The given options are applied in
// order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	p := parsectx{scan: NewTokenizer(src)}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Kind == TokenEnd {
		return nil, nil
	}
	n, err := p.parsetier(exprprec)
	if err != nil {
		return nil, err
	}
	switch p.tok.Kind {
	case TokenEnd:
	case TokenClose:
		return nil, &BracketError{Col: p.tok.Pos}
	default:
		return nil, p.unexpected(TokenEnd)
	}
	return &Expr{n: n}, nil
}

// advance scans the next lookahead token.
func (p *parsectx) advance() error {
	tok, err := p.scan.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parsetier parses a left-associative chain of binary operators of the given
// precedence, with operands from the next tier up.
func (p *parsectx) parsetier(prec int) (*node, error) {
	if prec > termprec {
		return p.parsefactor()
	}
	n, err := p.parsetier(prec + 1)
	if err != nil {
		return nil, err
	}
	for binop(p.tok.Kind) == prec {
		op := p.tok
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parsetier(prec + 1)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeBinary, pos: op.Pos, op: op.Kind, left: n, right: rhs}
	}
	return n, nil
}

// parsefactor parses a unary operation, a literal, a parenthesized
// subexpression, or a function call.
func (p *parsectx) parsefactor() (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return nil, &DepthError{Col: p.tok.Pos, Max: p.maxdepth}
	}
	tok := p.tok
	switch tok.Kind {
	case TokenPlus, TokenMinus:
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parsefactor()
		if err != nil {
			return nil, err
		}
		return &node{kind: nodeUnary, pos: tok.Pos, op: tok.Kind, left: rhs}, nil
	case TokenNumber:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			// The lexer only produces well-formed numbers, but report rather
			// than trust that. Out of range literals are already ±Inf.
			return nil, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeNum, pos: tok.Pos, num: v}, nil
	case TokenText:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &node{kind: nodeText, pos: tok.Pos, text: tok.Text}, nil
	case TokenOpen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parsetier(exprprec)
		if err != nil {
			return nil, err
		}
		if err := p.close(tok); err != nil {
			return nil, err
		}
		return n, nil
	case TokenFunction:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.parsecall(tok)
	default:
		return nil, p.unexpected(TokenNone)
	}
}

// parsecall parses the argument list of a call to the function named by name.
func (p *parsectx) parsecall(name Token) (*node, error) {
	open := p.tok
	if open.Kind != TokenOpen {
		return nil, p.unexpected(TokenOpen)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n := &node{kind: nodeCall, pos: name.Pos, text: name.Text}
	if p.tok.Kind == TokenClose {
		// Niladic call. Whether that is allowed is up to the function.
		return n, p.advance()
	}
	for {
		arg, err := p.parsetier(exprprec)
		if err != nil {
			return nil, err
		}
		n.args = append(n.args, arg)
		if p.tok.Kind != TokenComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.close(open); err != nil {
		return nil, err
	}
	return n, nil
}

// close consumes the close bracket matching open.
func (p *parsectx) close(open Token) error {
	switch p.tok.Kind {
	case TokenClose:
		return p.advance()
	case TokenEnd:
		return &BracketError{Col: open.Pos, Open: true}
	default:
		return p.unexpected(TokenClose)
	}
}

// unexpected creates an error for the lookahead token. want is the token kind
// the parser required, or TokenNone if any of several would do.
func (p *parsectx) unexpected(want TokenKind) error {
	return &TokenError{Col: p.tok.Pos, Got: p.tok.Kind, Text: p.tok.Text, Want: want}
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

const (
	// exprprec is the precedence of addition and subtraction.
	exprprec = 1 + iota
	// termprec is the precedence of multiplication, division, and remainder.
	termprec
)

// binop gets the precedence of a binary operator token. If the token is not a
// binary operator, the result is 0.
func binop(k TokenKind) int {
	switch k {
	case TokenPlus, TokenMinus:
		return exprprec
	case TokenMultiply, TokenDivide, TokenModulo:
		return termprec
	default:
		return 0
	}
}
