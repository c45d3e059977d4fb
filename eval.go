package exprcalc

import (
	"math"
	"strconv"
	"unicode/utf8"
)

// Evaluator evaluates expressions with a fixed set of functions. It holds no
// state between evaluations, so it is safe to use concurrently.
type Evaluator struct {
	funcs *Registry
	opts  []ParseOption
}

// NewEvaluator creates an evaluator that calls functions from funcs. If funcs
// is nil, the evaluator uses Builtins. The parse options apply to Evaluate.
func NewEvaluator(funcs *Registry, opts ...ParseOption) *Evaluator {
	if funcs == nil {
		funcs = Builtins()
	}
	return &Evaluator{
		funcs: funcs,
		opts:  append(([]ParseOption)(nil), opts...),
	}
}

// Funcs returns the registry the evaluator calls functions from.
func (ev *Evaluator) Funcs() *Registry {
	return ev.funcs
}

// Parse parses src with the evaluator's parse options.
func (ev *Evaluator) Parse(src string) (*Expr, error) {
	return Parse(src, ev.opts...)
}

// Evaluate parses and evaluates src. If src contains no expression, the error
// is an *EmptyExpressionError.
func (ev *Evaluator) Evaluate(src string) (Value, error) {
	e, err := ev.Parse(src)
	if err != nil {
		return Value{}, err
	}
	if e == nil {
		return Value{}, &EmptyExpressionError{Col: utf8.RuneCountInString(src)}
	}
	return ev.Eval(e)
}

// Eval evaluates a parsed expression. If an error occurs, e.g. an unknown
// function or an argument of the wrong type, the result is the zero Value and
// the error.
func (ev *Evaluator) Eval(e *Expr) (Value, error) {
	if e == nil || e.n == nil {
		return Value{}, &EmptyExpressionError{}
	}
	return ev.eval(e.n)
}

// eval reduces a node to its value.
func (ev *Evaluator) eval(n *node) (Value, error) {
	switch n.kind {
	case nodeNum:
		return Number(n.num), nil
	case nodeText:
		return Text(n.text), nil
	case nodeUnary:
		v, err := ev.eval(n.left)
		if err != nil {
			return Value{}, err
		}
		x, ok := v.Num()
		if !ok {
			return Value{}, &TypeError{Col: n.pos, Func: n.op.String(), Op: true, Arg: 1, Want: KindNumber, Got: v.Kind()}
		}
		switch n.op {
		case TokenPlus: // do nothing
		case TokenMinus:
			x = -x
		default:
			panic("exprcalc: invalid unary operator " + n.op.String())
		}
		return Number(x), nil
	case nodeBinary:
		lv, err := ev.eval(n.left)
		if err != nil {
			return Value{}, err
		}
		rv, err := ev.eval(n.right)
		if err != nil {
			return Value{}, err
		}
		x, ok := lv.Num()
		if !ok {
			return Value{}, &TypeError{Col: n.pos, Func: n.op.String(), Op: true, Arg: 1, Want: KindNumber, Got: lv.Kind()}
		}
		y, ok := rv.Num()
		if !ok {
			return Value{}, &TypeError{Col: n.pos, Func: n.op.String(), Op: true, Arg: 2, Want: KindNumber, Got: rv.Kind()}
		}
		switch n.op {
		case TokenPlus:
			return Number(x + y), nil
		case TokenMinus:
			return Number(x - y), nil
		case TokenMultiply:
			return Number(x * y), nil
		case TokenDivide:
			// Division by zero is Inf or NaN, same as any other float64 op.
			return Number(x / y), nil
		case TokenModulo:
			return Number(math.Mod(x, y)), nil
		default:
			panic("exprcalc: invalid binary operator " + n.op.String())
		}
	case nodeCall:
		f, ok := ev.funcs.Lookup(n.text)
		if !ok {
			return Value{}, &NameError{Col: n.pos, Name: n.text}
		}
		args := make([]Value, len(n.args))
		for i, a := range n.args {
			v, err := ev.eval(a)
			if err != nil {
				return Value{}, err
			}
			args[i] = v
		}
		r, err := f.Call(args)
		if err != nil {
			if p, ok := err.(positioned); ok {
				err = p.withpos(n.pos)
			}
			return Value{}, err
		}
		if r.Kind() == KindInvalid {
			panic("exprcalc: function " + strconv.Quote(n.text) + " returned no value")
		}
		return r, nil
	default:
		panic("exprcalc: invalid AST node " + n.kind.String())
	}
}

// Evaluate is a shortcut to parse and evaluate an expression using the
// default functions.
func Evaluate(src string, opts ...ParseOption) (Value, error) {
	return NewEvaluator(nil, opts...).Evaluate(src)
}

// NameError is an error from a call to a function that is missing from the
// evaluator's registry. It implements InputError and unwraps to ErrEval.
type NameError struct {
	// Col is the position of the function name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "unknown function: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

func (err *NameError) Unwrap() error {
	return ErrEval
}
