package exprcalc

import (
	"strconv"
	"strings"
)

// Func is a built-in function. The evaluator evaluates every argument before
// calling it, so args holds only numbers and text. The function is
// responsible for checking that it was given the right number and kinds of
// arguments; it should report problems with CallError, TypeError, or
// DomainError so that the evaluator can attach the call position. The
// evaluator attaches it to a copy of the returned error, so a Func may return
// the same error value from concurrent calls. Errors that wrap one of those
// types keep whatever position they carry. Call must not retain args.
type Func interface {
	Call(args []Value) (Value, error)
}

// FuncOf adapts an ordinary function to a Func.
type FuncOf func(args []Value) (Value, error)

// Call calls f(args).
func (f FuncOf) Call(args []Value) (Value, error) {
	return f(args)
}

type monadic struct {
	name string
	f    func(float64) float64
}

func (m monadic) Call(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, &CallError{Func: m.name, Len: len(args), Usage: m.name + "(number)"}
	}
	x, ok := args[0].Num()
	if !ok {
		return Value{}, &TypeError{Func: m.name, Arg: 1, Want: KindNumber, Got: args[0].Kind()}
	}
	return Number(m.f(x)), nil
}

// Monadic wraps a function of one number into a Func. name is used in error
// messages. Domain problems in f should be reported as NaN, not panics.
func Monadic(name string, f func(float64) float64) Func {
	return monadic{name, f}
}

type textual struct {
	name string
	f    func(string) (Value, error)
}

func (m textual) Call(args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, &CallError{Func: m.name, Len: len(args), Usage: m.name + "(text)"}
	}
	s, ok := args[0].Str()
	if !ok {
		return Value{}, &TypeError{Func: m.name, Arg: 1, Want: KindText, Got: args[0].Kind()}
	}
	return m.f(s)
}

// TextMonadic wraps a function of one text argument into a Func. name is used
// in error messages.
func TextMonadic(name string, f func(string) (Value, error)) Func {
	return textual{name, f}
}

type niladic struct {
	name string
	f    func() float64
}

func (n niladic) Call(args []Value) (Value, error) {
	if len(args) != 0 {
		return Value{}, &CallError{Func: n.name, Len: len(args), Usage: n.name + "()"}
	}
	return Number(n.f()), nil
}

// Niladic wraps a function of zero arguments, generally one which computes a
// constant, into a Func.
func Niladic(name string, f func() float64) Func {
	return niladic{name, f}
}

// Registry is an immutable set of functions keyed by lowercase name. It is
// safe for concurrent use.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry creates a registry containing the given functions. Names are
// lowercased, since the tokenizer lowercases function names. Nil functions
// are omitted. The map is copied.
func NewRegistry(fns map[string]Func) *Registry {
	r := Registry{funcs: make(map[string]Func, len(fns))}
	for k, v := range fns {
		if v == nil {
			continue
		}
		r.funcs[strings.ToLower(k)] = v
	}
	return &r
}

// With creates a new registry containing r's functions along with fns. A
// function in fns replaces any in r of the same name; a nil function removes
// it.
func (r *Registry) With(fns map[string]Func) *Registry {
	n := Registry{funcs: make(map[string]Func, len(r.funcs)+len(fns))}
	for k, v := range r.funcs {
		n.funcs[k] = v
	}
	for k, v := range fns {
		k = strings.ToLower(k)
		if v == nil {
			delete(n.funcs, k)
			continue
		}
		n.funcs[k] = v
	}
	return &n
}

// Lookup gets a function by lowercase name.
func (r *Registry) Lookup(name string) (Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// Names returns the sorted names of the functions in r.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for k := range r.funcs {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// positioned is implemented by errors that take the position of the call
// being evaluated when they are returned from a Func. withpos returns a copy
// so that errors shared between calls are never modified.
type positioned interface {
	withpos(int) error
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError and unwraps to ErrEval.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
	// Usage describes the arguments the function accepts, e.g. "sin(number)".
	Usage string
}

func (err *CallError) Error() string {
	msg := "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
	if err.Usage != "" {
		msg += "; usage: " + err.Usage
	}
	return errpos(err.Col, msg)
}

func (err *CallError) Pos() int      { return err.Col }
func (err *CallError) Unwrap() error { return ErrEval }
func (err *CallError) withpos(p int) error {
	e := *err
	e.Col = p
	return &e
}

// TypeError is an error indicating a value of the wrong kind given to a
// function or operator. It implements InputError and unwraps to ErrEval.
type TypeError struct {
	// Col is the position of the function name or operator.
	Col int
	// Func is the function name or operator symbol.
	Func string
	// Op indicates that Func is an operator.
	Op bool
	// Arg is the 1-based index of the argument or operand.
	Arg int
	// Want is the kind that Func requires.
	Want Kind
	// Got is the kind that Func received.
	Got Kind
}

func (err *TypeError) Error() string {
	what := "argument "
	if err.Op {
		what = "operand "
	}
	return errpos(err.Col, what+strconv.Itoa(err.Arg)+" of "+err.Func+" must be "+err.Want.String()+", not "+err.Got.String())
}

func (err *TypeError) Pos() int      { return err.Col }
func (err *TypeError) Unwrap() error { return ErrEval }
func (err *TypeError) withpos(p int) error {
	e := *err
	e.Col = p
	return &e
}

// DomainError is an error returned when a function is called on an argument
// it cannot accept. It implements InputError and unwraps to ErrEval.
type DomainError struct {
	// Col is the position of the function name.
	Col int
	// X is the rejected argument.
	X Value
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
	// Reason describes why X was rejected.
	Reason string
}

func (err *DomainError) Error() string {
	x := err.X.String()
	if err.X.Kind() == KindText {
		x = strconv.Quote(x)
	}
	msg := x + " outside domain"
	if err.Func != "" {
		msg += " of " + err.Func
	}
	if err.Arg > 0 {
		msg += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Reason != "" {
		msg += ": " + err.Reason
	}
	return errpos(err.Col, msg)
}

func (err *DomainError) Pos() int      { return err.Col }
func (err *DomainError) Unwrap() error { return ErrEval }
func (err *DomainError) withpos(p int) error {
	e := *err
	e.Col = p
	return &e
}
