package exprcalc

import "strconv"

// Kind is the dynamic type of a Value.
type Kind int8

const (
	// KindInvalid is the kind of the zero Value.
	KindInvalid Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression or a function argument.
// A Value is either a number or text; the zero Value is neither and is only
// returned alongside an error.
type Value struct {
	kind Kind
	num  float64
	text string
}

// Number creates a numeric value.
func Number(x float64) Value {
	return Value{kind: KindNumber, num: x}
}

// Text creates a text value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind {
	return v.kind
}

// Num returns v's number and whether v is a number.
func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns v's text and whether v is text.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText
}
