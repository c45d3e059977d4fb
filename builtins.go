package exprcalc

import (
	"encoding/base64"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var builtins = NewRegistry(map[string]Func{
	// numeric
	"sin":  Monadic("sin", math.Sin),
	"cos":  Monadic("cos", math.Cos),
	"tan":  Monadic("tan", math.Tan),
	"base": FuncOf(base),

	// text
	"len":      TextMonadic("len", length),
	"reverse":  TextMonadic("reverse", reverse),
	"replace":  FuncOf(replace),
	"encode64": TextMonadic("encode64", encode64),
	"decode64": TextMonadic("decode64", decode64),

	// arbitrary precision
	"exp":  bigExp,
	"ln":   bigLn,
	"log":  FuncOf(bigLog),
	"sqrt": bigSqrt,
	"pow":  FuncOf(bigPow),
	"pi":   bigPi,
	"e":    bigE,
})

// Builtins returns the registry of default functions. The registry is built
// once and shared.
func Builtins() *Registry {
	return builtins
}

func length(s string) (Value, error) {
	return Number(float64(utf8.RuneCountInString(s))), nil
}

func reverse(s string) (Value, error) {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return Text(string(r)), nil
}

func encode64(s string) (Value, error) {
	return Text(base64.StdEncoding.EncodeToString([]byte(s))), nil
}

func decode64(s string) (Value, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Value{}, &DomainError{X: Text(s), Arg: 1, Func: "decode64", Reason: "malformed base64 (" + err.Error() + ")"}
	}
	return Text(strings.ToValidUTF8(string(b), "\uFFFD")), nil
}

func replace(args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, &CallError{Func: "replace", Len: len(args), Usage: "replace(text, old, new)"}
	}
	var s [3]string
	for i, a := range args {
		t, ok := a.Str()
		if !ok {
			return Value{}, &TypeError{Func: "replace", Arg: i + 1, Want: KindText, Got: a.Kind()}
		}
		s[i] = t
	}
	return Text(strings.ReplaceAll(s[0], s[1], s[2])), nil
}

// base converts an integer between bases. The value may be a number or a text
// of digits in the source base. A fractional part consisting only of zeros is
// ignored; any other fractional part is rejected.
func base(args []Value) (Value, error) {
	if len(args) != 3 {
		return Value{}, &CallError{Func: "base", Len: len(args), Usage: "base(value, fromBase, toBase)"}
	}
	from, err := radix(args[1], 2)
	if err != nil {
		return Value{}, err
	}
	to, err := radix(args[2], 3)
	if err != nil {
		return Value{}, err
	}
	digits, err := integerDigits(args[0])
	if err != nil {
		return Value{}, err
	}
	n, err := strconv.ParseInt(digits, from, 64)
	if err != nil {
		reason := "not a valid number in base " + strconv.Itoa(from)
		if errors.Is(err, strconv.ErrRange) {
			reason = "out of range"
		}
		return Value{}, &DomainError{X: args[0], Arg: 1, Func: "base", Reason: reason}
	}
	if to == 10 {
		if n > 1<<53 || n < -(1<<53) {
			return Value{}, &DomainError{X: args[0], Arg: 1, Func: "base", Reason: "out of range"}
		}
		return Number(float64(n)), nil
	}
	return Text(strings.ToUpper(strconv.FormatInt(n, to))), nil
}

// radix interprets a base argument. arg is the 1-based argument index.
func radix(v Value, arg int) (int, error) {
	var x float64
	switch v.Kind() {
	case KindNumber:
		x, _ = v.Num()
	case KindText:
		s, _ := v.Str()
		var err error
		x, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, &DomainError{X: v, Arg: arg, Func: "base", Reason: "base is not a number"}
		}
	default:
		return 0, &TypeError{Func: "base", Arg: arg, Want: KindNumber, Got: v.Kind()}
	}
	if x != math.Trunc(x) {
		return 0, &DomainError{X: v, Arg: arg, Func: "base", Reason: "base must be an integer"}
	}
	if x < 2 || x > 36 {
		return 0, &DomainError{X: v, Arg: arg, Func: "base", Reason: "base must be between 2 and 36"}
	}
	return int(x), nil
}

// integerDigits gets the digits of the value argument to base.
func integerDigits(v Value) (string, error) {
	switch v.Kind() {
	case KindNumber:
		x, _ := v.Num()
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", &DomainError{X: v, Arg: 1, Func: "base", Reason: "value is not finite"}
		}
		if x != math.Trunc(x) {
			return "", &DomainError{X: v, Arg: 1, Func: "base", Reason: "value has a fractional part"}
		}
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case KindText:
		s, _ := v.Str()
		if k := strings.IndexByte(s, '.'); k >= 0 {
			if strings.Trim(s[k+1:], "0") != "" {
				return "", &DomainError{X: v, Arg: 1, Func: "base", Reason: "value has a fractional part"}
			}
			s = s[:k]
		}
		return s, nil
	default:
		return "", &TypeError{Func: "base", Arg: 1, Want: KindText, Got: v.Kind()}
	}
}
