package exprcalc

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// bigprec is the precision in bits of intermediate results for functions
// computed with arbitrary precision. Results are rounded to float64.
const bigprec = 128

var (
	bigExp = Monadic("exp", func(x float64) float64 {
		// Outside the normal float64 range, the result is Inf, 0, or
		// subnormal, and computing it in big.Float risks exponent overflow.
		if r := math.Exp(x); !isnormal(r) {
			return r
		}
		return bigcall(func() float64 { return math.Exp(x) }, func(z *big.Float) *big.Float {
			return bigfloat.Exp(z, bignum(x))
		})
	})
	bigLn = Monadic("ln", func(x float64) float64 {
		if !(x > 0) || math.IsInf(x, 0) {
			return math.Log(x)
		}
		return bigcall(func() float64 { return math.Log(x) }, func(z *big.Float) *big.Float {
			return bigfloat.Log(z, bignum(x))
		})
	})
	bigSqrt = Monadic("sqrt", func(x float64) float64 {
		if !(x > 0) || math.IsInf(x, 0) {
			return math.Sqrt(x)
		}
		return bigcall(func() float64 { return math.Sqrt(x) }, func(z *big.Float) *big.Float {
			return z.Sqrt(bignum(x))
		})
	})
	bigPi = Niladic("pi", func() float64 {
		return bigcall(func() float64 { return math.Pi }, bigfloat.Pi)
	})
	bigE = Niladic("e", func() float64 {
		return bigcall(func() float64 { return math.E }, func(z *big.Float) *big.Float {
			return bigfloat.Exp(z, bignum(1))
		})
	})
)

// bigLog computes log(x) in base 10 or log(x, b) in base b.
func bigLog(args []Value) (Value, error) {
	x, b, err := numargs("log", "log(number) or log(number, base)", args, 1, 2)
	if err != nil {
		return Value{}, err
	}
	if len(args) == 1 {
		b = 10
	}
	fallback := func() float64 { return math.Log(x) / math.Log(b) }
	if !(x > 0) || !(b > 0) || math.IsInf(x, 0) || math.IsInf(b, 0) || b == 1 {
		return Number(fallback()), nil
	}
	return Number(bigcall(fallback, func(z *big.Float) *big.Float {
		bigfloat.Log(z, bignum(x))
		d := bigfloat.Log(new(big.Float).SetPrec(bigprec), bignum(b))
		return z.Quo(z, d)
	})), nil
}

// bigPow computes x raised to the power y.
func bigPow(args []Value) (Value, error) {
	x, y, err := numargs("pow", "pow(number, number)", args, 2, 2)
	if err != nil {
		return Value{}, err
	}
	fast := math.Pow(x, y)
	// Negative bases need integer exponents, which math.Pow handles exactly
	// enough. Non-normal results would overflow or underflow big.Float.
	if !(x > 0) || !isnormal(fast) || math.IsInf(y, 0) {
		return Number(fast), nil
	}
	return Number(bigcall(func() float64 { return fast }, func(z *big.Float) *big.Float {
		return bigfloat.Pow(z, bignum(x), bignum(y))
	})), nil
}

// numargs checks that args holds between lo and hi numbers and returns the
// first two.
func numargs(name, usage string, args []Value, lo, hi int) (x, y float64, err error) {
	if len(args) < lo || len(args) > hi {
		return 0, 0, &CallError{Func: name, Len: len(args), Usage: usage}
	}
	var r [2]float64
	for i, a := range args {
		v, ok := a.Num()
		if !ok {
			return 0, 0, &TypeError{Func: name, Arg: i + 1, Want: KindNumber, Got: a.Kind()}
		}
		r[i] = v
	}
	return r[0], r[1], nil
}

// bignum converts x to a big.Float at bigprec. x must be finite.
func bignum(x float64) *big.Float {
	return new(big.Float).SetPrec(bigprec).SetFloat64(x)
}

// isnormal returns whether x is a finite, normal, nonzero float64.
func isnormal(x float64) bool {
	x = math.Abs(x)
	return x >= 0x1p-1022 && x <= math.MaxFloat64
}

// bigcall evaluates f into a new big.Float at bigprec and rounds the result to
// float64. If f panics with big.ErrNaN, as bigfloat functions do for
// arguments outside their domains, the result is fallback() instead.
func bigcall(fallback func() float64, f func(z *big.Float) *big.Float) (r float64) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if _, ok := p.(big.ErrNaN); !ok {
			panic(p)
		}
		r = fallback()
	}()
	r, _ = f(new(big.Float).SetPrec(bigprec)).Float64()
	return r
}
