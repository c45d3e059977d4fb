package exprcalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// String formats v with the shortest representation that reads back as the
// same value. Integral numbers have no decimal point.
func (v Value) String() string {
	return v.Format(-1)
}

// Format formats v for display. Text is returned as is. Numbers are rounded to
// the given number of decimal places with trailing zeros removed, so that a
// result with no fractional part has no decimal point; if places is negative,
// numbers use the shortest representation instead.
func (v Value) Format(places int) string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return formatnum(v.num, places)
	default:
		return "<invalid>"
	}
}

// bigexp is the magnitude beyond which numbers are written with an exponent.
const bigexp = 1e21

func formatnum(x float64, places int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Inf"
	case math.IsInf(x, -1):
		return "-Inf"
	case math.Abs(x) >= bigexp:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	var s string
	switch {
	case places >= 0:
		s = roundAway(x, places)
		if strings.IndexByte(s, '.') >= 0 {
			s = strings.TrimRight(s, "0")
			s = strings.TrimSuffix(s, ".")
		}
	case x == math.Trunc(x):
		s = strconv.FormatFloat(x, 'f', -1, 64)
	default:
		s = strconv.FormatFloat(x, 'g', -1, 64)
	}
	if s == "-0" {
		return "0"
	}
	return s
}

var half = big.NewFloat(0.5)

// roundAway formats finite x with exactly places decimal places, rounding
// halfway cases away from zero. The scaled value is computed exactly, so
// decisions are made on x itself rather than on a shortened decimal form.
func roundAway(x float64, places int) string {
	// x has 53 significant bits and 10^places needs fewer than 3*places, and
	// the integer part of the scaled value is below 2^71 * 10^places.
	prec := uint(128 + 4*places)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	y := new(big.Float).SetPrec(prec).SetFloat64(x)
	y.Mul(y, new(big.Float).SetPrec(prec).SetInt(scale))
	n, _ := y.Int(nil)
	frac := new(big.Float).SetPrec(prec).SetInt(n)
	frac.Sub(y, frac).Abs(frac)
	if frac.Cmp(half) >= 0 {
		if x < 0 {
			n.Sub(n, big.NewInt(1))
		} else {
			n.Add(n, big.NewInt(1))
		}
	}
	neg := n.Sign() < 0
	digits := n.Abs(n).String()
	if places > 0 {
		if len(digits) <= places {
			digits = strings.Repeat("0", places+1-len(digits)) + digits
		}
		k := len(digits) - places
		digits = digits[:k] + "." + digits[k:]
	}
	if neg {
		return "-" + digits
	}
	return digits
}
