// Package exprcalc implements a calculator for arithmetic and text expressions.
//
// An expression is made of numbers, double-quoted text, the binary operators
// + - * / %, unary + and -, parentheses, and calls to built-in functions like
// sin(1) or replace("Hello", "l", "L"). "1 + 2 * 3" is 7; "-2 % 3" is -2.
// Operators apply only to numbers, and all arithmetic is done in float64,
// so 1/0 is Inf rather than an error.
//
// Function names are case-insensitive. Evaluators call functions from an
// immutable Registry, so one Evaluator can serve any number of goroutines.
package exprcalc
