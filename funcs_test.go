package exprcalc_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/exprcalc"
)

func TestRegistry(t *testing.T) {
	double := exprcalc.Monadic("double", func(x float64) float64 { return 2 * x })
	r := exprcalc.NewRegistry(map[string]exprcalc.Func{
		"Double": double,
		"gone":   nil,
	})
	assert.Equal(t, []string{"double"}, r.Names())
	_, ok := r.Lookup("double")
	assert.True(t, ok)
	_, ok = r.Lookup("Double")
	assert.False(t, ok)

	ev := exprcalc.NewEvaluator(r)
	got, err := ev.Evaluate("DOUBLE(21)")
	require.NoError(t, err)
	assert.Equal(t, exprcalc.Number(42), got)
	_, err = ev.Evaluate("sin(1)")
	var nerr *exprcalc.NameError
	assert.True(t, errors.As(err, &nerr))
}

func TestRegistryWith(t *testing.T) {
	upper := exprcalc.TextMonadic("upper", func(s string) (exprcalc.Value, error) {
		return exprcalc.Text(strings.ToUpper(s)), nil
	})
	answer := exprcalc.Niladic("answer", func() float64 { return 42 })
	r := exprcalc.Builtins().With(map[string]exprcalc.Func{
		"upper":  upper,
		"answer": answer,
		"SIN":    nil,
	})
	_, ok := r.Lookup("sin")
	assert.False(t, ok)
	_, ok = exprcalc.Builtins().Lookup("sin")
	assert.True(t, ok, "With modified the original registry")
	assert.Contains(t, r.Names(), "upper")
	assert.NotContains(t, r.Names(), "sin")

	ev := exprcalc.NewEvaluator(r)
	got, err := ev.Evaluate(`upper(reverse("abc"))`)
	require.NoError(t, err)
	assert.Equal(t, exprcalc.Text("CBA"), got)
	got, err = ev.Evaluate("answer() / 2")
	require.NoError(t, err)
	assert.Equal(t, exprcalc.Number(21), got)
	_, err = ev.Evaluate("1 + upper(1)")
	assert.Equal(t, &exprcalc.TypeError{Col: 4, Func: "upper", Arg: 1, Want: exprcalc.KindText, Got: exprcalc.KindNumber}, err)
	assert.Same(t, r, ev.Funcs())
}

func TestFuncOfErrorPosition(t *testing.T) {
	fail := exprcalc.FuncOf(func(args []exprcalc.Value) (exprcalc.Value, error) {
		return exprcalc.Value{}, &exprcalc.DomainError{X: args[0], Arg: 1, Func: "fail", Reason: "always"}
	})
	ev := exprcalc.NewEvaluator(exprcalc.NewRegistry(map[string]exprcalc.Func{"fail": fail}))
	_, err := ev.Evaluate(`  fail("x")`)
	assert.EqualError(t, err, `position 2: "x" outside domain of fail (argument 1): always`)
	assert.ErrorIs(t, err, exprcalc.ErrEval)
}

func TestFuncSharedError(t *testing.T) {
	shared := &exprcalc.DomainError{X: exprcalc.Number(1), Arg: 1, Func: "fail", Reason: "always"}
	fail := exprcalc.FuncOf(func([]exprcalc.Value) (exprcalc.Value, error) {
		return exprcalc.Value{}, shared
	})
	ev := exprcalc.NewEvaluator(exprcalc.NewRegistry(map[string]exprcalc.Func{"fail": fail}))
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = ev.Evaluate(strings.Repeat(" ", i) + "fail(1)")
		}()
	}
	wg.Wait()
	for i, err := range errs {
		var derr *exprcalc.DomainError
		if assert.ErrorAs(t, err, &derr) {
			assert.Equal(t, i, derr.Pos())
			assert.NotSame(t, shared, derr)
		}
	}
	assert.Equal(t, 0, shared.Col)
}

func TestFuncOfNoValue(t *testing.T) {
	bad := exprcalc.FuncOf(func([]exprcalc.Value) (exprcalc.Value, error) { return exprcalc.Value{}, nil })
	ev := exprcalc.NewEvaluator(exprcalc.NewRegistry(map[string]exprcalc.Func{"bad": bad}))
	assert.Panics(t, func() { ev.Evaluate("bad()") })
}

func TestCallErrorMessage(t *testing.T) {
	_, err := exprcalc.Evaluate("sin(1, 2)")
	assert.EqualError(t, err, "position 0: cannot call sin with 2 arguments; usage: sin(number)")
	_, err = exprcalc.Evaluate(`len(1)`)
	assert.EqualError(t, err, "position 0: argument 1 of len must be text, not number")
	_, err = exprcalc.Evaluate("nope()")
	assert.EqualError(t, err, `position 0: unknown function: "nope"`)
}
