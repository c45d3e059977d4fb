package exprcalc

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrees(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"1", "(1)"},
		{"  1  ", "(1)"},
		{"1.5e3", "(1500)"},
		{"1e400", "(+Inf)"},
		{`"a"`, `("a")`},
		{`""`, `("")`},
		{"((1))", "(1)"},
		{"1+2", "([1] + [2])"},
		{"1-2-3", "([(1) - (2)] - [3])"},
		{"1/2/3", "([(1) / (2)] / [3])"},
		{"1+2*3", "([1] + [(2) * (3)])"},
		{"1*2+3", "([(1) * (2)] + [3])"},
		{"1+2%3", "([1] + [(2) % (3)])"},
		{"(1+2)*3", "([(1) + (2)] * [3])"},
		{"1*(2+3)", "([1] * [(2) + (3)])"},
		{"-5", "(-[5])"},
		{"--5", "(-[-(5)])"},
		{"-+5", "(-[+(5)])"},
		{"-2*3", "([-(2)] * [3])"},
		{"2*-3", "([2] * [-(3)])"},
		{"-(1+2)", "(-[(1) + (2)])"},
		{"f()", "(f[])"},
		{"F(1, 2)", "(f[(1), (2)])"},
		{"f(1+2)", "(f[([1] + [2])])"},
		{"f(g(1))", "(f[(g[(1)])])"},
		{`replace("ab", "b", "c")`, `(replace[("ab"), ("b"), ("c")])`},
		{"sin(1) + cos(2)", "([sin([1])] + [cos([2])])"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.src, func(t *testing.T) {
			e, err := Parse(c.src)
			require.NoError(t, err)
			require.NotNil(t, e)
			assert.Equal(t, c.want, e.String())
		})
	}
}

func TestParseWhitespace(t *testing.T) {
	want, err := Parse("sin(1)+cos(17)/tan(0.5)")
	require.NoError(t, err)
	for _, src := range []string{
		"sin(1) + cos(17) / tan(0.5)",
		"  sin ( 1 )\t+\tcos( 17 ) /tan (0.5 ) ",
		"\nsin(1)\n+\ncos(17)\n/\ntan(0.5)\n",
	} {
		e, err := Parse(src)
		if assert.NoError(t, err, src) {
			assert.Equal(t, want.String(), e.String(), src)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", " ", "\t\n"} {
		e, err := Parse(src)
		assert.NoError(t, err)
		assert.Nil(t, e)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"open", "(", &TokenError{Col: 1, Got: TokenEnd}},
		{"close", ")", &TokenError{Col: 0, Got: TokenClose, Text: ")"}},
		{"unclosed", "(1+1", &BracketError{Col: 0, Open: true}},
		{"unclosed-outer", "((1+1)", &BracketError{Col: 0, Open: true}},
		{"unclosed-inner", "(1+(1)", &BracketError{Col: 0, Open: true}},
		{"unopened", "1+1)", &BracketError{Col: 3}},
		{"unopened-extra", "1+1))", &BracketError{Col: 3}},
		{"unopened-outer", "(1+1))", &BracketError{Col: 5}},
		{"unclosed-call", "f(1", &BracketError{Col: 1, Open: true}},
		{"adjacent", "1 2", &TokenError{Col: 2, Got: TokenNumber, Text: "2", Want: TokenEnd}},
		{"adjacent-text", `"a" "b"`, &TokenError{Col: 4, Got: TokenText, Text: "b", Want: TokenEnd}},
		{"bare-name", "sin", &TokenError{Col: 3, Got: TokenEnd, Want: TokenOpen}},
		{"name-no-paren", "sin 1", &TokenError{Col: 4, Got: TokenNumber, Text: "1", Want: TokenOpen}},
		{"name-arg", "sin(abc)", &TokenError{Col: 7, Got: TokenClose, Text: ")", Want: TokenOpen}},
		{"arg-adjacent", "f(1 2)", &TokenError{Col: 4, Got: TokenNumber, Text: "2", Want: TokenClose}},
		{"arg-trailing-comma", "f(1,)", &TokenError{Col: 4, Got: TokenClose, Text: ")"}},
		{"arg-leading-comma", "f(,1)", &TokenError{Col: 2, Got: TokenComma, Text: ","}},
		{"paren-comma", "(1,2)", &TokenError{Col: 2, Got: TokenComma, Text: ",", Want: TokenClose}},
		{"dangling-op", "1+", &TokenError{Col: 2, Got: TokenEnd}},
		{"leading-op", "*1", &TokenError{Col: 0, Got: TokenMultiply, Text: "*"}},
		{"double-op", "1 * / 2", &TokenError{Col: 4, Got: TokenDivide, Text: "/"}},
		{"empty-parens", "()", &TokenError{Col: 1, Got: TokenClose, Text: ")"}},
		{"garbage", "1 2 / * 12 ( 12 //)", &TokenError{Col: 2, Got: TokenNumber, Text: "2", Want: TokenEnd}},
		{"lex", "123abc", &LexError{Text: "123a", Kind: "number", Col: 0}},
		{"lex-later", "1 + $", &LexError{Text: "$", Col: 4}},
		{"lex-text", `len("abc`, &LexError{Text: "abc", Kind: "text", Col: 4}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			assert.Nil(t, e)
			require.Error(t, err)
			assert.Equal(t, c.want, err)
			var ierr InputError
			if assert.True(t, errors.As(err, &ierr)) {
				assert.Equal(t, c.want.(InputError).Pos(), ierr.Pos())
			}
			if _, ok := c.want.(*LexError); ok {
				assert.ErrorIs(t, err, ErrLex)
				assert.NotErrorIs(t, err, ErrParse)
			} else {
				assert.ErrorIs(t, err, ErrParse)
				assert.NotErrorIs(t, err, ErrLex)
			}
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	cases := []struct {
		src string
		msg string
	}{
		{"(", "position 1: unexpected end of expression"},
		{"sin", `position 3: unexpected end of expression, expected "("`},
		{"1 2", `position 2: unexpected number "2", expected end of expression`},
		{"f(1 sin)", `position 4: unexpected function "sin", expected ")"`},
		{"*1", `position 0: unexpected "*"`},
		{"(1+1", "position 0: open bracket ( with no close bracket"},
		{"1+1)", "position 3: close bracket ) with no open bracket"},
		{"((1))", "position 2: expression nested deeper than 2 levels"},
	}
	for _, c := range cases {
		_, err := Parse(c.src, MaxDepth(2))
		assert.EqualError(t, err, c.msg, c.src)
	}
}

func TestParseMaxDepth(t *testing.T) {
	cases := []struct {
		src   string
		depth int
		ok    bool
	}{
		{"((1))", 3, true},
		{"(((1)))", 3, false},
		{"((((1))))", 3, false},
		{"---1", 4, true},
		{"----1", 4, false},
		{"f(g(h(1)))", 4, true},
		{"f(g(h(i(1))))", 4, false},
		{"1+2+3+4+5+6", 1, true},
		{"((((1))))", 0, true},
		{"1", 1, true},
		{"(1)", 1, false},
		{"-1", 1, false},
		{"f()", 1, true},
		{"f(1)", 1, false},
		{"(1)", 2, true},
	}
	for _, c := range cases {
		_, err := Parse(c.src, MaxDepth(c.depth))
		if c.ok {
			assert.NoError(t, err, "%s with depth %d", c.src, c.depth)
			continue
		}
		var derr *DepthError
		if assert.True(t, errors.As(err, &derr), "%s with depth %d: want DepthError, got %v", c.src, c.depth, err) {
			assert.Equal(t, c.depth, derr.Max)
		}
	}
}

func TestParseDeep(t *testing.T) {
	const n = 10000
	src := strings.Repeat("(", n) + "1" + strings.Repeat(")", n)
	e, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "(1)", e.String())
	_, err = Parse(src, MaxDepth(n))
	require.Error(t, err)
	_, err = Parse(src, MaxDepth(n+1))
	require.NoError(t, err)
}

func TestMaxDepthNegative(t *testing.T) {
	assert.Panics(t, func() { MaxDepth(-1) })
}
