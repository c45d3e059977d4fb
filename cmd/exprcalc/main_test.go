package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the command with args and returns its output, logs, and exit
// status.
func runApp(t *testing.T, stdin string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errs bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out, &errs)
	err := app.Run(append([]string{"exprcalc", "--no-color"}, args...))
	if err != nil {
		var ec cli.ExitCoder
		require.True(t, errors.As(err, &ec), "unexpected error %v", err)
		code = ec.ExitCode()
	}
	return out.String(), errs.String(), code
}

func TestArgs(t *testing.T) {
	out, _, code := runApp(t, "", "1 + 1/2 + 1", `reverse("abc")`, "sin(1)")
	assert.Zero(t, code)
	assert.Equal(t, "2.5\ncba\n0.8415\n", out)
}

func TestArgsFailure(t *testing.T) {
	out, _, code := runApp(t, "", "1 + 1", "1 +", "2 * 2")
	assert.Equal(t, 1, code)
	assert.Equal(t, "2\nError: position 3: unexpected end of expression\n4\n", out)
}

func TestFlags(t *testing.T) {
	out, _, code := runApp(t, "", "--places", "2", "--echo", "pi()")
	assert.Zero(t, code)
	assert.Equal(t, "(pi[]) : 3.14\n", out)

	out, _, code = runApp(t, "", "--places", "-1", "1/3")
	assert.Zero(t, code)
	assert.Equal(t, "0.3333333333333333\n", out)

	out, _, code = runApp(t, "", "--max-depth", "2", "((1))")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "nested deeper than 2 levels")
}

func TestInvalidSettings(t *testing.T) {
	_, logs, code := runApp(t, "", "--places", "20", "1")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "places must be at most 15")

	_, logs, code = runApp(t, "", "--max-depth", "-1", "1")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "max_depth must not be negative")

	_, logs, code = runApp(t, "", "--config", filepath.Join(t.TempDir(), "missing.json5"), "1")
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "opening config")
}

func TestConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprcalc.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{places: 6, max_depth: 3}`), 0o644))

	out, _, code := runApp(t, "", "--config", path, "1/3")
	assert.Zero(t, code)
	assert.Equal(t, "0.333333\n", out)

	out, _, code = runApp(t, "", "--config", path, "--places", "1", "1/3")
	assert.Zero(t, code)
	assert.Equal(t, "0.3\n", out)

	out, _, code = runApp(t, "", "--config", path, "((((1))))")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "nested deeper than 3 levels")

	out, _, code = runApp(t, "", "--config", path, "--max-depth", "0", "((((1))))")
	assert.Zero(t, code)
	assert.Equal(t, "1\n", out)
}

func TestStdin(t *testing.T) {
	out, _, code := runApp(t, "1+1\n\nlen(\"abc\")\nexit\n2+2\n")
	assert.Equal(t, 1, code)
	assert.Equal(t, "2\nError: No input provided\n3\n", out)

	out, _, code = runApp(t, "base(255, 10, 16)\n", "--in", "-")
	assert.Zero(t, code)
	assert.Equal(t, "FF\n", out)
}

func TestInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("encode64(\"Hello World\")\nlog(8, 2)\n"), 0o644))
	out, _, code := runApp(t, "ignored\n", "--in", path)
	assert.Zero(t, code)
	assert.Equal(t, "SGVsbG8gV29ybGQ=\n3\n", out)

	_, logs, code := runApp(t, "", "--in", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 2, code)
	assert.Contains(t, logs, "missing.txt")
}

func TestVerbose(t *testing.T) {
	_, logs, code := runApp(t, "", "1")
	assert.Zero(t, code)
	assert.NotContains(t, logs, "evaluated")

	_, logs, code = runApp(t, "", "--verbose", "1")
	assert.Zero(t, code)
	assert.Contains(t, logs, `evaluated "1"`)
}
