// Package repl implements the line-oriented front end of exprcalc: it reads
// expressions, evaluates them, and prints results or errors.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/zephyrtronium/exprcalc"
)

// ExitCommand ends an interactive session.
const ExitCommand = "exit"

// LineReader reads lines of input.
type LineReader interface {
	// Prompt shows prompt, if the reader is interactive, and reads one line
	// without its line terminator. At the end of input, it returns io.EOF.
	Prompt(prompt string) (string, error)
}

// historian is implemented by line readers that keep input history, like
// *liner.State.
type historian interface {
	AppendHistory(item string)
}

// Logger receives debug output.
type Logger interface {
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}

type scanReader struct {
	s *bufio.Scanner
}

// NewScanReader returns a LineReader reading lines from r. It never shows
// prompts.
func NewScanReader(r io.Reader) LineReader {
	return scanReader{bufio.NewScanner(r)}
}

func (r scanReader) Prompt(string) (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

// Options configures a REPL.
type Options struct {
	// Places is the number of decimal places for numeric results. If
	// negative, results are shown exactly.
	Places int
	// Prompt is passed to the LineReader for each line.
	Prompt string
	// Banner prints the usage banner when Run starts.
	Banner bool
	// Echo prints the parsed form of each expression before its result.
	Echo bool
	// Color writes errors in red.
	Color bool
	// Log receives timing and diagnostic messages. May be nil.
	Log Logger
}

// REPL evaluates lines of input.
type REPL struct {
	ev   *exprcalc.Evaluator
	out  io.Writer
	opts Options
	errc *color.Color
	log  Logger
}

// New creates a REPL evaluating with ev and writing results and errors to
// out.
func New(ev *exprcalc.Evaluator, out io.Writer, opts Options) *REPL {
	errc := color.New(color.FgRed)
	if opts.Color {
		errc.EnableColor()
	} else {
		errc.DisableColor()
	}
	log := opts.Log
	if log == nil {
		log = nopLogger{}
	}
	return &REPL{ev: ev, out: out, opts: opts, errc: errc, log: log}
}

// Banner returns the text shown at the start of an interactive session.
func (r *REPL) Banner() string {
	return "Enter an expression (or '" + ExitCommand + "' to quit)\n" +
		"Built-in functions: " + strings.Join(r.ev.Funcs().Names(), ", ")
}

// Line evaluates one line of input and prints the result or error. It
// returns false if the line produced an error.
func (r *REPL) Line(line string) bool {
	if strings.TrimSpace(line) == "" {
		r.errorf("No input provided")
		return false
	}
	start := time.Now()
	v, err := r.eval(line)
	r.log.Debugf("evaluated %q in %v", line, time.Since(start))
	if err != nil {
		r.errorf("%v", err)
		return false
	}
	fmt.Fprintln(r.out, v.Format(r.opts.Places))
	return true
}

func (r *REPL) eval(line string) (exprcalc.Value, error) {
	e, err := r.ev.Parse(line)
	if err != nil {
		return exprcalc.Value{}, err
	}
	if r.opts.Echo && e != nil {
		fmt.Fprintf(r.out, "%v : ", e)
	}
	return r.ev.Eval(e)
}

func (r *REPL) errorf(format string, args ...interface{}) {
	r.errc.Fprintf(r.out, "Error: "+format+"\n", args...)
}

// Run reads and evaluates lines from in until it reaches the end of input or
// a line containing only the exit command. Errors in expressions are printed
// and do not stop the loop. The result is the number of lines that failed
// and any error from in other than io.EOF.
func (r *REPL) Run(in LineReader) (failed int, err error) {
	if r.opts.Banner {
		fmt.Fprintln(r.out, r.Banner())
	}
	h, _ := in.(historian)
	for {
		line, err := in.Prompt(r.opts.Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return failed, nil
			}
			return failed, err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == ExitCommand {
			return failed, nil
		}
		if h != nil && trimmed != "" {
			h.AppendHistory(line)
		}
		if !r.Line(line) {
			failed++
		}
	}
}
