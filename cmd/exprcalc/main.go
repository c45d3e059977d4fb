package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jcgregorio/logger"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v2"

	"github.com/zephyrtronium/exprcalc"
	"github.com/zephyrtronium/exprcalc/internal/config"
	"github.com/zephyrtronium/exprcalc/internal/repl"
)

func main() {
	err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args)
	if err == nil {
		return
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		os.Exit(ec.ExitCode())
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	def := config.Default()
	return &cli.App{
		Name:      "exprcalc",
		Usage:     "evaluate arithmetic and text expressions",
		ArgsUsage: "[expression ...]",
		Description: "With expression arguments, evaluates each one and exits. Otherwise reads\n" +
			"expressions from the -in file or standard input, one per line, with line\n" +
			"editing and history when standard input is a terminal.",
		HideVersion: true,
		Reader:      stdin,
		Writer:      stdout,
		ErrWriter:   stderr,
		// main decides the exit status.
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "JSON5 config `file`",
			},
			&cli.IntFlag{
				Name:  "places",
				Usage: "decimal places to round numeric results to, or -1 for exact",
				Value: def.Places,
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "maximum expression nesting, or 0 for unlimited",
				Value: def.MaxDepth,
			},
			&cli.StringFlag{
				Name:  "history",
				Usage: "interactive history `file`, or empty to disable",
				Value: def.HistoryFile,
			},
			&cli.StringFlag{
				Name:  "in",
				Usage: "read expressions from `file`, one per line; - is standard input",
			},
			&cli.BoolFlag{
				Name:  "echo",
				Usage: "print parse trees before results",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored errors",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log debug output to standard error",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	log := newLogger(c.App.ErrWriter, c.Bool("verbose"))
	cfg, err := settings(c)
	if err != nil {
		log.Errorf("%v", err)
		return cli.Exit("", 2)
	}
	log.Debugf("settings: %+v", cfg)

	ev := exprcalc.NewEvaluator(nil, exprcalc.MaxDepth(cfg.MaxDepth))
	opts := repl.Options{
		Places: cfg.Places,
		Prompt: cfg.Prompt,
		Echo:   c.Bool("echo"),
		Color:  cfg.Color && !color.NoColor,
		Log:    log,
	}
	out := c.App.Writer

	if c.NArg() > 0 {
		r := repl.New(ev, out, opts)
		failed := 0
		for _, arg := range c.Args().Slice() {
			if !r.Line(arg) {
				failed++
			}
		}
		return status(failed)
	}

	in := c.App.Reader
	switch name := c.String("in"); name {
	case "", "-":
	default:
		f, err := os.Open(name)
		if err != nil {
			log.Errorf("%v", err)
			return cli.Exit("", 2)
		}
		defer f.Close()
		in = f
	}
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		opts.Banner = true
		return interactive(repl.New(ev, out, opts), cfg, log)
	}
	failed, err := repl.New(ev, out, opts).Run(repl.NewScanReader(in))
	if err != nil {
		log.Errorf("reading input: %v", err)
		return cli.Exit("", 2)
	}
	return status(failed)
}

// settings combines the config file with flags. Flags given on the command
// line take precedence.
func settings(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if c.IsSet("places") {
		cfg.Places = c.Int("places")
	}
	if c.IsSet("max-depth") {
		cfg.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("history") {
		cfg.HistoryFile = c.String("history")
	}
	if c.Bool("no-color") {
		cfg.Color = false
	}
	return cfg, cfg.Validate()
}

// interactive runs a session with line editing and history.
func interactive(r *repl.REPL, cfg config.Config, log *logger.Logger) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	hist, err := cfg.History()
	if err != nil {
		log.Warningf("%v", err)
	}
	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			if _, err := ln.ReadHistory(f); err != nil {
				log.Warningf("reading history: %v", err)
			}
			f.Close()
		}
		defer func() {
			f, err := os.Create(hist)
			if err != nil {
				log.Warningf("saving history: %v", err)
				return
			}
			if _, err := ln.WriteHistory(f); err != nil {
				log.Warningf("saving history: %v", err)
			}
			f.Close()
		}()
	}

	if _, err := r.Run(ln); err != nil && !errors.Is(err, liner.ErrPromptAborted) {
		log.Errorf("reading input: %v", err)
		return cli.Exit("", 2)
	}
	return nil
}

func status(failed int) error {
	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// syncWriter adapts writers without Sync for the logger.
type syncWriter struct {
	io.Writer
}

func (syncWriter) Sync() error {
	return nil
}

func newLogger(w io.Writer, debug bool) *logger.Logger {
	sw, ok := w.(logger.SyncWriter)
	if !ok {
		sw = syncWriter{w}
	}
	return logger.NewFromOptions(&logger.Options{
		SyncWriter:   sw,
		IncludeDebug: debug,
	})
}
