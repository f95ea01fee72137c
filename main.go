package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/jcorbin/goforth/internal/fileinput"
)

const usage = `goforth, a small Forth interpreter

Usage:
  goforth [options] [FILE...]
  goforth -h

Arguments:
  FILE  Program file, evaluated one line at a time; - reads stdin.

Options:
  -e, --eval=PROGRAM    Evaluate PROGRAM before any files.
  --trace=LEVEL         Trace level: Debug, Info, or Error [default: Error].
  --timeout=DURATION    Time limit for each line, 0 for none [default: 0s].
  --max-depth=N         Limit on nested evaluation, 0 for none [default: 4096].
  --cell-limit=N        Limit on storage cells, 0 for none [default: 0].
  -q, --quiet           Do not print the stack after each line.
  -h, --help            Display this help.

With no FILE or PROGRAM, lines are read from stdin, interactively if it is a
terminal. Interactive sessions also accept \words \env \reset and \quit.
`

var errInterrupted = errors.New("interrupted")

type config struct {
	files       []string
	program     string
	trace       string
	timeout     time.Duration
	maxDepth    int
	cellLimit   int
	quiet       bool
	interactive bool
}

func parseConfig(argv []string) (cfg config, err error) {
	opts, err := docopt.ParseArgs(usage, argv, "")
	if err != nil {
		return cfg, err
	}
	cfg.files, _ = opts["FILE"].([]string)
	cfg.program, _ = opts.String("--eval")
	cfg.trace, _ = opts.String("--trace")
	cfg.quiet, _ = opts.Bool("--quiet")
	if cfg.maxDepth, err = opts.Int("--max-depth"); err != nil {
		return cfg, fmt.Errorf("invalid --max-depth: %w", err)
	}
	if cfg.cellLimit, err = opts.Int("--cell-limit"); err != nil || cfg.cellLimit < 0 {
		return cfg, fmt.Errorf("invalid --cell-limit: %v", opts["--cell-limit"])
	}
	timeout, _ := opts.String("--timeout")
	if cfg.timeout, err = time.ParseDuration(timeout); err != nil {
		return cfg, fmt.Errorf("invalid --timeout: %w", err)
	}
	cfg.interactive = len(cfg.files) == 0 && cfg.program == "" && isatty.IsTerminal(os.Stdin.Fd())
	return cfg, nil
}

// input queues the program sources named by cfg.
func (cfg config) input() (LineReader, error) {
	if cfg.interactive {
		return newPromptReader("goforth> ")
	}
	var in fileinput.Input
	if cfg.program != "" {
		in.Queue = append(in.Queue, fileinput.NamedReader("<eval>", strings.NewReader(cfg.program)))
	}
	for _, name := range cfg.files {
		if name == "-" {
			in.Queue = append(in.Queue, fileinput.NamedReader("<stdin>", os.Stdin))
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.Queue = append(in.Queue, f)
	}
	if len(in.Queue) == 0 {
		in.Queue = append(in.Queue, fileinput.NamedReader("<stdin>", os.Stdin))
	}
	return &in, nil
}

func main() {
	initDisplay()
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	tracer().SetTraceLevel(tracing.TraceLevelFromString(cfg.trace))

	in, err := cfg.input()
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}

	sess := Session{
		Interp: New(
			WithOutput(os.Stdout),
			WithEcho(!cfg.quiet),
			WithMaxDepth(cfg.maxDepth),
		),
		EnvOpts:     []EnvOption{WithCellLimit(uint(cfg.cellLimit))},
		In:          in,
		Out:         os.Stdout,
		Timeout:     cfg.timeout,
		Interactive: cfg.interactive,
	}
	if cfg.interactive {
		pterm.Info.Println("goforth: quit with \\quit or <ctrl>D")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer cancel()
		return sess.Run(ctx)
	})
	eg.Go(func() error {
		return watchInterrupts(ctx, &sess)
	})
	err = eg.Wait()

	switch {
	case errors.Is(err, errInterrupted), errors.Is(err, context.Canceled):
		os.Exit(130)
	case err != nil:
		pterm.Error.Println(err)
		os.Exit(2)
	case sess.Failed > 0 && !cfg.interactive:
		os.Exit(1)
	}
}

// watchInterrupts relays interrupt signals to the session until ctx is done.
func watchInterrupts(ctx context.Context, sess *Session) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigs:
			if !sess.Interrupt() {
				return errInterrupted
			}
		}
	}
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}
