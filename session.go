package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/jcorbin/goforth/internal/fileinput"
)

// LineReader supplies the programs of a session, one per line.
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

// promptReader reads lines from an interactive terminal.
type promptReader struct{ *readline.Instance }

func newPromptReader(prompt string) (promptReader, error) {
	rl, err := readline.New(prompt)
	return promptReader{rl}, err
}

func (pr promptReader) ReadLine() (string, error) { return pr.Readline() }

// Session evaluates every line of its input as a program against one shared
// environment.
type Session struct {
	Interp  *Interp
	Env     *Env
	EnvOpts []EnvOption
	In      LineReader

	// Out receives the output of meta commands.
	Out io.Writer

	// Timeout, if non-zero, bounds the evaluation of each line.
	Timeout time.Duration

	// Interactive sessions survive interrupts, which only abort the line
	// being evaluated.
	Interactive bool

	// Failed counts the lines whose evaluation reported any failure, even
	// one that only halted a nested frame.
	Failed int

	mu     sync.Mutex
	cancel context.CancelFunc
}

var errQuit = errors.New("quit")

// Run evaluates lines until the input runs out, a \quit meta command, or ctx
// is done.
func (sess *Session) Run(ctx context.Context) error {
	if sess.Env == nil {
		sess.Env = NewEnv(sess.EnvOpts...)
	}
	defer sess.In.Close()
	for ctx.Err() == nil {
		line, err := sess.In.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, `\`) {
			err = sess.meta(line)
		} else if line != "" {
			err = sess.eval(ctx, line)
		}
		if errors.Is(err, errQuit) {
			return nil
		} else if err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (sess *Session) eval(ctx context.Context, line string) error {
	var cancel context.CancelFunc
	if sess.Timeout != 0 {
		ctx, cancel = context.WithTimeout(ctx, sess.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	sess.mu.Lock()
	sess.cancel = cancel
	sess.mu.Unlock()
	defer func() {
		sess.mu.Lock()
		sess.cancel = nil
		sess.mu.Unlock()
	}()

	failures := sess.Interp.Failures()
	err := sess.Interp.Eval(ctx, sess.Env, line)
	if sess.Interp.Failures() > failures {
		sess.Failed++
	}
	if err == nil {
		return nil
	}
	if in, ok := sess.In.(*fileinput.Input); ok {
		tracer().Errorf("%v: %v", in.Last, err)
	}
	if errors.Is(err, context.Canceled) && !sess.Interactive {
		return err
	}
	return nil
}

// Interrupt aborts the line being evaluated by an interactive session,
// returning false if the session should be stopped instead.
func (sess *Session) Interrupt() bool {
	if !sess.Interactive {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.cancel != nil {
		sess.cancel()
	}
	return true
}

func (sess *Session) meta(line string) error {
	switch cmd := strings.Fields(line)[0]; cmd {
	case `\quit`:
		return errQuit
	case `\reset`:
		sess.Env = NewEnv(sess.EnvOpts...)
		return sess.print(pterm.Info.Sprintln("environment reset"))
	case `\env`:
		return envDumper{env: sess.Env, out: sess.Out}.dump()
	case `\words`:
		if sess.Env.words.Empty() {
			return sess.print(pterm.Info.Sprintln("no words defined"))
		}
		tree, err := pterm.DefaultTree.WithRoot(pterm.NewTreeFromLeveledList(wordTree(sess.Env))).Srender()
		if err != nil {
			return err
		}
		return sess.print(tree)
	default:
		return sess.print(pterm.Error.Sprintln(fmt.Sprintf("unknown command %v, try \\words \\env \\reset or \\quit", cmd)))
	}
}

func (sess *Session) print(s string) error {
	_, err := io.WriteString(sess.Out, s)
	return err
}

// wordTree lists each defined word with its body tokens beneath it.
func wordTree(env *Env) pterm.LeveledList {
	ll := pterm.LeveledList{}
	for _, w := range env.Words() {
		ll = append(ll, pterm.LeveledListItem{Level: 0, Text: w.Name})
		for _, tok := range w.Body {
			ll = append(ll, pterm.LeveledListItem{Level: 1, Text: tok})
		}
	}
	return ll
}
