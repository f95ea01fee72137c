package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jcorbin/goforth/internal/flushio"
)

// DefaultMaxDepth bounds how deeply word calls, branches, and loop bodies may
// nest before the frame about to be entered fails with ErrTooDeep.
const DefaultMaxDepth = 4096

// Interp evaluates programs against an Env. An Interp holds no program
// state of its own beyond its configuration and the current nesting depth;
// everything a program defines lives in the Env it's evaluated against.
type Interp struct {
	builtins map[string]builtin

	out      flushio.WriteFlusher
	reporter Reporter
	echo     bool

	maxDepth int
	depth    int
	failures int
}

// A Reporter is told about every failure that halts an evaluation frame.
type Reporter func(out io.Writer, err error)

func reportError(out io.Writer, err error) {
	fmt.Fprintf(out, "Error: %v\n", err)
}

func (it *Interp) report(err error) {
	it.failures++
	tracer().Errorf("halt @%v: %v", it.depth, err)
	it.reporter(it.out, err)
}

// Failures returns how many failures have been reported so far, including
// those that only halted a nested frame.
func (it *Interp) Failures() int { return it.failures }

// frame is a cursor over the tokens of one evaluation call.
type frame struct {
	toks []string
	pos  int
}

func (fr *frame) next() (string, bool) {
	if fr.pos >= len(fr.toks) {
		return "", false
	}
	tok := strings.TrimSpace(fr.toks[fr.pos])
	fr.pos++
	return tok, true
}

// until consumes tokens up to the first end token, returning those before it.
func (fr *frame) until(end string) ([]string, bool) {
	start := fr.pos
	for tok, ok := fr.next(); ok; tok, ok = fr.next() {
		if tok == end {
			return fr.toks[start : fr.pos-1], true
		}
	}
	return nil, false
}

// block consumes tokens up to the end token that closes an already consumed
// open token, keeping any nested open/end pairs intact.
func (fr *frame) block(open, end string) ([]string, bool) {
	start, depth := fr.pos, 0
	for tok, ok := fr.next(); ok; tok, ok = fr.next() {
		switch tok {
		case open:
			depth++
		case end:
			if depth == 0 {
				return fr.toks[start : fr.pos-1], true
			}
			depth--
		}
	}
	return nil, false
}

// run evaluates toks as a new frame until they're exhausted or a step fails,
// returning the failure that halted it.
func (it *Interp) run(ctx context.Context, env *Env, toks []string) error {
	if it.maxDepth > 0 && it.depth >= it.maxDepth {
		return evalError{ErrTooDeep, fmt.Sprintf("cannot nest evaluation deeper than %v", it.maxDepth)}
	}
	it.depth++
	defer func() { it.depth-- }()

	fr := frame{toks: toks}
	for tok, ok := fr.next(); ok; tok, ok = fr.next() {
		if err := ctx.Err(); err != nil {
			return abortError{err}
		}
		if tok == "" {
			continue
		}
		tracer().Debugf("@%v %q stack:%v", it.depth, tok, env.stack)
		if err := it.step(ctx, env, &fr, tok); err != nil {
			return err
		}
	}
	return nil
}

// call evaluates body in a nested frame. Any failure is reported, and halts
// only that frame; the caller carries on unless the failure is an abort.
func (it *Interp) call(ctx context.Context, env *Env, body []string) error {
	err := it.run(ctx, env, body)
	if err == nil {
		return nil
	}
	var abort abortError
	if errors.As(err, &abort) {
		return err
	}
	it.report(err)
	return nil
}

// step resolves and evaluates a single token; the first resolution to match
// decides what the token means.
func (it *Interp) step(ctx context.Context, env *Env, fr *frame, tok string) error {
	if handled, err := it.special(ctx, env, fr, tok); handled {
		return err
	}

	if val, ok := env.Register(tok); ok {
		env.Push(val)
		return nil
	}

	if op, ok := it.builtins[tok]; ok {
		return op(env, it.out)
	}

	if word, ok := env.Word(tok); ok {
		return it.call(ctx, env, word.Body)
	}

	if val, ok := parseNumber(tok); ok {
		env.Push(val)
		return nil
	}

	if val, ok := env.Constant(tok); ok {
		env.Push(val)
		return nil
	}

	if info, ok := env.Variable(tok); ok {
		env.PushRef(Ref{Name: tok, Array: info.Array})
		return nil
	}

	return unboundError(tok)
}

func parseNumber(tok string) (int32, bool) {
	val, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(val), true
}
