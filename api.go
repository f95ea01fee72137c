package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jcorbin/goforth/internal/panicerr"
)

// New creates an interpreter; its output is discarded unless WithOutput is
// given.
func New(opts ...Option) *Interp {
	it := Interp{builtins: make(map[string]builtin, len(builtins))}
	for name, op := range builtins {
		it.builtins[name] = op
	}
	it.apply(opts...)
	return &it
}

// Eval tokenizes and evaluates program against env.
//
// Any failure is reported as it happens. Failures within nested frames
// (word calls, branches, loop bodies) halt only that frame, so Eval returns
// only the failure that halted the program itself, if any. Cancelling ctx
// aborts every frame at the next token.
//
// Whatever the program did before failing is kept in env.
func (it *Interp) Eval(ctx context.Context, env *Env, program string) error {
	err := panicerr.Recover("goforth", func() error {
		return it.run(ctx, env, Tokenize(program))
	})
	if panicerr.IsPanic(err) {
		tracer().Errorf("recovered %v\n%s", err, panicerr.PanicStack(err))
	} else if panicerr.IsExit(err) {
		tracer().Errorf("recovered %v", err)
	}
	if err != nil {
		it.report(err)
	}
	if it.echo {
		fmt.Fprintf(it.out, "=> %v\n", env.stack)
	}
	if ferr := it.out.Flush(); err == nil {
		err = ferr
	}
	return err
}

func WithOutput(w io.Writer) Option        { return outputOption{w} }
func WithTee(w io.Writer) Option           { return teeOption{w} }
func WithEcho(echo bool) Option            { return echoOption(echo) }
func WithMaxDepth(depth int) Option        { return maxDepthOption(depth) }
func WithReporter(reporter Reporter) Option { return reporterOption(reporter) }
