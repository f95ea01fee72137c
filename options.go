package main

import (
	"io"

	"github.com/jcorbin/goforth/internal/flushio"
)

// Option customizes an Interp.
type Option interface{ apply(it *Interp) }

var defaults = []Option{
	outputOption{nil},
	reporterOption(reportError),
	maxDepthOption(DefaultMaxDepth),
}

func (it *Interp) apply(opts ...Option) {
	for _, opt := range defaults {
		if opt != nil {
			opt.apply(it)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(it)
		}
	}
}

type outputOption struct{ io.Writer }
type teeOption struct{ io.Writer }
type echoOption bool
type maxDepthOption int
type reporterOption Reporter

func (o outputOption) apply(it *Interp) {
	if it.out != nil {
		it.out.Flush()
	}
	it.out = flushio.New(o.Writer)
}

func (o teeOption) apply(it *Interp) {
	it.out = flushio.Tee(it.out, flushio.New(o.Writer))
}

func (echo echoOption) apply(it *Interp) { it.echo = bool(echo) }

// A zero depth means unbounded nesting.
func (depth maxDepthOption) apply(it *Interp) { it.maxDepth = int(depth) }

func (rep reporterOption) apply(it *Interp) {
	if rep == nil {
		rep = reportError
	}
	it.reporter = Reporter(rep)
}
