package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/goforth/internal/logio"
)

type forthTestCases []forthTestCase

func (fts forthTestCases) run(t *testing.T) {
	{
		var exclusive []forthTestCase
		for _, ft := range fts {
			if ft.exclusive {
				exclusive = append(exclusive, ft)
			}
		}
		if len(exclusive) > 0 {
			fts = exclusive
		}
	}
	for _, ft := range fts {
		t.Run(ft.name, ft.run)
	}
}

func forthTest(name string) (ft forthTestCase) {
	ft.name = name
	return ft
}

type forthTestCase struct {
	name     string
	opts     []Option
	envOpts  []EnvOption
	setup    []func(env *Env)
	programs []string
	expect   []func(t *testing.T, env *Env)
	timeout  time.Duration
	ctx      func(ctx context.Context) (context.Context, context.CancelFunc)
	wantErr  error

	exclusive bool
}

func (ft forthTestCase) exclusiveTest() forthTestCase {
	ft.exclusive = true
	return ft
}

func (ft forthTestCase) withOptions(opts ...Option) forthTestCase {
	ft.opts = append(ft.opts[:len(ft.opts):len(ft.opts)], opts...)
	return ft
}

func (ft forthTestCase) withEnvOptions(opts ...EnvOption) forthTestCase {
	ft.envOpts = append(ft.envOpts[:len(ft.envOpts):len(ft.envOpts)], opts...)
	return ft
}

func (ft forthTestCase) withStack(values ...int32) forthTestCase {
	ft.setup = append(ft.setup, func(env *Env) {
		for _, val := range values {
			env.Push(val)
		}
	})
	return ft
}

func (ft forthTestCase) withTimeout(timeout time.Duration) forthTestCase {
	ft.timeout = timeout
	return ft
}

func (ft forthTestCase) withContext(ctx func(ctx context.Context) (context.Context, context.CancelFunc)) forthTestCase {
	ft.ctx = ctx
	return ft
}

// eval adds programs to be evaluated in order, against the same environment.
func (ft forthTestCase) eval(programs ...string) forthTestCase {
	ft.programs = append(ft.programs[:len(ft.programs):len(ft.programs)], programs...)
	return ft
}

// expectError expects the first failing program to have failed with err.
func (ft forthTestCase) expectError(err error) forthTestCase {
	ft.wantErr = err
	return ft
}

func (ft forthTestCase) expectStack(values ...int32) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		if values == nil {
			values = []int32{}
		}
		assert.Equal(t, values, env.Stack(), "expected stack values")
	})
	return ft
}

func (ft forthTestCase) expectOutput(output string) forthTestCase {
	var out strings.Builder
	ft.opts = append(ft.opts[:len(ft.opts):len(ft.opts)], WithOutput(&out))
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		assert.Equal(t, output, out.String(), "expected output")
	})
	return ft
}

func (ft forthTestCase) expectWord(name string, body ...string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		w, defined := env.Word(name)
		if assert.True(t, defined, "expected word %q to be defined", name) {
			if body == nil {
				body = []string{}
			}
			if w.Body == nil {
				w.Body = []string{}
			}
			assert.Equal(t, body, w.Body, "expected %q body", name)
		}
	})
	return ft
}

func (ft forthTestCase) expectNoWord(name string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		_, defined := env.Word(name)
		assert.False(t, defined, "expected word %q to be undefined", name)
	})
	return ft
}

func (ft forthTestCase) expectScalar(name string, value int32) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		val, err := env.Load(name)
		if assert.NoError(t, err, "expected scalar %q", name) {
			assert.Equal(t, value, val, "expected %q value", name)
		}
	})
	return ft
}

func (ft forthTestCase) expectArray(name string, values ...int32) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		info, declared := env.Variable(name)
		if assert.True(t, declared, "expected variable %q", name) {
			assert.True(t, info.Array, "expected %q to be an array", name)
			vals, err := env.Values(name)
			assert.NoError(t, err, "unexpected %q values error", name)
			if values == nil {
				values = []int32{}
			}
			assert.Equal(t, values, vals, "expected %q values", name)
		}
	})
	return ft
}

func (ft forthTestCase) expectConstant(name string, value int32) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		val, defined := env.Constant(name)
		assert.True(t, defined, "expected constant %q", name)
		assert.Equal(t, value, val, "expected %q value", name)
	})
	return ft
}

func (ft forthTestCase) expectRefs(refs ...Ref) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		if refs == nil {
			refs = []Ref{}
		}
		assert.Equal(t, refs, env.Refs(), "expected pending references")
	})
	return ft
}

func (ft forthTestCase) expectNoRegister(names ...string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		for _, name := range names {
			_, set := env.Register(name)
			assert.False(t, set, "expected register %q to be clear", name)
		}
	})
	return ft
}

func (ft forthTestCase) expectDump(dump string) forthTestCase {
	ft.expect = append(ft.expect, func(t *testing.T, env *Env) {
		var out strings.Builder
		assert.NoError(t, envDumper{env: env, out: &out}.dump(), "unexpected dump error")
		assert.Equal(t, dump, out.String(), "expected dump")
	})
	return ft
}

func (ft forthTestCase) run(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "goforth")
	defer teardown()

	env := NewEnv(ft.envOpts...)
	for _, setup := range ft.setup {
		setup(env)
	}

	lw := &logio.Writer{Logf: t.Logf, Prefix: "out: "}
	defer lw.Close()
	it := New(append(ft.opts[:len(ft.opts):len(ft.opts)], WithTee(lw))...)

	defer func() {
		if t.Failed() {
			ft.dumpToTest(t, env)
		}
	}()

	const defaultTimeout = time.Second
	timeout := ft.timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if ft.ctx != nil {
		var cancel context.CancelFunc
		ctx, cancel = ft.ctx(ctx)
		defer cancel()
	}

	var err error
	for _, prog := range ft.programs {
		if perr := it.Eval(ctx, env, prog); err == nil {
			err = perr
		}
	}
	if ft.wantErr != nil {
		assert.True(t, errors.Is(err, ft.wantErr), "expected error: %v\ngot: %+v", ft.wantErr, err)
	} else {
		assert.NoError(t, err, "unexpected evaluation error")
	}

	for _, expect := range ft.expect {
		expect(t, env)
	}
}

func (ft forthTestCase) dumpToTest(t *testing.T, env *Env) {
	lw := logio.Writer{Logf: t.Logf}
	defer lw.Close()
	envDumper{env: env, out: &lw}.dump()
}

//// utilities

func lines(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}
