package main

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/jcorbin/goforth/internal/mem"
)

// Env is the runtime environment that programs evaluate against. It is
// created empty, and mutated in place by every evaluation that it's passed
// to; reusing one Env across evaluations is how definitions accumulate.
//
// Words, variables, constants, and registers share one flat namespace, but
// live in separate tables: a name may be bound in several of them at once,
// with evaluation order deciding which binding a token resolves to.
type Env struct {
	// The operand stack holds all values that programs compute with.
	stack []int32

	// The dictionary maps word names to their unparsed token bodies.
	words *treemap.Map

	// Variables name regions of cells; see storage.go.
	vars  *treemap.Map
	cells mem.Cells

	// References to variables awaiting an @ ! or allot.
	refs *arraystack.Stack

	consts *treemap.Map
	regs   *treemap.Map
}

// Word is a user-defined procedure: a name, and the tokens that are
// re-evaluated every time it is called.
type Word struct {
	Name string
	Body []string
}

func (w Word) String() string {
	s := ": " + w.Name
	for _, tok := range w.Body {
		s += " " + tok
	}
	return s + " ;"
}

// Ref is a pending reference to a variable; array references also carry the
// slot index that the next @ or ! will address.
type Ref struct {
	Name  string
	Array bool
	Index int32
}

func (ref Ref) String() string {
	if ref.Array {
		return fmt.Sprintf("%v[%v]", ref.Name, ref.Index)
	}
	return ref.Name
}

// EnvOption customizes a new Env.
type EnvOption interface{ applyEnv(env *Env) }

type cellLimitOption uint

func (lim cellLimitOption) applyEnv(env *Env) { env.cells.Limit = uint(lim) }

// WithCellLimit bounds the number of storage cells that variables and arrays
// may occupy; zero means unbounded.
func WithCellLimit(limit uint) EnvOption { return cellLimitOption(limit) }

// NewEnv creates a new empty environment.
func NewEnv(opts ...EnvOption) *Env {
	env := &Env{
		words:  treemap.NewWithStringComparator(),
		vars:   treemap.NewWithStringComparator(),
		refs:   arraystack.New(),
		consts: treemap.NewWithStringComparator(),
		regs:   treemap.NewWithStringComparator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt.applyEnv(env)
		}
	}
	return env
}

//// Operand stack

// Push pushes a value onto the operand stack.
func (env *Env) Push(val int32) {
	env.stack = append(env.stack, val)
}

// Pop removes and returns the top of the stack; if the stack is empty, the
// returned error carries mess.
func (env *Env) Pop(mess string) (int32, error) {
	i := len(env.stack) - 1
	if i < 0 {
		return 0, underflowError(mess)
	}
	val := env.stack[i]
	env.stack = env.stack[:i]
	return val, nil
}

// Top returns the top of the stack without removing it; if the stack is
// empty, the returned error carries mess.
func (env *Env) Top(mess string) (int32, error) {
	i := len(env.stack) - 1
	if i < 0 {
		return 0, underflowError(mess)
	}
	return env.stack[i], nil
}

// need checks that at least n values are on the stack.
func (env *Env) need(n int, mess string) error {
	if len(env.stack) < n {
		return underflowError(mess)
	}
	return nil
}

// Depth returns the number of values on the stack.
func (env *Env) Depth() int { return len(env.stack) }

// Stack returns a copy of the stack, bottom first.
func (env *Env) Stack() []int32 {
	stack := make([]int32, len(env.stack))
	copy(stack, env.stack)
	return stack
}

//// Dictionary

// Define binds name to body, replacing any prior definition.
func (env *Env) Define(name string, body []string) {
	env.words.Put(name, Word{
		Name: name,
		Body: append([]string(nil), body...),
	})
}

// Word looks up a definition by name.
func (env *Env) Word(name string) (Word, bool) {
	if w, found := env.words.Get(name); found {
		return w.(Word), true
	}
	return Word{}, false
}

// Words returns all definitions, ordered by name.
func (env *Env) Words() []Word {
	words := make([]Word, 0, env.words.Size())
	for it := env.words.Iterator(); it.Next(); {
		words = append(words, it.Value().(Word))
	}
	return words
}

//// References

// PushRef makes ref the pending reference.
func (env *Env) PushRef(ref Ref) { env.refs.Push(ref) }

// PopRef removes and returns the pending reference.
func (env *Env) PopRef() (Ref, bool) {
	if ref, ok := env.refs.Pop(); ok {
		return ref.(Ref), true
	}
	return Ref{}, false
}

// PeekRef returns the pending reference without consuming it.
func (env *Env) PeekRef() (Ref, bool) {
	if ref, ok := env.refs.Peek(); ok {
		return ref.(Ref), true
	}
	return Ref{}, false
}

// SetRefIndex sets the slot index of the pending reference, returning false
// if there is no pending array reference.
func (env *Env) SetRefIndex(index int32) bool {
	ref, ok := env.PeekRef()
	if !ok || !ref.Array {
		return false
	}
	env.refs.Pop()
	ref.Index = index
	env.refs.Push(ref)
	return true
}

// Refs returns all outstanding references, most recent first.
func (env *Env) Refs() []Ref {
	vals := env.refs.Values()
	refs := make([]Ref, len(vals))
	for i, val := range vals {
		refs[i] = val.(Ref)
	}
	return refs
}

//// Constants

// DefineConstant binds name to val, replacing any prior binding.
func (env *Env) DefineConstant(name string, val int32) { env.consts.Put(name, val) }

// Constant looks up a constant by name.
func (env *Env) Constant(name string) (int32, bool) {
	if val, found := env.consts.Get(name); found {
		return val.(int32), true
	}
	return 0, false
}

//// Registers

// SetRegister sets a named register.
func (env *Env) SetRegister(name string, val int32) { env.regs.Put(name, val) }

// Register looks up a named register.
func (env *Env) Register(name string) (int32, bool) {
	if val, found := env.regs.Get(name); found {
		return val.(int32), true
	}
	return 0, false
}

// ClearRegister removes a named register.
func (env *Env) ClearRegister(name string) { env.regs.Remove(name) }

// binding is a generic name/value pair used for dumping tables.
type binding struct {
	name string
	val  int32
}

func bindings(m *treemap.Map) []binding {
	bs := make([]binding, 0, m.Size())
	for it := m.Iterator(); it.Next(); {
		bs = append(bs, binding{it.Key().(string), it.Value().(int32)})
	}
	return bs
}
