package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// special evaluates tok if it starts a special form, consuming any further
// tokens the form needs from fr.
func (it *Interp) special(ctx context.Context, env *Env, fr *frame, tok string) (bool, error) {
	switch tok {
	case ":":
		return true, it.define(env, fr)
	case `."`:
		return true, it.print(fr)
	case "if":
		return true, it.conditional(ctx, env, fr)
	case "do":
		return true, it.loop(ctx, env, fr)
	case "variable":
		return true, declareVariable(env, fr)
	case "constant":
		return true, defineConstant(env, fr)
	case "@":
		return true, fetch(env)
	case "!":
		return true, store(env)
	case "cells":
		_, err := env.Top("empty stack to evaluate cells")
		return true, err
	case "allot":
		return true, allot(env)
	case "+":
		if ref, ok := env.PeekRef(); ok && ref.Array {
			return true, index(env)
		}
	}
	return false, nil
}

// formName consumes the name operand of a defining form.
func formName(fr *frame, form string) (string, error) {
	name, ok := fr.next()
	if !ok || name == "" {
		return "", malformedf("missing name after %v", form)
	}
	if _, isNum := parseNumber(name); isNum {
		return "", malformedf("cannot use number %v as a name after %v", name, form)
	}
	return name, nil
}

// : NAME body... ;
func (it *Interp) define(env *Env, fr *frame) error {
	name, err := formName(fr, ":")
	if err != nil {
		return err
	}
	if name == ";" {
		return malformedf("missing name after :")
	}
	body, ok := fr.until(";")
	if !ok {
		return malformedf("nonterminated definition of %v, missing ;", name)
	}
	env.Define(name, body)
	tracer().Infof("defined %v", Word{Name: name, Body: body})
	return nil
}

// ." text... text"
func (it *Interp) print(fr *frame) error {
	var parts []string
	for tok, ok := fr.next(); ok; tok, ok = fr.next() {
		if strings.HasSuffix(tok, `"`) {
			parts = append(parts, strings.TrimSuffix(tok, `"`))
			_, err := io.WriteString(it.out, strings.Join(parts, " "))
			return err
		}
		parts = append(parts, tok)
	}
	return malformedf("nonterminated string")
}

// if yes... [else no...] then
func (it *Interp) conditional(ctx context.Context, env *Env, fr *frame) error {
	cond, err := env.Pop("empty stack for condition in if")
	if err != nil {
		return err
	}
	body, ok := fr.block("if", "then")
	if !ok {
		return malformedf("nonterminated if, missing then")
	}
	yes, no, hasElse := splitElse(body)
	if len(yes) == 0 {
		return malformedf("empty statement for then clause")
	}
	if hasElse && len(no) == 0 {
		return malformedf("empty statement for then clause after else")
	}
	if cond != 0 {
		return it.call(ctx, env, yes)
	}
	if hasElse {
		return it.call(ctx, env, no)
	}
	return nil
}

// splitElse divides an if body at its own else, ignoring any else that
// belongs to a nested if.
func splitElse(body []string) (yes, no []string, hasElse bool) {
	depth := 0
	for i, tok := range body {
		switch strings.TrimSpace(tok) {
		case "if":
			depth++
		case "then":
			depth--
		case "else":
			if depth == 0 {
				return body[:i], body[i+1:], true
			}
		}
	}
	return body, nil, false
}

// start end do body... loop
func (it *Interp) loop(ctx context.Context, env *Env, fr *frame) error {
	body, ok := fr.block("do", "loop")
	if !ok {
		return malformedf("nonterminated do, missing loop")
	}
	if len(body) == 0 {
		return malformedf("empty loop body")
	}
	if err := env.need(1, "empty stack for end of do loop"); err != nil {
		return err
	}
	if err := env.need(2, "empty stack for start of do loop"); err != nil {
		return err
	}
	end := env.pop()
	start := env.pop()

	outer, inLoop := env.Register("i")
	defer saveRegister(env, "i")()
	defer saveRegister(env, "j")()
	if inLoop {
		env.SetRegister("j", outer)
	}

	for i := start; i < end; i++ {
		env.SetRegister("i", i)
		if err := it.call(ctx, env, body); err != nil {
			return err
		}
	}
	return nil
}

// saveRegister returns a func that restores the named register to its
// current state.
func saveRegister(env *Env, name string) func() {
	if val, ok := env.Register(name); ok {
		return func() { env.SetRegister(name, val) }
	}
	return func() { env.ClearRegister(name) }
}

// variable NAME
func declareVariable(env *Env, fr *frame) error {
	name, err := formName(fr, "variable")
	if err != nil {
		return err
	}
	if err := env.DeclareVariable(name); err != nil {
		return err
	}
	env.PushRef(Ref{Name: name})
	return nil
}

// value constant NAME
func defineConstant(env *Env, fr *frame) error {
	name, err := formName(fr, "constant")
	if err != nil {
		return err
	}
	val, err := env.Pop(fmt.Sprintf("empty stack to set constant %v", name))
	if err != nil {
		return err
	}
	env.DefineConstant(name, val)
	return nil
}

func noReference(mess string) error { return evalError{ErrNoReference, mess} }

// ref @
func fetch(env *Env) error {
	ref, ok := env.PopRef()
	if !ok {
		return noReference("no variable reference found to get value")
	}
	addr, err := env.refAddr(ref)
	if err != nil {
		return err
	}
	val, err := env.load(addr)
	if err != nil {
		return err
	}
	env.Push(val)
	return nil
}

// value ref !
func store(env *Env) error {
	ref, ok := env.PopRef()
	if !ok {
		return noReference("no variable reference found to set value")
	}
	addr, err := env.refAddr(ref)
	if err != nil {
		return err
	}
	val, err := env.Pop(fmt.Sprintf("empty stack to set value of %v", ref))
	if err != nil {
		return err
	}
	return env.stor(addr, val)
}

// length ref allot
func allot(env *Env) error {
	ref, ok := env.PeekRef()
	if !ok {
		return noReference("no variable found to allocate as an array")
	}
	length, err := env.Pop("empty stack to allocate array")
	if err != nil {
		return err
	}
	env.PopRef()
	if ref.Array {
		return storagef("%v is already an array", ref.Name)
	}
	return env.Allot(ref.Name, length)
}

// arrayref offset +
func index(env *Env) error {
	off, err := env.Pop("empty stack to set slot index of array")
	if err != nil {
		return err
	}
	env.SetRefIndex(off)
	return nil
}
