package main

import (
	"fmt"
	"io"
	"strings"
)

// dumpArrayLimit bounds how many leading cells of each array get dumped.
const dumpArrayLimit = 16

type envDumper struct {
	env *Env
	out io.Writer
}

func (dump envDumper) dump() error {
	fmt.Fprintf(dump.out, "# Env Dump\n")
	for _, section := range []func() error{
		dump.dumpStack,
		dump.dumpRefs,
		dump.dumpRegs,
		dump.dumpWords,
		dump.dumpVars,
	} {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

func (dump envDumper) dumpStack() error {
	_, err := fmt.Fprintf(dump.out, "stack: %v\n", dump.env.stack)
	return err
}

func (dump envDumper) dumpRefs() error {
	_, err := fmt.Fprintf(dump.out, "refs: %v\n", dump.env.Refs())
	return err
}

func (dump envDumper) dumpRegs() error {
	if dump.env.regs.Empty() {
		return nil
	}
	return dump.dumpBindings("registers", bindings(dump.env.regs))
}

func (dump envDumper) dumpWords() error {
	if _, err := fmt.Fprintf(dump.out, "dictionary:\n"); err != nil {
		return err
	}
	for _, w := range dump.env.Words() {
		if _, err := fmt.Fprintf(dump.out, "  %v\n", w); err != nil {
			return err
		}
	}
	return nil
}

func (dump envDumper) dumpVars() error {
	if _, err := fmt.Fprintf(dump.out, "variables:\n"); err != nil {
		return err
	}
	for _, info := range dump.env.Variables() {
		vals, err := dump.env.Head(info.Name, dumpArrayLimit)
		if err != nil {
			return err
		}
		switch {
		case !info.Array:
			_, err = fmt.Fprintf(dump.out, "  %v = %v\n", info.Name, vals[0])
		case info.Len > len(vals):
			head := strings.TrimSuffix(fmt.Sprint(vals), "]")
			_, err = fmt.Fprintf(dump.out, "  %v = %v ...] (%v cells)\n", info.Name, head, info.Len)
		default:
			_, err = fmt.Fprintf(dump.out, "  %v = %v\n", info.Name, vals)
		}
		if err != nil {
			return err
		}
	}
	return dump.dumpBindings("constants", bindings(dump.env.consts))
}

func (dump envDumper) dumpBindings(title string, bs []binding) error {
	if _, err := fmt.Fprintf(dump.out, "%v:\n", title); err != nil {
		return err
	}
	for _, b := range bs {
		if _, err := fmt.Fprintf(dump.out, "  %v = %v\n", b.name, b.val); err != nil {
			return err
		}
	}
	return nil
}
