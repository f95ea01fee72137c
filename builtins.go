package main

import (
	"fmt"
	"io"
	"strconv"
)

// A builtin is a primitive operator over the environment, writing any output
// to out. Builtins check their operands before touching the stack, so a
// failed builtin leaves the stack as it found it.
type builtin func(env *Env, out io.Writer) error

// builtins is the fixed table of primitive operators, by name.
var builtins = map[string]builtin{
	// Arithmetic pops x then y and pushes y op x.
	"+":   binaryOp("+", func(x, y int32) (int32, error) { return y + x, nil }),
	"-":   binaryOp("-", func(x, y int32) (int32, error) { return y - x, nil }),
	"*":   binaryOp("*", func(x, y int32) (int32, error) { return y * x, nil }),
	"/":   binaryOp("/", divide),
	"mod": binaryOp("mod", modulus),

	// Logic is bitwise.
	"and":    binaryOp("and", func(x, y int32) (int32, error) { return y & x, nil }),
	"or":     binaryOp("or", func(x, y int32) (int32, error) { return y | x, nil }),
	"invert": invert,

	// Comparisons push -1 for true and 0 for false.
	"=":  compareOp("=", func(x, y int32) bool { return y == x }),
	"!=": compareOp("!=", func(x, y int32) bool { return y != x }),
	"<":  compareOp("<", func(x, y int32) bool { return y < x }),
	">":  compareOp(">", func(x, y int32) bool { return y > x }),
	"<=": compareOp("<=", func(x, y int32) bool { return y <= x }),
	">=": compareOp(">=", func(x, y int32) bool { return y >= x }),

	"dup":  dup,
	"drop": drop,
	"swap": swap,
	"over": over,
	"rot":  rot,

	".":    dot,
	"emit": emit,
	"cr":   cr,
	"p":    printStack,
	"d":    printWords,
	"v":    printVars,
}

// pop removes the top of stack, the caller having checked its depth.
func (env *Env) pop() int32 {
	i := len(env.stack) - 1
	val := env.stack[i]
	env.stack = env.stack[:i]
	return val
}

func needArgs(env *Env, name string, n int) error {
	if have := env.Depth(); have < n {
		return underflowError(fmt.Sprintf("empty stack: %v needs %v, have %v", name, plural(n, "argument"), have))
	}
	return nil
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func binaryOp(name string, op func(x, y int32) (int32, error)) builtin {
	return func(env *Env, _ io.Writer) error {
		if err := needArgs(env, name, 2); err != nil {
			return err
		}
		n := len(env.stack)
		val, err := op(env.stack[n-1], env.stack[n-2])
		if err != nil {
			return err
		}
		env.stack = env.stack[:n-2]
		env.Push(val)
		return nil
	}
}

func compareOp(name string, op func(x, y int32) bool) builtin {
	return binaryOp(name, func(x, y int32) (int32, error) {
		return boolInt(op(x, y)), nil
	})
}

func boolInt(b bool) int32 {
	if b {
		return -1
	}
	return 0
}

func divide(x, y int32) (int32, error) {
	if x == 0 {
		return 0, evalError{ErrDivideByZero, fmt.Sprintf("division by zero: %v / 0", y)}
	}
	return y / x, nil
}

func modulus(x, y int32) (int32, error) {
	if x == 0 {
		return 0, evalError{ErrDivideByZero, fmt.Sprintf("division by zero: %v mod 0", y)}
	}
	return y % x, nil
}

func invert(env *Env, _ io.Writer) error {
	if err := needArgs(env, "invert", 1); err != nil {
		return err
	}
	env.Push(^env.pop())
	return nil
}

func dup(env *Env, _ io.Writer) error {
	if err := needArgs(env, "dup", 1); err != nil {
		return err
	}
	env.Push(env.stack[len(env.stack)-1])
	return nil
}

func drop(env *Env, _ io.Writer) error {
	if err := needArgs(env, "drop", 1); err != nil {
		return err
	}
	env.pop()
	return nil
}

func swap(env *Env, _ io.Writer) error {
	if err := needArgs(env, "swap", 2); err != nil {
		return err
	}
	s := env.stack[len(env.stack)-2:]
	s[0], s[1] = s[1], s[0]
	return nil
}

func over(env *Env, _ io.Writer) error {
	if err := needArgs(env, "over", 2); err != nil {
		return err
	}
	env.Push(env.stack[len(env.stack)-2])
	return nil
}

// rot moves the third value to the top: a b c -- b c a
func rot(env *Env, _ io.Writer) error {
	if err := needArgs(env, "rot", 3); err != nil {
		return err
	}
	s := env.stack[len(env.stack)-3:]
	s[0], s[1], s[2] = s[1], s[2], s[0]
	return nil
}

func dot(env *Env, out io.Writer) error {
	if err := needArgs(env, ".", 1); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d ", env.pop())
	return err
}

// emit writes the low byte of the top of stack.
func emit(env *Env, out io.Writer) error {
	if err := needArgs(env, "emit", 1); err != nil {
		return err
	}
	_, err := out.Write([]byte{byte(env.pop())})
	return err
}

func cr(_ *Env, out io.Writer) error {
	_, err := io.WriteString(out, "\n")
	return err
}

func printStack(env *Env, out io.Writer) error {
	return envDumper{env: env, out: out}.dumpStack()
}

func printWords(env *Env, out io.Writer) error {
	return envDumper{env: env, out: out}.dumpWords()
}

func printVars(env *Env, out io.Writer) error {
	return envDumper{env: env, out: out}.dumpVars()
}
