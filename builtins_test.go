package main

import (
	"testing"
)

func Test_builtins(t *testing.T) {
	forthTestCases{
		forthTest("add").withStack(2, 3).eval("+").expectStack(5),
		forthTest("sub").withStack(10, 3).eval("-").expectStack(7),
		forthTest("mul").withStack(6, -7).eval("*").expectStack(-42),
		forthTest("div").withStack(7, 2).eval("/").expectStack(3),
		forthTest("div truncates").withStack(-7, 2).eval("/").expectStack(-3),
		forthTest("mod").withStack(7, 3).eval("mod").expectStack(1),
		forthTest("mod sign").withStack(-7, 3).eval("mod").expectStack(-1),
		forthTest("add wraps").withStack(2147483647, 1).eval("+").expectStack(-2147483648),
		forthTest("mul wraps").withStack(65536, 65536).eval("*").expectStack(0),

		forthTest("div by zero").
			withStack(1, 0).
			eval("/").
			expectError(ErrDivideByZero).
			expectOutput("Error: division by zero: 1 / 0\n").
			expectStack(1, 0),
		forthTest("mod by zero").
			withStack(5, 0).
			eval("mod").
			expectError(ErrDivideByZero).
			expectOutput("Error: division by zero: 5 mod 0\n").
			expectStack(5, 0),

		forthTest("and").withStack(6, 3).eval("and").expectStack(2),
		forthTest("or").withStack(6, 3).eval("or").expectStack(7),
		forthTest("invert").withStack(5).eval("invert").expectStack(-6),
		forthTest("invert true").eval("0 invert").expectStack(-1),

		forthTest("eq").eval("3 3 = 3 4 =").expectStack(-1, 0),
		forthTest("ne").eval("3 3 != 3 4 !=").expectStack(0, -1),
		forthTest("lt").eval("1 2 < 2 1 < 2 2 <").expectStack(-1, 0, 0),
		forthTest("gt").eval("1 2 > 2 1 > 2 2 >").expectStack(0, -1, 0),
		forthTest("le").eval("1 2 <= 2 1 <= 2 2 <=").expectStack(-1, 0, -1),
		forthTest("ge").eval("1 2 >= 2 1 >= 2 2 >=").expectStack(0, -1, -1),

		forthTest("dup").withStack(1).eval("dup").expectStack(1, 1),
		forthTest("drop").withStack(1, 2).eval("drop").expectStack(1),
		forthTest("swap").withStack(1, 2).eval("swap").expectStack(2, 1),
		forthTest("over").withStack(1, 2).eval("over").expectStack(1, 2, 1),
		forthTest("rot").withStack(1, 2, 3).eval("rot").expectStack(2, 3, 1),
		forthTest("dup drop round trip").withStack(5).eval("dup drop").expectStack(5),
		forthTest("swap swap round trip").withStack(1, 2).eval("swap swap").expectStack(1, 2),
		forthTest("rot leaves the rest").withStack(9, 1, 2, 3).eval("rot").expectStack(9, 2, 3, 1),

		forthTest("dot").withStack(1, -2).eval(". .").expectOutput("-2 1 ").expectStack(),
		forthTest("emit").eval("72 emit 105 emit cr").expectOutput("Hi\n"),
		forthTest("emit low byte").eval("321 emit").expectOutput("A"),

		forthTest("print stack").
			withStack(1, 2).
			eval("p").
			expectOutput("stack: [1 2]\n").
			expectStack(1, 2),
		forthTest("print dictionary").
			eval(": sq dup * ;", ": cube dup sq * ;", "d").
			expectOutput(lines(
				"dictionary:",
				"  : cube dup sq * ;",
				"  : sq dup * ;",
			)),
		forthTest("print variables").
			eval("variable x 5 x !", "variable arr 2 allot 7 arr 1 + !", "10 constant ten", "v").
			expectOutput(lines(
				"variables:",
				"  arr = [0 7]",
				"  x = 5",
				"constants:",
				"  ten = 10",
			)),
		forthTest("print huge sparse array").
			eval("variable a 2147483647 allot", "v").
			expectOutput(lines(
				"variables:",
				"  a = [0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 ...] (2147483647 cells)",
				"constants:",
			)),
		forthTest("print array at the dump limit").
			eval("variable a 16 allot", "v").
			expectOutput(lines(
				"variables:",
				"  a = [0 0 0 0 0 0 0 0 0 0 0 0 0 0 0 0]",
				"constants:",
			)),
	}.run(t)
}

func Test_builtins_underflow(t *testing.T) {
	var cases forthTestCases
	for _, bt := range []struct {
		name  string
		stack []int32
		need  string
	}{
		{"+", nil, "2 arguments, have 0"},
		{"-", []int32{1}, "2 arguments, have 1"},
		{"*", nil, "2 arguments, have 0"},
		{"/", []int32{1}, "2 arguments, have 1"},
		{"mod", nil, "2 arguments, have 0"},
		{"and", nil, "2 arguments, have 0"},
		{"or", []int32{1}, "2 arguments, have 1"},
		{"=", nil, "2 arguments, have 0"},
		{"<", []int32{1}, "2 arguments, have 1"},
		{"invert", nil, "1 argument, have 0"},
		{"dup", nil, "1 argument, have 0"},
		{"drop", nil, "1 argument, have 0"},
		{"swap", []int32{1}, "2 arguments, have 1"},
		{"over", []int32{1}, "2 arguments, have 1"},
		{"rot", []int32{1, 2}, "3 arguments, have 2"},
		{".", nil, "1 argument, have 0"},
		{"emit", nil, "1 argument, have 0"},
	} {
		cases = append(cases, forthTest(bt.name).
			withStack(bt.stack...).
			eval(bt.name).
			expectError(ErrStackUnderflow).
			expectOutput("Error: empty stack: "+bt.name+" needs "+bt.need+"\n").
			expectStack(bt.stack...))
	}
	cases.run(t)
}
