/* Package main: goforth -- a small Forth

Programs are lines of space separated tokens, evaluated one at a time against
an environment that outlives any single program: an operand stack of 32-bit
integers, a dictionary of words, variables (scalars, or flat arrays), named
constants, and the registers that count loop iterations.

Each token is resolved by the first of these that applies:

	1. special forms, which consume further tokens:
	       : NAME body... ;               define a word
	       ." text"                       print text
	       if yes... [else no...] then    branch on a popped condition
	       start end do body... loop      count i from start up to end
	       variable NAME                  declare a scalar, push its reference
	       value constant NAME            bind a constant
	       ref @   value ref !            read or write through a reference
	       n cells   n ref allot          size a variable as an array of n
	       arrayref offset +              address an array slot
	2. registers, like i (and j in nested loops)
	3. builtins: + - * / mod and or invert = != < > <= >= dup drop swap
	   over rot . emit cr, and the dumps p d v
	4. words, whose bodies are evaluated afresh on every call
	5. integer literals
	6. constants
	7. variables, which push a reference rather than a value

Anything else is an invalid token.

A failure is reported as "Error: ..." and halts only the innermost evaluation:
the token sequence of a word, branch, or loop body that failed stops, but the
caller carries on with its next token. Nothing is rolled back.

Section 1: see env.go and storage.go

Section 2: see eval.go and forms.go

Section 3: see session.go and main.go

*/
package main
