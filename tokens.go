package main

import (
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const tokWord = iota

var words struct {
	sync.Once
	*lexmachine.Lexer
}

// wordLexer compiles, once, a DFA that splits text on runs of ASCII space.
func wordLexer() *lexmachine.Lexer {
	words.Do(func() {
		lex := lexmachine.NewLexer()
		lex.Add([]byte(`[^ ]+`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return s.Token(tokWord, string(m.Bytes), m), nil
		})
		lex.Add([]byte(`[ ]+`), func(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
			return nil, nil
		})
		if err := lex.Compile(); err != nil {
			panic(err)
		}
		words.Lexer = lex
	})
	return words.Lexer
}

// Tokenize splits program into its space separated tokens, in order.
// Surrounding whitespace, like a trailing line feed, is trimmed from each
// token, and any token left empty is dropped.
func Tokenize(program string) []string {
	scan, err := wordLexer().Scanner([]byte(program))
	if err != nil {
		tracer().Errorf("tokenize: %v", err)
		return nil
	}
	var toks []string
	for tok, err, eof := scan.Next(); !eof; tok, err, eof = scan.Next() {
		if ui, is := err.(*machines.UnconsumedInput); is {
			scan.TC = ui.FailTC
			continue
		} else if err != nil {
			tracer().Errorf("tokenize: %v", err)
			break
		}
		lexeme := strings.TrimSpace(tok.(*lexmachine.Token).Value.(string))
		if lexeme != "" {
			toks = append(toks, lexeme)
		}
	}
	return toks
}
