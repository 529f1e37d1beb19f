package compiler

import (
	"fmt"

	"github.com/hobbyl-lang/hobbyl/lang/lexer"
	"github.com/hobbyl-lang/hobbyl/lang/token"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

// parser drives the token stream shared by every Compiler frame in a
// single compilation (spec §4.G: one Parser, a stack of Compiler records).
// Error recovery (panicMode/synchronize) lives here because it is a
// property of the token stream, not of any one function being compiled.
type parser struct {
	lex *lexer.Lexer
	heap *value.Heap

	current  lexer.Token
	previous lexer.Token

	hadError   bool
	panicMode  bool
	errs       []error
}

func newParser(src []byte, h *value.Heap) *parser {
	p := &parser{lex: lexer.New(src), heap: h}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lex.Next()
		if p.current.Kind != token.ILLEGAL {
			break
		}
		p.errorAtCurrent(p.current.Error)
	}
}

func (p *parser) check(k token.Token) bool { return p.current.Kind == k }

func (p *parser) match(k token.Token) bool {
	if !p.check(k) {
		return false
	}
	p.advance()
	return true
}

func (p *parser) consume(k token.Token, msg string) {
	if p.current.Kind == k {
		p.advance()
		return
	}
	p.errorAtCurrent(msg)
}

func (p *parser) errorAtCurrent(msg string) { p.errorAt(p.current, msg) }
func (p *parser) error(msg string)          { p.errorAt(p.previous, msg) }

func (p *parser) errorAt(tok lexer.Token, msg string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	where := "end"
	if tok.Kind != token.EOF {
		where = "'" + tok.Text + "'"
	}
	p.errs = append(p.errs, fmt.Errorf("%s Error at %s: %s", token.Position{Line: tok.Line}, where, msg))
}

// synchronize discards tokens until it finds a statement boundary, so that
// a single syntax error doesn't cascade into a wall of spurious ones (spec
// §4.G "Error recovery").
func (p *parser) synchronize() {
	p.panicMode = false
	for p.current.Kind != token.EOF {
		if p.previous.Kind == token.SEMI {
			return
		}
		switch p.current.Kind {
		case token.STRUCT, token.ENUM, token.FUNC, token.VAR, token.FOR,
			token.IF, token.WHILE, token.LOOP, token.RETURN:
			return
		}
		p.advance()
	}
}
