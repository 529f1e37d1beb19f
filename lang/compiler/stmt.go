package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/hobbyl-lang/hobbyl/lang/token"
)

// statement implements `stmt := ifStmt | whileStmt | loopStmt | matchStmt |
// "break" ";" | "continue" ";" | "return" expr? ";" | block | exprStmt`.
func (c *Compiler) statement() {
	switch {
	case c.p.match(token.IF):
		c.ifStatement()
	case c.p.match(token.WHILE):
		c.whileStatement()
	case c.p.match(token.LOOP):
		c.loopStatement()
	case c.p.match(token.MATCH):
		c.matchStatement()
	case c.p.match(token.BREAK):
		c.breakStatement()
	case c.p.match(token.CONTINUE):
		c.continueStatement()
	case c.p.match(token.RETURN):
		c.returnStatement()
	case c.p.match(token.LBRACE):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

// block consumes declarations up to the closing `}` already anticipated by
// the caller (spec's `"{" decl* "}"`; the opening brace is consumed by
// whichever construct introduced the block).
func (c *Compiler) block() {
	for !c.p.check(token.RBRACE) && !c.p.check(token.EOF) {
		c.declaration()
	}
	c.p.consume(token.RBRACE, "expect '}' after block")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.p.consume(token.SEMI, "expect ';' after expression")
	c.emitOp(OpPop)
}

// ifStatement lowers `if (c) s [else s]` per spec §4.G "Control flow
// lowering": c; JUMP_IF_FALSE L1; POP; s; JUMP L2; L1: POP; [s;] L2:.
func (c *Compiler) ifStatement() {
	c.p.consume(token.LPAREN, "expect '(' after 'if'")
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after condition")

	thenJump := c.emitJump(OpJumpIfFalse)
	condDepth := c.stackTop
	c.emitOp(OpPop)
	c.statement()

	elseJump := c.emitJump(OpJump)
	c.patchJump(thenJump)
	c.stackTop = condDepth // the condition is still on the stack at L1
	c.emitOp(OpPop)

	if c.p.match(token.ELSE) {
		c.statement()
	}
	c.patchJump(elseJump)
}

// whileStatement lowers `while (c) s`: Ls: c; JUMP_IF_FALSE Le; POP; s;
// LOOP Ls; Le: POP.
func (c *Compiler) whileStatement() {
	loop := &loopCompiler{start: len(c.function.Code), scopeDepth: c.scopeDepth, enclosing: c.loop}
	c.loop = loop

	c.p.consume(token.LPAREN, "expect '(' after 'while'")
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after condition")

	exitJump := c.emitJump(OpJumpIfFalse)
	condDepth := c.stackTop
	c.emitOp(OpPop)
	c.statement()
	c.emitLoop(loop.start)

	c.patchJump(exitJump)
	c.stackTop = condDepth // the condition is still on the stack at Le
	c.emitOp(OpPop)

	c.patchBreaks(loop)
	c.loop = loop.enclosing
}

// loopStatement lowers `loop s`: Ls: s; LOOP Ls (an unconditional loop,
// exited only via break or return).
func (c *Compiler) loopStatement() {
	loop := &loopCompiler{start: len(c.function.Code), scopeDepth: c.scopeDepth, enclosing: c.loop}
	c.loop = loop

	c.statement()
	c.emitLoop(loop.start)

	c.patchBreaks(loop)
	c.loop = loop.enclosing
}

// patchBreaks rewrites every BREAK placeholder recorded against loop into a
// JUMP landing on the current bytecode position. The offsets are sorted
// first so patching always proceeds low-to-high through the function's code.
func (c *Compiler) patchBreaks(loop *loopCompiler) {
	slices.Sort(loop.breaks)
	for _, offset := range loop.breaks {
		c.function.Code[offset-1] = byte(OpJump)
		c.patchJump(offset)
	}
}

// matchStatement lowers `match (e) { case v1 => s1 ... [default => sD] }`
// per spec §4.G: e; per case: ev; INEQUALITY_JUMP skip; s; JUMP end; skip:
// ...; end: POP.
func (c *Compiler) matchStatement() {
	c.p.consume(token.LPAREN, "expect '(' after 'match'")
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after match expression")
	c.p.consume(token.LBRACE, "expect '{' before match body")

	var endJumps []int

	for c.p.check(token.CASE) || c.p.check(token.DEFAULT) {
		if c.p.match(token.DEFAULT) {
			c.p.consume(token.ARROW, "expect '=>' after 'default'")
			c.statement()
			break
		}
		c.p.consume(token.CASE, "expect 'case'")
		c.expression()
		c.p.consume(token.ARROW, "expect '=>' after case value")

		skip := c.emitJump(OpInequalityJump)
		c.statement()
		endJumps = append(endJumps, c.emitJump(OpJump))
		c.patchJump(skip)
	}

	c.p.consume(token.RBRACE, "expect '}' after match body")

	for _, j := range endJumps {
		c.patchJump(j)
	}
	c.emitOp(OpPop)
}

// breakStatement unwinds to the loop's scope depth and emits a BREAK
// placeholder, recorded for end-of-loop rewriting to JUMP (spec §4.G).
func (c *Compiler) breakStatement() {
	if c.loop == nil {
		c.p.error("'break' outside of a loop")
		c.p.consume(token.SEMI, "expect ';' after 'break'")
		return
	}
	c.unwindToLoop(c.loop)
	offset := c.emitJump(OpBreak)
	c.loop.breaks = append(c.loop.breaks, offset)
	c.p.consume(token.SEMI, "expect ';' after 'break'")
}

// continueStatement unwinds to the loop's scope depth and loops back to
// its start.
func (c *Compiler) continueStatement() {
	if c.loop == nil {
		c.p.error("'continue' outside of a loop")
		c.p.consume(token.SEMI, "expect ';' after 'continue'")
		return
	}
	c.unwindToLoop(c.loop)
	c.emitLoop(c.loop.start)
	c.p.consume(token.SEMI, "expect ';' after 'continue'")
}

// unwindToLoop emits one POP per non-captured local and one CLOSE_UPVALUE
// per captured local declared since the loop's own scope depth, without
// touching the compiler's own scope-tracking (the loop body's block()
// still owns popping them on its normal path).
func (c *Compiler) unwindToLoop(loop *loopCompiler) {
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].depth > loop.scopeDepth; i-- {
		if c.locals[i].captured {
			c.emitOp(OpCloseUpvalue)
		} else {
			c.emitOp(OpPop)
		}
	}
}

// returnStatement implements `"return" expr? ";"`; a bare `return` yields
// nil, matching a function falling off its body.
func (c *Compiler) returnStatement() {
	if c.p.match(token.SEMI) {
		c.emitOp(OpNil)
		c.emitOp(OpReturn)
		return
	}
	c.expression()
	c.p.consume(token.SEMI, "expect ';' after return value")
	c.emitOp(OpReturn)
}
