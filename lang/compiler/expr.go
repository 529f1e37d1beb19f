package compiler

import (
	"strconv"

	"github.com/hobbyl-lang/hobbyl/lang/token"
	"github.com/hobbyl-lang/hobbyl/lang/value"
)

func (c *Compiler) grouping(canAssign bool) {
	c.expression()
	c.p.consume(token.RPAREN, "expect ')' after expression")
}

func (c *Compiler) number(canAssign bool) {
	n, err := strconv.ParseFloat(c.p.previous.Text, 64)
	if err != nil {
		c.p.error("invalid number literal")
		return
	}
	c.emitConstant(value.Number(n))
}

func (c *Compiler) string(canAssign bool) {
	s := c.p.heap.CopyString([]byte(c.p.previous.Text))
	c.emitConstant(value.FromObj(s))
}

func (c *Compiler) literal(canAssign bool) {
	switch c.p.previous.Kind {
	case token.TRUE:
		c.emitOp(OpTrue)
	case token.FALSE:
		c.emitOp(OpFalse)
	case token.NIL:
		c.emitOp(OpNil)
	}
}

func (c *Compiler) unary(canAssign bool) {
	op := c.p.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch op {
	case token.MINUS:
		c.emitOp(OpNegate)
	case token.BANG:
		c.emitOp(OpNot)
	}
}

func (c *Compiler) binary(canAssign bool) {
	op := c.p.previous.Kind
	r := getRule(op)
	// Left-associative at prec+1, except `**` which is right-associative
	// by parsing its right operand at the same level as its own
	// precedence (spec §4.G).
	next := r.prec + 1
	if op == token.STARSTAR {
		next = r.prec
	}
	c.parsePrecedence(next)

	switch op {
	case token.PLUS:
		c.emitOp(OpAdd)
	case token.MINUS:
		c.emitOp(OpSubtract)
	case token.STAR:
		c.emitOp(OpMultiply)
	case token.SLASH:
		c.emitOp(OpDivide)
	case token.PERCENT:
		c.emitOp(OpModulo)
	case token.STARSTAR:
		c.emitOp(OpPow)
	case token.DOTDOT:
		c.emitOp(OpConcat)
	case token.EQL:
		c.emitOp(OpEqual)
	case token.NEQ:
		c.emitOp(OpNotEqual)
	case token.GT:
		c.emitOp(OpGreater)
	case token.GE:
		c.emitOp(OpGreaterEqual)
	case token.LT:
		c.emitOp(OpLess)
	case token.LE:
		c.emitOp(OpLessEqual)
	}
}

// and/or short-circuit via JUMP_IF_FALSE/JUMP with a POP on the
// non-short-circuiting side (spec §4.G).
func (c *Compiler) and(canAssign bool) {
	end := c.emitJump(OpJumpIfFalse)
	c.emitOp(OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(end)
}

func (c *Compiler) or(canAssign bool) {
	elseJump := c.emitJump(OpJumpIfFalse)
	end := c.emitJump(OpJump)
	c.patchJump(elseJump)
	c.emitOp(OpPop)
	c.parsePrecedence(PrecOr)
	c.patchJump(end)
}

func (c *Compiler) arrayLiteral(canAssign bool) {
	n := 0
	if !c.p.check(token.RBRACK) {
		for {
			c.expression()
			n++
			if n > 255 {
				c.p.error("too many elements in array literal")
			}
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RBRACK, "expect ']' after array elements")
	c.emitOpByte(OpArray, byte(n))
}

// subscript lowers `arr[i]`, `arr[i] = v`, and `arr[i] OP= v`. Since there
// is no stack-dup opcode, a compound assignment re-reads the array and
// index operands in place with GET_LOCAL at their absolute stack slots, so
// both the read and the write half can use them without re-evaluating
// either subexpression.
func (c *Compiler) subscript(canAssign bool) {
	c.expression()
	c.p.consume(token.RBRACK, "expect ']' after index")

	if !canAssign {
		c.emitOp(OpGetSubscript)
		return
	}

	if c.p.match(token.EQ) {
		c.expression()
		c.emitOp(OpSetSubscript)
		return
	}

	if op, ok := compoundOp(c.p.current.Kind); ok {
		c.p.advance()
		// arr and idx are already sitting at these absolute slots; GET_LOCAL
		// reads them without disturbing them, so after the arithmetic the
		// original pair is still directly beneath the new value — exactly
		// the arr, idx, v shape SET_SUBSCRIPT wants.
		arrSlot := c.stackTop - 2
		idxSlot := c.stackTop - 1

		c.emitOpByte(OpGetLocal, byte(arrSlot))
		c.emitOpByte(OpGetLocal, byte(idxSlot))
		c.emitOp(OpGetSubscript)
		c.expression()
		c.emitOp(op)
		c.emitOp(OpSetSubscript)
		return
	}

	c.emitOp(OpGetSubscript)
}

func (c *Compiler) call(canAssign bool) {
	argc := c.argumentList()
	c.emitOpByte(OpCall, argc)
}

func (c *Compiler) argumentList() byte {
	n := 0
	if !c.p.check(token.RPAREN) {
		for {
			c.expression()
			n++
			if n > 255 {
				c.p.error("can't have more than 255 arguments")
			}
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RPAREN, "expect ')' after arguments")
	return byte(n)
}

func (c *Compiler) dot(canAssign bool) {
	c.p.consume(token.IDENT, "expect property name after '.'")
	name := c.p.previous.Text
	nameIdx := c.identifierConstant(name)

	switch {
	case canAssign && c.p.match(token.EQ):
		c.expression()
		c.emitOpByte(OpSetProperty, nameIdx)
	case canAssign && c.matchCompoundAssign():
		op, _ := compoundOp(c.p.previous.Kind)
		c.emitOpByte(OpPushProperty, nameIdx)
		c.expression()
		c.emitOp(op)
		c.emitOpByte(OpSetProperty, nameIdx)
	case c.p.match(token.LPAREN):
		argc := c.argumentList()
		c.emitInvoke(nameIdx, argc)
	default:
		c.emitOpByte(OpGetProperty, nameIdx)
	}
}

func (c *Compiler) colon(canAssign bool) {
	c.p.consume(token.IDENT, "expect name after ':'")
	nameIdx := c.identifierConstant(c.p.previous.Text)
	c.emitOpByte(OpGetStatic, nameIdx)
}

func (c *Compiler) matchCompoundAssign() bool {
	if _, ok := compoundOp(c.p.current.Kind); ok {
		c.p.advance()
		return true
	}
	return false
}

// variable compiles an identifier reference. If immediately followed by
// `{`, it is instead a struct-literal initializer (spec §4.G "Struct
// initializer syntax") — unambiguous because every brace-taking control
// construct wraps its condition in parens first.
func (c *Compiler) variable(canAssign bool) {
	name := c.p.previous.Text
	if c.p.check(token.LBRACE) {
		c.structInit(name)
		return
	}
	c.namedVariable(name, canAssign)
}

func (c *Compiler) self(canAssign bool) {
	c.namedVariable("self", false)
}

func (c *Compiler) structInit(name string) {
	c.namedVariableGet(name)
	c.p.consume(token.LBRACE, "expect '{' after struct name")
	c.emitOp(OpInstance)
	if !c.p.check(token.RBRACE) {
		for {
			c.p.consume(token.DOT, "expect '.' before field name")
			c.p.consume(token.IDENT, "expect field name")
			field := c.p.previous.Text
			c.p.consume(token.EQ, "expect '=' after field name")
			c.expression()
			c.emitOpByte(OpInitProperty, c.identifierConstant(field))
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RBRACE, "expect '}' after struct initializer")
}

// namedVariableGet emits only the read side, used where the l-value
// itself is never written (struct-initializer target, `self`).
func (c *Compiler) namedVariableGet(name string) {
	if slot := c.resolveLocal(name); slot != -1 {
		c.emitOpByte(OpGetLocal, byte(slot))
		return
	}
	if up := c.resolveUpvalue(name); up != -1 {
		c.emitOpByte(OpGetUpvalue, byte(up))
		return
	}
	c.emitOpByte(OpGetGlobal, c.identifierConstant(name))
}

func (c *Compiler) namedVariable(name string, canAssign bool) {
	var getOp, setOp Op
	var arg byte

	if slot := c.resolveLocal(name); slot != -1 {
		getOp, setOp, arg = OpGetLocal, OpSetLocal, byte(slot)
	} else if up := c.resolveUpvalue(name); up != -1 {
		getOp, setOp, arg = OpGetUpvalue, OpSetUpvalue, byte(up)
	} else {
		idx := c.identifierConstant(name)
		getOp, setOp, arg = OpGetGlobal, OpSetGlobal, idx
	}

	switch {
	case canAssign && c.p.match(token.EQ):
		c.expression()
		c.emitOpByte(setOp, arg)
	case canAssign && c.matchCompoundAssign():
		op, _ := compoundOp(c.p.previous.Kind)
		c.emitOpByte(getOp, arg)
		c.expression()
		c.emitOp(op)
		c.emitOpByte(setOp, arg)
	default:
		c.emitOpByte(getOp, arg)
	}
}
