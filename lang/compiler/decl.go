package compiler

import "github.com/hobbyl-lang/hobbyl/lang/token"

// declaration compiles one top-level or block-level item and resynchronizes
// past the next statement boundary if it produced an error (spec §4.G
// "Error recovery").
func (c *Compiler) declaration() {
	switch {
	case c.p.match(token.VAR):
		c.varDeclaration()
	case c.p.match(token.FUNC):
		c.funcDeclaration()
	case c.p.match(token.STRUCT):
		c.structDeclaration()
	case c.p.match(token.ENUM):
		c.enumDeclaration()
	default:
		c.statement()
	}

	if c.p.panicMode {
		c.p.synchronize()
	}
}

// varDeclaration implements `varDecl := "var" IDENT ("=" expr)? ";"`: a
// global at scope depth 0 (DEFINE_GLOBAL), a Local everywhere else.
func (c *Compiler) varDeclaration() {
	c.p.consume(token.IDENT, "expect variable name")
	name := c.p.previous.Text

	c.declareVariable(name)

	if c.p.match(token.EQ) {
		c.expression()
	} else {
		c.emitOp(OpNil)
	}
	c.p.consume(token.SEMI, "expect ';' after variable declaration")

	if c.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(OpDefineGlobal, c.identifierConstant(name))
}

// funcDeclaration implements `funcDecl := "func" IDENT funcBody`. The
// binding itself is declared before the body compiles so the function can
// recurse.
func (c *Compiler) funcDeclaration() {
	c.p.consume(token.IDENT, "expect function name")
	name := c.p.previous.Text
	c.declareVariable(name)
	if c.scopeDepth > 0 {
		c.markInitialized()
	}

	c.funcBody(name, TypeFunction)

	if c.scopeDepth > 0 {
		// The CLOSURE just emitted pushes straight into the local slot
		// declareVariable reserved above, same as a `var x = expr`
		// initializer landing in x's slot.
		return
	}
	c.emitOpByte(OpDefineGlobal, c.identifierConstant(name))
}

// funcBody compiles a nested Compiler frame for one function/method body
// and emits the resulting closure into c's bytecode (spec §4.G
// "funcBody"). Static methods use ftype TypeFunction, per spec, same as a
// plain function.
func (c *Compiler) funcBody(name string, ftype FuncType) {
	sub := newCompiler(c.p, c, ftype, name)
	sub.beginScope()

	sub.p.consume(token.LPAREN, "expect '(' after function name")
	if !sub.p.check(token.RPAREN) {
		for {
			sub.function.Arity++
			if sub.function.Arity > 255 {
				sub.p.errorAtCurrent("can't have more than 255 parameters")
			}
			sub.p.consume(token.IDENT, "expect parameter name")
			sub.declareVariable(sub.p.previous.Text)
			sub.markInitialized()
			sub.stackTop++ // the call protocol places this argument before the body runs
			if !sub.p.match(token.COMMA) {
				break
			}
		}
	}
	sub.p.consume(token.RPAREN, "expect ')' after parameters")

	if sub.p.match(token.ARROW) {
		sub.expression()
		sub.p.consume(token.SEMI, "expect ';' after expression body")
		sub.emitOp(OpReturn)
	} else {
		sub.p.consume(token.LBRACE, "expect '{' before function body")
		sub.block()
		sub.emitReturnImplicit()
	}

	c.emitClosure(sub.function, sub.upvalues)
}

// structDeclaration implements `structDecl := "struct" IDENT "{"
// structMember* "}"`, only legal at top level (spec §4.G "Declarations
// allowed at top level only").
func (c *Compiler) structDeclaration() {
	if c.scopeDepth != 0 {
		c.p.error("structs may only be declared at top level")
	}
	c.p.consume(token.IDENT, "expect struct name")
	name := c.p.previous.Text
	nameIdx := c.identifierConstant(name)

	c.emitOpByte(OpStruct, nameIdx)

	c.p.consume(token.LBRACE, "expect '{' before struct body")
	for !c.p.check(token.RBRACE) && !c.p.check(token.EOF) {
		switch {
		case c.p.match(token.VAR):
			c.p.consume(token.IDENT, "expect field name")
			fieldName := c.p.previous.Text
			if c.p.match(token.EQ) {
				c.expression()
			} else {
				c.emitOp(OpNil)
			}
			c.p.consume(token.SEMI, "expect ';' after field declaration")
			c.emitOpByte(OpStructField, c.identifierConstant(fieldName))
		case c.p.match(token.STATIC):
			c.p.consume(token.FUNC, "expect 'func' after 'static'")
			c.p.consume(token.IDENT, "expect method name")
			methodName := c.p.previous.Text
			c.funcBody(methodName, TypeFunction)
			c.emitOpByte(OpStaticMethod, c.identifierConstant(methodName))
		case c.p.match(token.FUNC):
			c.p.consume(token.IDENT, "expect method name")
			methodName := c.p.previous.Text
			c.funcBody(methodName, TypeMethod)
			c.emitOpByte(OpMethod, c.identifierConstant(methodName))
		default:
			c.p.errorAtCurrent("expect field or method declaration")
			c.p.advance()
		}
	}
	c.p.consume(token.RBRACE, "expect '}' after struct body")

	c.emitOpByte(OpDefineGlobal, nameIdx)
}

// enumDeclaration implements `enumDecl := "enum" IDENT "{" (IDENT (","
// IDENT)*)? "}"`, value(i) == i in declaration order (spec §8 law L3).
func (c *Compiler) enumDeclaration() {
	if c.scopeDepth != 0 {
		c.p.error("enums may only be declared at top level")
	}
	c.p.consume(token.IDENT, "expect enum name")
	name := c.p.previous.Text
	nameIdx := c.identifierConstant(name)

	c.emitOpByte(OpEnum, nameIdx)

	c.p.consume(token.LBRACE, "expect '{' before enum body")
	i := 0
	if !c.p.check(token.RBRACE) {
		for {
			c.p.consume(token.IDENT, "expect enum value name")
			if i >= 255 {
				c.p.error("too many enum values")
			}
			valueIdx := c.identifierConstant(c.p.previous.Text)
			c.emitByte(byte(OpEnumValue))
			c.emitByte(valueIdx)
			c.emitByte(byte(i))
			i++
			if !c.p.match(token.COMMA) {
				break
			}
		}
	}
	c.p.consume(token.RBRACE, "expect '}' after enum body")

	c.emitOpByte(OpDefineGlobal, nameIdx)
}
