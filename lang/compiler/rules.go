package compiler

import "github.com/hobbyl-lang/hobbyl/lang/token"

// Precedence levels, low to high (spec §4.G "Pratt parser table").
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecExponent
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix parseFn
	infix  parseFn
	prec   Precedence
}

var rules [token.NIL + 1]parseRule

func rule(k token.Token, prefix, infix parseFn, prec Precedence) {
	rules[k] = parseRule{prefix: prefix, infix: infix, prec: prec}
}

func init() {
	rule(token.LPAREN, (*Compiler).grouping, (*Compiler).call, PrecCall)
	rule(token.LBRACK, (*Compiler).arrayLiteral, (*Compiler).subscript, PrecCall)
	rule(token.DOT, nil, (*Compiler).dot, PrecCall)
	rule(token.COLON, nil, (*Compiler).colon, PrecCall)

	rule(token.MINUS, (*Compiler).unary, (*Compiler).binary, PrecTerm)
	rule(token.PLUS, nil, (*Compiler).binary, PrecTerm)
	rule(token.DOTDOT, nil, (*Compiler).binary, PrecTerm)
	rule(token.STAR, nil, (*Compiler).binary, PrecFactor)
	rule(token.SLASH, nil, (*Compiler).binary, PrecFactor)
	rule(token.PERCENT, nil, (*Compiler).binary, PrecFactor)
	rule(token.STARSTAR, nil, (*Compiler).binary, PrecExponent)

	rule(token.BANG, (*Compiler).unary, nil, PrecNone)
	rule(token.NEQ, nil, (*Compiler).binary, PrecEquality)
	rule(token.EQL, nil, (*Compiler).binary, PrecEquality)
	rule(token.GT, nil, (*Compiler).binary, PrecComparison)
	rule(token.GE, nil, (*Compiler).binary, PrecComparison)
	rule(token.LT, nil, (*Compiler).binary, PrecComparison)
	rule(token.LE, nil, (*Compiler).binary, PrecComparison)

	rule(token.AND_AND, nil, (*Compiler).and, PrecAnd)
	rule(token.OR_OR, nil, (*Compiler).or, PrecOr)

	rule(token.IDENT, (*Compiler).variable, nil, PrecNone)
	rule(token.SELF, (*Compiler).self, nil, PrecNone)
	rule(token.NUMBER, (*Compiler).number, nil, PrecNone)
	rule(token.STRING, (*Compiler).string, nil, PrecNone)
	rule(token.TRUE, (*Compiler).literal, nil, PrecNone)
	rule(token.FALSE, (*Compiler).literal, nil, PrecNone)
	rule(token.NIL, (*Compiler).literal, nil, PrecNone)
}

func getRule(k token.Token) *parseRule { return &rules[k] }

func (c *Compiler) expression() { c.parsePrecedence(PrecAssignment) }

func (c *Compiler) parsePrecedence(prec Precedence) {
	c.p.advance()
	prefix := getRule(c.p.previous.Kind).prefix
	if prefix == nil {
		c.p.error("expect expression")
		return
	}
	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.p.current.Kind).prec {
		c.p.advance()
		infix := getRule(c.p.previous.Kind).infix
		infix(c, canAssign)
	}

	if canAssign && c.matchAssignToken() {
		c.p.error("invalid assignment target")
	}
}

// matchAssignToken reports (without consuming further) whether an
// assignment operator sits unconsumed at the current precedence level,
// meaning the preceding expression was not a valid l-value.
func (c *Compiler) matchAssignToken() bool {
	switch c.p.current.Kind {
	case token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.STAR_EQ, token.SLASH_EQ,
		token.PERCENT_EQ, token.STARSTAR_EQ, token.DOTDOT_EQ:
		return true
	}
	return false
}

// compoundOp maps a compound-assignment token to the opcode that combines
// the current value with the right-hand side (spec §4.G "Compound
// assignment").
func compoundOp(k token.Token) (Op, bool) {
	switch k {
	case token.PLUS_EQ:
		return OpAdd, true
	case token.MINUS_EQ:
		return OpSubtract, true
	case token.STAR_EQ:
		return OpMultiply, true
	case token.SLASH_EQ:
		return OpDivide, true
	case token.PERCENT_EQ:
		return OpModulo, true
	case token.STARSTAR_EQ:
		return OpPow, true
	case token.DOTDOT_EQ:
		return OpConcat, true
	}
	return 0, false
}
