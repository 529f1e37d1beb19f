package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hobbyl-lang/hobbyl/lang/lexer"
	"github.com/hobbyl-lang/hobbyl/lang/token"
)

func scanAll(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New([]byte(src))
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, `+ += - -= * *= ** **= / /= % %= .. ..= . : , ; ( ) { } [ ] = == ! != < <= > >= && || =>`)
	want := []token.Token{
		token.PLUS, token.PLUS_EQ, token.MINUS, token.MINUS_EQ,
		token.STAR, token.STAR_EQ, token.STARSTAR, token.STARSTAR_EQ,
		token.SLASH, token.SLASH_EQ, token.PERCENT, token.PERCENT_EQ,
		token.DOTDOT, token.DOTDOT_EQ, token.DOT, token.COLON, token.COMMA, token.SEMI,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.LBRACK, token.RBRACK,
		token.EQ, token.EQL, token.BANG, token.NEQ, token.LT, token.LE, token.GT, token.GE,
		token.AND_AND, token.OR_OR, token.ARROW, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, k := range want {
		require.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestLexerKeywordsVsIdentifiers(t *testing.T) {
	toks := scanAll(t, `var whileFoo while`)
	require.Equal(t, token.VAR, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind, "whileFoo must not be mistaken for the while keyword")
	require.Equal(t, token.WHILE, toks[2].Kind)
}

func TestLexerNumbers(t *testing.T) {
	toks := scanAll(t, `123 1.5 0`)
	for i, want := range []string{"123", "1.5", "0"} {
		require.Equal(t, token.NUMBER, toks[i].Kind)
		require.Equal(t, want, toks[i].Text)
	}
}

func TestLexerStrings(t *testing.T) {
	toks := scanAll(t, `"foo" 'bar'`)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "foo", toks[0].Text)
	require.Equal(t, token.STRING, toks[1].Kind)
	require.Equal(t, "bar", toks[1].Text)
}

func TestLexerUnterminatedString(t *testing.T) {
	toks := scanAll(t, `"unterminated`)
	require.Equal(t, token.ILLEGAL, toks[0].Kind)
	require.NotEmpty(t, toks[0].Error)
}

func TestLexerLineTracking(t *testing.T) {
	toks := scanAll(t, "var a\n= 1;\n")
	require.Equal(t, 1, toks[0].Line) // var
	require.Equal(t, 1, toks[1].Line) // a
	require.Equal(t, 2, toks[2].Line) // =
}

func TestLexerSkipsLineComments(t *testing.T) {
	toks := scanAll(t, "var a; // trailing comment\nvar b;")
	require.Equal(t, token.VAR, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, token.SEMI, toks[2].Kind)
	require.Equal(t, token.VAR, toks[3].Kind)
}
