package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenString(t *testing.T) {
	for tok := Token(0); tok < maxToken; tok++ {
		require.NotEqual(t, "", tok.String(), "token %d missing a string form", tok)
	}
}

func TestKeywordsRoundTrip(t *testing.T) {
	for text, tok := range Keywords {
		require.Equal(t, text, tok.String())
	}
}

func TestPositionString(t *testing.T) {
	require.Equal(t, "[line 12]", Position{Line: 12}.String())
}
