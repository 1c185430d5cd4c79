package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_IdentifierVsBareword(t *testing.T) {
	l, err := NewLexer("field1: value")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, TokenIdentifier, tok.Type)
	assert.Equal(t, "field1", tok.Value)

	tok = l.Next()
	assert.Equal(t, TokenColon, tok.Type)

	tok = l.Next()
	assert.Equal(t, TokenString, tok.Type)
	assert.Equal(t, "value", tok.Value)

	tok = l.Next()
	assert.Equal(t, TokenEOF, tok.Type)
}

func TestLexer_BarewordStopsBeforeHyphen(t *testing.T) {
	l, err := NewLexer("value2-")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, TokenString, tok.Type)
	assert.Equal(t, "value2", tok.Value)

	tok = l.Next()
	assert.Equal(t, TokenMinus, tok.Type)
}

func TestLexer_QuotedStringEscaping(t *testing.T) {
	l, err := NewLexer(`"doctor""who"""`)
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, TokenQuotedString, tok.Type)
	assert.Equal(t, `doctor"who"`, tok.Value)
}

func TestLexer_UnterminatedQuotedStringIsSyntaxError(t *testing.T) {
	_, err := NewLexer(`"unterminated`)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindSyntaxError, cerr.Kind)
}

func TestLexer_GlimpseAndReset(t *testing.T) {
	l, err := NewLexer("a: 1, 2")
	require.NoError(t, err)

	start := l.Position()
	first := l.Glimpse(0)
	assert.Equal(t, TokenIdentifier, first.Type)

	second := l.Glimpse(1)
	assert.Equal(t, TokenColon, second.Type)

	l.Next()
	l.Next()
	l.Reset(start)
	assert.Equal(t, start, l.Position())
	assert.Equal(t, TokenIdentifier, l.Glimpse(0).Type)
}

func TestLexer_NumberTokens(t *testing.T) {
	l, err := NewLexer("10 10.5")
	require.NoError(t, err)

	tok := l.Next()
	assert.Equal(t, TokenInteger, tok.Type)
	assert.Equal(t, "10", tok.Value)

	tok = l.Next()
	assert.Equal(t, TokenFloat, tok.Type)
	assert.Equal(t, "10.5", tok.Value)
}
