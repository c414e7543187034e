package stos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_NumbersAndWords(t *testing.T) {
	l := newLexer()
	l.Reset("42 -7 +3 dup DUP2")

	tok := l.Next()
	assert.Equal(t, TokNumber, tok.Kind)
	assert.Equal(t, Cell(42), tok.Value)

	tok = l.Next()
	assert.Equal(t, TokNumber, tok.Kind)
	assert.Equal(t, Cell(-7), tok.Value)

	tok = l.Next()
	assert.Equal(t, TokNumber, tok.Kind)
	assert.Equal(t, Cell(3), tok.Value)

	tok = l.Next()
	assert.Equal(t, TokWord, tok.Kind)
	assert.Equal(t, "dup", tok.Text)

	tok = l.Next()
	assert.Equal(t, TokWord, tok.Kind)
	assert.Equal(t, "DUP2", tok.Text)

	assert.Equal(t, TokEOE, l.Next().Kind)
}

func TestLexer_CharLiteral(t *testing.T) {
	l := newLexer()
	l.Reset("'A' 'z'")

	tok := l.Next()
	assert.Equal(t, TokNumber, tok.Kind)
	assert.Equal(t, Cell('A'), tok.Value)

	tok = l.Next()
	assert.Equal(t, TokNumber, tok.Kind)
	assert.Equal(t, Cell('z'), tok.Value)
}

func TestLexer_Reboot(t *testing.T) {
	l := newLexer()
	l.Reset("\x04")
	assert.Equal(t, TokReboot, l.Next().Kind)
}

func TestLexer_SignWithNoDigitsIsAWord(t *testing.T) {
	l := newLexer()
	l.Reset("- + -foo")

	tok := l.Next()
	assert.Equal(t, TokWord, tok.Kind)
	assert.Equal(t, "-", tok.Text)

	tok = l.Next()
	assert.Equal(t, TokWord, tok.Kind)
	assert.Equal(t, "+", tok.Text)

	tok = l.Next()
	assert.Equal(t, TokWord, tok.Kind)
	assert.Equal(t, "-foo", tok.Text)
}

func TestLexer_EmptyLineIsEOE(t *testing.T) {
	l := newLexer()
	l.Reset("   \t  ")
	assert.Equal(t, TokEOE, l.Next().Kind)
}

func TestLexer_ReadQuoted(t *testing.T) {
	l := newLexer()
	l.Reset(`S" hello world"`)

	tok := l.Next()
	require.Equal(t, TokWord, tok.Kind)
	require.Equal(t, `S"`, tok.Text)

	s, err := l.ReadQuoted()
	require.NoError(t, err)
	assert.Equal(t, "hello world", s)
	assert.Equal(t, TokEOE, l.Next().Kind)
}

func TestLexer_ReadQuotedUnterminated(t *testing.T) {
	l := newLexer()
	l.Reset(`S" no closing quote`)

	l.Next() // consume S"
	_, err := l.ReadQuoted()
	assert.ErrorIs(t, err, ErrUnterminatedString)
}
