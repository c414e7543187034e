package stos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_CreateFinishLookup(t *testing.T) {
	d := newDictionary()
	id, err := d.Create("foo", 0, 10)
	require.NoError(t, err)
	d.Finish(id, 13)

	w := d.Word(id)
	assert.Equal(t, "foo", w.Name)
	assert.Equal(t, 10, w.CodeOff)
	assert.Equal(t, 3, w.CodeLen)
}

func TestDictionary_LookupCaseInsensitiveFirstMatch(t *testing.T) {
	d := newDictionary()
	first, err := d.Create("dup", 0, 0)
	require.NoError(t, err)
	_, err = d.Create("DUP", 0, 0)
	require.NoError(t, err)

	got, ok := d.Lookup("Dup")
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, ok = d.Lookup("nope")
	assert.False(t, ok)
}

func TestDictionary_NameTooLong(t *testing.T) {
	d := newDictionary()
	_, err := d.Create("this-name-is-definitely-too-long", 0, 0)
	assert.ErrorIs(t, err, ErrNameTooLong)
}

func TestDictionary_AtCapacity(t *testing.T) {
	d := &Dictionary{words: make([]Word, 0, 1)}
	_, err := d.Create("a", 0, 0)
	require.NoError(t, err)
	for i := d.Len(); i < MaxWords; i++ {
		_, err := d.Create("x", 0, 0)
		require.NoError(t, err)
	}
	_, err = d.Create("overflow", 0, 0)
	assert.ErrorIs(t, err, ErrDictionaryAtCapacity)
}

func TestDictionary_RollbackOnlyUndoesLastEntry(t *testing.T) {
	d := newDictionary()
	first, err := d.Create("kept", 0, 0)
	require.NoError(t, err)
	second, err := d.Create("undone", 0, 0)
	require.NoError(t, err)

	d.Rollback(first) // not the last entry: no-op
	assert.Equal(t, 2, d.Len())

	d.Rollback(second)
	assert.Equal(t, 1, d.Len())
	_, ok := d.Lookup("undone")
	assert.False(t, ok)
	_, ok = d.Lookup("kept")
	assert.True(t, ok)
}

func TestDictionary_Reset(t *testing.T) {
	d := newDictionary()
	_, _ = d.Create("a", 0, 0)
	d.Reset()
	assert.Equal(t, 0, d.Len())
}
