package stos

import "strings"

// WordID is the small integer handle assigned to a dictionary entry in
// insertion order.
type WordID int

// Word is a dictionary record: either a native primitive (PrimIndex
// valid) or a user-defined colon definition (CodeOff/CodeLen valid).
// Per spec.md's invariant, a PRIMITIVE record's body is still the
// six-byte CALL-ID self, RET stub -- CodeOff/CodeLen point at it even
// though dispatch never walks it in practice.
type Word struct {
	Name      string
	Flags     uint8
	CodeOff   int
	CodeLen   int
	PrimIndex int // valid iff Flags&FlagPrimitive != 0
}

func (w *Word) Immediate() bool { return w.Flags&FlagImmediate != 0 }
func (w *Word) Primitive() bool { return w.Flags&FlagPrimitive != 0 }

// Dictionary is the append-only, fixed-capacity table of word records.
type Dictionary struct {
	words []Word
}

func newDictionary() *Dictionary {
	return &Dictionary{words: make([]Word, 0, MaxWords)}
}

// Create appends a new entry with the given name and flags, recording
// codeOff as its (initially empty) body start. It fails once the table
// is at MaxWords capacity or the name exceeds MaxStringSize.
func (d *Dictionary) Create(name string, flags uint8, codeOff int) (WordID, error) {
	if len(name) > MaxStringSize {
		return 0, ErrNameTooLong
	}
	if len(d.words) >= MaxWords {
		return 0, ErrDictionaryAtCapacity
	}
	d.words = append(d.words, Word{Name: name, Flags: flags, CodeOff: codeOff})
	return WordID(len(d.words) - 1), nil
}

// Finish records the final code length for id, i.e. emitPtr - CodeOff.
func (d *Dictionary) Finish(id WordID, emitPtr int) {
	w := &d.words[id]
	w.CodeLen = emitPtr - w.CodeOff
}

// Rollback removes the most recently created entry, provided it is id --
// used to undo a partial compile (spec.md §9's "decrement the dictionary
// count" fix for the original's phantom-word wart).
func (d *Dictionary) Rollback(id WordID) {
	if int(id) == len(d.words)-1 {
		d.words = d.words[:id]
	}
}

// Lookup returns the first (in insertion order) case-insensitive name
// match, and whether one was found.
func (d *Dictionary) Lookup(name string) (WordID, bool) {
	for i := range d.words {
		if strings.EqualFold(d.words[i].Name, name) {
			return WordID(i), true
		}
	}
	return 0, false
}

func (d *Dictionary) Word(id WordID) *Word { return &d.words[id] }

func (d *Dictionary) Len() int { return len(d.words) }

// Names returns every registered name in insertion order, for the WORDS
// primitive.
func (d *Dictionary) Names() []string {
	out := make([]string, len(d.words))
	for i := range d.words {
		out[i] = d.words[i].Name
	}
	return out
}

// Reset empties the dictionary, for cold-start/REBOOT.
func (d *Dictionary) Reset() { d.words = d.words[:0] }
