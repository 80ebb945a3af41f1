package styles

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// OpTag classifies an alignment opcode.
type OpTag string

const (
	// OpEqual means the old range carried over unchanged
	OpEqual OpTag = "equal"
	// OpReplace means the old range was rewritten as the new range
	OpReplace OpTag = "replace"
	// OpDelete means the old range has no counterpart in the new text
	OpDelete OpTag = "delete"
	// OpInsert means the new range has no counterpart in the old text
	OpInsert OpTag = "insert"
)

// Opcode maps one slice of the old text onto the new text. Offsets are rune
// offsets and half-open. Taken together the opcodes of an alignment tile
// both strings completely: old ranges partition the old text and new ranges
// partition the new text.
type Opcode struct {
	Tag      OpTag
	OldStart int
	OldEnd   int
	NewStart int
	NewEnd   int
}

// Aligner produces the opcode alignment of two strings. Project accepts any
// Aligner so the diff engine can be swapped without touching projection.
type Aligner func(oldText, newText string) []Opcode

// Align is the default aligner built on diff-match-patch. A deletion
// directly followed by an insertion is folded into a single replace opcode,
// which is the shape projection relies on to stretch span endpoints across
// rewritten regions.
func Align(oldText, newText string) []Opcode {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)

	var ops []Opcode
	oldPos, newPos := 0, 0

	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		n := utf8.RuneCountInString(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			ops = append(ops, Opcode{OpEqual, oldPos, oldPos + n, newPos, newPos + n})
			oldPos += n
			newPos += n

		case diffmatchpatch.DiffDelete:
			// After cleanup diff-match-patch orders a deletion before the
			// insertion it pairs with, so the pair is always adjacent here.
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				m := utf8.RuneCountInString(diffs[i+1].Text)
				ops = append(ops, Opcode{OpReplace, oldPos, oldPos + n, newPos, newPos + m})
				oldPos += n
				newPos += m
				i++
				continue
			}
			ops = append(ops, Opcode{OpDelete, oldPos, oldPos + n, newPos, newPos})
			oldPos += n

		case diffmatchpatch.DiffInsert:
			ops = append(ops, Opcode{OpInsert, oldPos, oldPos, newPos, newPos + n})
			newPos += n
		}
	}

	return ops
}
