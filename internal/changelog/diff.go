package changelog

import (
	"github.com/agrangetas/Doc-reviewer/internal/styles"
)

// contextWindow is how many runes of the original text surround each edit.
const contextWindow = 20

// Difference types as they appear in the log file.
const (
	DiffReplace = "REMPLACEMENT"
	DiffDelete  = "SUPPRESSION"
	DiffInsert  = "AJOUT"
)

// Difference is one contiguous edit between the original and the modified
// text. Position and both context windows are taken from the original text,
// counted in runes.
type Difference struct {
	Type     string
	Position int
	Original string
	Modified string
	Before   string
	After    string
}

// Differences lists the edits between two texts in document order. Equal
// regions are skipped; a rewritten region shows up as a single replacement
// rather than a deletion plus an insertion.
func Differences(original, modified string) []Difference {
	src := []rune(original)
	dst := []rune(modified)

	var diffs []Difference
	for _, op := range styles.Align(original, modified) {
		switch op.Tag {
		case styles.OpReplace:
			diffs = append(diffs, Difference{
				Type:     DiffReplace,
				Position: op.OldStart,
				Original: string(src[op.OldStart:op.OldEnd]),
				Modified: string(dst[op.NewStart:op.NewEnd]),
				Before:   contextBefore(src, op.OldStart),
				After:    contextAfter(src, op.OldEnd),
			})
		case styles.OpDelete:
			diffs = append(diffs, Difference{
				Type:     DiffDelete,
				Position: op.OldStart,
				Original: string(src[op.OldStart:op.OldEnd]),
				Before:   contextBefore(src, op.OldStart),
				After:    contextAfter(src, op.OldEnd),
			})
		case styles.OpInsert:
			diffs = append(diffs, Difference{
				Type:     DiffInsert,
				Position: op.OldStart,
				Modified: string(dst[op.NewStart:op.NewEnd]),
				Before:   contextBefore(src, op.OldStart),
				After:    contextAfter(src, op.OldStart),
			})
		}
	}
	return diffs
}

func contextBefore(src []rune, at int) string {
	start := at - contextWindow
	if start < 0 {
		start = 0
	}
	return string(src[start:at])
}

func contextAfter(src []rune, at int) string {
	if at > len(src) {
		return ""
	}
	end := at + contextWindow
	if end > len(src) {
		end = len(src)
	}
	return string(src[at:end])
}
