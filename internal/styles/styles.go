// Package styles reconciles character formatting with rewritten text.
//
// When a paragraph's text is replaced wholesale, the original run boundaries
// are lost. This package extracts the formatting of the original runs as
// offset-addressed spans, projects those spans onto the new text using a
// character-level alignment, and synthesizes a fresh run sequence carrying
// the surviving formatting. All offsets are rune offsets.
package styles

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// RGB is a 24-bit font color.
type RGB struct {
	R, G, B uint8
}

// Hex returns the RRGGBB form used by the OOXML color attributes.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// ParseRGB parses an RRGGBB hex string.
func ParseRGB(s string) (RGB, error) {
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid RGB hex %q", s)
	}
	var c RGB
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return RGB{}, fmt.Errorf("invalid RGB hex %q: %w", s, err)
	}
	return c, nil
}

// Attrs is one run's character formatting. Nil means the attribute is not
// set on the run and the document default applies; it is distinct from an
// explicit false or zero value.
type Attrs struct {
	Bold      *bool
	Italic    *bool
	Underline *bool
	FontName  *string
	FontSize  *float64 // points
	FontColor *RGB
}

// Equal reports whether two attribute sets are identical, treating nil and
// set-to-value as different.
func (a Attrs) Equal(other Attrs) bool {
	return eqBool(a.Bold, other.Bold) &&
		eqBool(a.Italic, other.Italic) &&
		eqBool(a.Underline, other.Underline) &&
		eqString(a.FontName, other.FontName) &&
		eqFloat(a.FontSize, other.FontSize) &&
		eqRGB(a.FontColor, other.FontColor)
}

func eqBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqRGB(a, b *RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Helpers for building attribute values in place.

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }

// RGBPtr returns a pointer to c.
func RGBPtr(c RGB) *RGB { return &c }

// Span is a half-open [Start, End) range of rune offsets carrying one run's
// formatting.
type Span struct {
	Start int
	End   int
	Attrs
}

// Run is one formatted run as seen by the extractor and synthesizer.
type Run struct {
	Text  string
	Style Attrs
}

// Extract walks the runs of a paragraph in order and returns the formatting
// as contiguous spans over the concatenated text. Runs with empty text are
// skipped, so the spans tile the text exactly: span N ends where span N+1
// starts.
func Extract(runs []Run) []Span {
	var spans []Span
	pos := 0
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		if n == 0 {
			continue
		}
		spans = append(spans, Span{
			Start: pos,
			End:   pos + n,
			Attrs: r.Style,
		})
		pos += n
	}
	return spans
}

// Dominant returns the formatting that covers the most text, grouping runs
// by their full attribute set. It is used as the uniformization target when
// no explicit target is configured. The fallback when no runs carry any text
// is the application default (Calibri, no emphasis).
func Dominant(runs []Run) Attrs {
	type group struct {
		attrs Attrs
		count int
	}
	var groups []group
	for _, r := range runs {
		n := utf8.RuneCountInString(r.Text)
		if n == 0 {
			continue
		}
		found := false
		for i := range groups {
			if groups[i].attrs.Equal(r.Style) {
				groups[i].count += n
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{attrs: r.Style, count: n})
		}
	}
	if len(groups) == 0 {
		return Attrs{
			Bold:      BoolPtr(false),
			Italic:    BoolPtr(false),
			Underline: BoolPtr(false),
			FontName:  StringPtr("Calibri"),
		}
	}
	best := 0
	for i := 1; i < len(groups); i++ {
		if groups[i].count > groups[best].count {
			best = i
		}
	}
	return groups[best].attrs
}

// Project maps spans extracted from oldText onto newText using the opcode
// alignment of the two strings. Each endpoint is resolved through the opcode
// that covers it; spans whose projected range collapses or cannot be
// resolved are dropped. If every span is dropped but spans existed, the
// whole new text is covered by a single span carrying the first span's
// formatting, so a rewritten paragraph never comes back unformatted.
func Project(oldText, newText string, spans []Span) []Span {
	return ProjectWith(Align, oldText, newText, spans)
}

// ProjectWith is Project with a caller-supplied aligner.
func ProjectWith(align Aligner, oldText, newText string, spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	opcodes := align(oldText, newText)
	newLen := utf8.RuneCountInString(newText)

	var projected []Span
	for _, span := range spans {
		newStart := -1
		newEnd := -1

		for _, op := range opcodes {
			// Resolve the start offset inside this opcode.
			if op.OldStart <= span.Start && span.Start < op.OldEnd {
				switch op.Tag {
				case OpEqual:
					newStart = op.NewStart + (span.Start - op.OldStart)
				case OpReplace, OpDelete:
					newStart = op.NewStart
				}
			}
			// Resolve the end offset. End is exclusive, so the covering
			// opcode is the one whose old range contains End-1.
			if op.OldStart < span.End && span.End <= op.OldEnd {
				switch op.Tag {
				case OpEqual:
					newEnd = op.NewStart + (span.End - op.OldStart)
				case OpReplace:
					newEnd = op.NewEnd
				case OpDelete:
					newEnd = op.NewStart
				}
			}
		}

		if newStart >= 0 && newEnd >= 0 && newEnd > newStart {
			if newEnd > newLen {
				newEnd = newLen
			}
			projected = append(projected, Span{
				Start: newStart,
				End:   newEnd,
				Attrs: span.Attrs,
			})
		}
	}

	if len(projected) == 0 {
		projected = append(projected, Span{
			Start: 0,
			End:   newLen,
			Attrs: spans[0].Attrs,
		})
	}

	return projected
}

// RunSink is the paragraph surface the synthesizer writes runs to.
type RunSink interface {
	// ClearRuns removes every existing run from the paragraph.
	ClearRuns()
	// AppendRun appends a run with the given text and formatting. Nil
	// attribute fields are left unset on the run.
	AppendRun(text string, style Attrs)
}

// Apply rebuilds a paragraph's runs so that the concatenated text equals
// newText and the spans' formatting covers their projected ranges. Spans are
// sorted by start and clipped to the text; overlap resolves in favor of the
// earlier span. Gaps before a span become unstyled runs; text after the last
// span inherits the final span's formatting.
func Apply(sink RunSink, newText string, spans []Span) {
	sink.ClearRuns()

	if len(spans) == 0 {
		sink.AppendRun(newText, Attrs{})
		return
	}

	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	text := []rune(newText)
	lastEnd := 0

	for _, span := range sorted {
		start := span.Start
		if start < lastEnd {
			start = lastEnd
		}
		end := span.End
		if end > len(text) {
			end = len(text)
		}

		if start >= len(text) {
			break
		}

		if start > lastEnd {
			gap := string(text[lastEnd:start])
			if gap != "" {
				sink.AppendRun(gap, Attrs{})
			}
		}

		if end > start {
			sink.AppendRun(string(text[start:end]), span.Attrs)
			lastEnd = end
		}
	}

	if lastEnd < len(text) {
		sink.AppendRun(string(text[lastEnd:]), sorted[len(sorted)-1].Attrs)
	}
}
