package styles

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// fakeSink collects runs the way a paragraph would.
type fakeSink struct {
	runs []Run
}

func (s *fakeSink) ClearRuns() {
	s.runs = nil
}

func (s *fakeSink) AppendRun(text string, style Attrs) {
	s.runs = append(s.runs, Run{Text: text, Style: style})
}

func (s *fakeSink) text() string {
	var sb strings.Builder
	for _, r := range s.runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func TestExtractTilesText(t *testing.T) {
	bold := Attrs{Bold: BoolPtr(true)}
	runs := []Run{
		{Text: "Hello", Style: bold},
		{Text: "", Style: Attrs{Italic: BoolPtr(true)}},
		{Text: " world", Style: Attrs{}},
	}

	spans := Extract(runs)

	if len(spans) != 2 {
		t.Fatalf("Extract returned %d spans, want 2 (empty run skipped)", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 5 {
		t.Errorf("span 0 = [%d,%d), want [0,5)", spans[0].Start, spans[0].End)
	}
	if spans[1].Start != 5 || spans[1].End != 11 {
		t.Errorf("span 1 = [%d,%d), want [5,11)", spans[1].Start, spans[1].End)
	}
	if spans[0].Bold == nil || !*spans[0].Bold {
		t.Error("span 0 should carry bold")
	}

	// Spans must tile the concatenated text with no gaps.
	pos := 0
	for i, s := range spans {
		if s.Start != pos {
			t.Errorf("span %d starts at %d, want %d", i, s.Start, pos)
		}
		pos = s.End
	}
}

func TestExtractCountsRunes(t *testing.T) {
	runs := []Run{
		{Text: "été", Style: Attrs{Bold: BoolPtr(true)}},
		{Text: " chaud", Style: Attrs{}},
	}

	spans := Extract(runs)

	if len(spans) != 2 {
		t.Fatalf("Extract returned %d spans, want 2", len(spans))
	}
	if spans[0].End != 3 {
		t.Errorf("span 0 ends at %d, want rune offset 3", spans[0].End)
	}
	if spans[1].Start != 3 || spans[1].End != 9 {
		t.Errorf("span 1 = [%d,%d), want [3,9)", spans[1].Start, spans[1].End)
	}
}

func TestExtractEmpty(t *testing.T) {
	if spans := Extract(nil); len(spans) != 0 {
		t.Errorf("Extract(nil) = %v, want no spans", spans)
	}
	if spans := Extract([]Run{{Text: ""}}); len(spans) != 0 {
		t.Errorf("Extract of empty runs = %v, want no spans", spans)
	}
}

func TestAlignTilesBothStrings(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"identical", "same text", "same text"},
		{"insertion", "Hello world", "Hello there world"},
		{"deletion", "one two three", "one three"},
		{"replacement", "abcd", "axcd"},
		{"full rewrite", "alpha", "omega"},
		{"empty old", "", "fresh"},
		{"empty new", "gone", ""},
		{"accents", "été chaud", "été très chaud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := Align(tt.old, tt.new)

			oldPos, newPos := 0, 0
			for i, op := range ops {
				if op.OldStart != oldPos || op.NewStart != newPos {
					t.Fatalf("opcode %d starts at (%d,%d), want (%d,%d)",
						i, op.OldStart, op.NewStart, oldPos, newPos)
				}
				if op.OldEnd < op.OldStart || op.NewEnd < op.NewStart {
					t.Fatalf("opcode %d has inverted range: %+v", i, op)
				}
				oldPos = op.OldEnd
				newPos = op.NewEnd
			}
			if oldPos != utf8.RuneCountInString(tt.old) {
				t.Errorf("opcodes cover old up to %d, want %d", oldPos, utf8.RuneCountInString(tt.old))
			}
			if newPos != utf8.RuneCountInString(tt.new) {
				t.Errorf("opcodes cover new up to %d, want %d", newPos, utf8.RuneCountInString(tt.new))
			}
		})
	}
}

func TestAlignFoldsReplace(t *testing.T) {
	ops := Align("abcd", "axcd")

	var tags []OpTag
	for _, op := range ops {
		tags = append(tags, op.Tag)
	}

	found := false
	for _, op := range ops {
		if op.Tag == OpReplace {
			found = true
			if op.OldStart != 1 || op.OldEnd != 2 || op.NewStart != 1 || op.NewEnd != 2 {
				t.Errorf("replace = %+v, want [1,2)->[1,2)", op)
			}
		}
		if op.Tag == OpDelete || op.Tag == OpInsert {
			t.Errorf("adjacent delete/insert should fold into replace, got tags %v", tags)
		}
	}
	if !found {
		t.Errorf("no replace opcode in %v", tags)
	}
}

func TestProjectIdentityIsNoop(t *testing.T) {
	text := "Les styles ne bougent pas"
	spans := []Span{
		{Start: 0, End: 10, Attrs: Attrs{Bold: BoolPtr(true)}},
		{Start: 10, End: 25, Attrs: Attrs{}},
	}

	got := Project(text, text, spans)

	if len(got) != len(spans) {
		t.Fatalf("Project identity returned %d spans, want %d", len(got), len(spans))
	}
	for i := range got {
		if got[i].Start != spans[i].Start || got[i].End != spans[i].End {
			t.Errorf("span %d = [%d,%d), want [%d,%d)",
				i, got[i].Start, got[i].End, spans[i].Start, spans[i].End)
		}
	}
}

func TestProjectAcrossInsertion(t *testing.T) {
	// "Hello" stays bold, the unformatted span stretches over the insertion
	// and follows the text to its new end.
	oldText := "Hello world"
	newText := "Hello there world"
	spans := []Span{
		{Start: 0, End: 5, Attrs: Attrs{Bold: BoolPtr(true)}},
		{Start: 5, End: 11, Attrs: Attrs{}},
	}

	got := Project(oldText, newText, spans)

	if len(got) != 2 {
		t.Fatalf("Project returned %d spans, want 2", len(got))
	}
	if got[0].Start != 0 || got[0].End != 5 {
		t.Errorf("bold span = [%d,%d), want [0,5)", got[0].Start, got[0].End)
	}
	if got[1].Start != 5 || got[1].End != 17 {
		t.Errorf("plain span = [%d,%d), want [5,17)", got[1].Start, got[1].End)
	}
}

func TestProjectRuneOffsets(t *testing.T) {
	oldText := "été chaud"
	newText := "été très chaud"
	spans := []Span{{Start: 0, End: 3, Attrs: Attrs{Bold: BoolPtr(true)}}}

	got := Project(oldText, newText, spans)

	if len(got) != 1 {
		t.Fatalf("Project returned %d spans, want 1", len(got))
	}
	if got[0].Start != 0 || got[0].End != 3 {
		t.Errorf("span = [%d,%d), want [0,3) in runes", got[0].Start, got[0].End)
	}
}

func TestProjectFallbackCoversWholeText(t *testing.T) {
	// When every span lands in deleted regions and is dropped, the first
	// span's formatting must cover the entire new text instead.
	aligner := func(oldText, newText string) []Opcode {
		return []Opcode{
			{OpDelete, 0, 5, 0, 0},
			{OpInsert, 5, 5, 0, 7},
		}
	}
	spans := []Span{
		{Start: 0, End: 2, Attrs: Attrs{Italic: BoolPtr(true)}},
		{Start: 2, End: 5, Attrs: Attrs{}},
	}

	got := ProjectWith(aligner, "alpha", "rewrite", spans)

	if len(got) != 1 {
		t.Fatalf("Project returned %d spans, want single fallback span", len(got))
	}
	if got[0].Start != 0 || got[0].End != 7 {
		t.Errorf("fallback span = [%d,%d), want [0,7)", got[0].Start, got[0].End)
	}
	if got[0].Italic == nil || !*got[0].Italic {
		t.Error("fallback span should carry the first span's formatting")
	}
}

func TestProjectToEmptyText(t *testing.T) {
	spans := []Span{{Start: 0, End: 3, Attrs: Attrs{Italic: BoolPtr(true)}}}

	got := Project("abc", "", spans)

	// The deleted span collapses, then the fallback fires on empty text.
	if len(got) != 1 {
		t.Fatalf("Project returned %d spans, want 1", len(got))
	}
	if got[0].Start != 0 || got[0].End != 0 {
		t.Errorf("span = [%d,%d), want [0,0)", got[0].Start, got[0].End)
	}
}

func TestProjectNoSpans(t *testing.T) {
	if got := Project("old", "new", nil); got != nil {
		t.Errorf("Project with no spans = %v, want nil", got)
	}
}

func TestProjectStaysInBounds(t *testing.T) {
	cases := [][2]string{
		{"The quick brown fox", "A quick red fox jumps"},
		{"un deux trois quatre", "deux trois"},
		{"abc", "abcdefghij"},
		{"abcdefghij", "abc"},
	}

	for _, c := range cases {
		oldText, newText := c[0], c[1]
		spans := Extract([]Run{
			{Text: oldText[:len(oldText)/2], Style: Attrs{Bold: BoolPtr(true)}},
			{Text: oldText[len(oldText)/2:], Style: Attrs{}},
		})

		got := Project(oldText, newText, spans)
		newLen := utf8.RuneCountInString(newText)

		for i, s := range got {
			if s.Start < 0 || s.End > newLen {
				t.Errorf("%q->%q: span %d = [%d,%d) outside [0,%d)",
					oldText, newText, i, s.Start, s.End, newLen)
			}
			if s.End < s.Start {
				t.Errorf("%q->%q: span %d inverted: [%d,%d)", oldText, newText, i, s.Start, s.End)
			}
		}
	}
}

func TestProjectWithPinnedOpcodes(t *testing.T) {
	bold := Attrs{Bold: BoolPtr(true)}

	tests := []struct {
		name      string
		ops       []Opcode
		span      Span
		wantStart int
		wantEnd   int
		dropped   bool
	}{
		{
			name: "equal region keeps offsets",
			ops: []Opcode{
				{OpEqual, 0, 6, 0, 6},
				{OpInsert, 6, 6, 6, 12},
				{OpEqual, 6, 11, 12, 17},
			},
			span:      Span{Start: 2, End: 5, Attrs: bold},
			wantStart: 2,
			wantEnd:   5,
		},
		{
			name: "span inside replace stretches to replacement",
			ops: []Opcode{
				{OpEqual, 0, 3, 0, 3},
				{OpReplace, 3, 6, 3, 10},
			},
			span:      Span{Start: 3, End: 6, Attrs: bold},
			wantStart: 3,
			wantEnd:   10,
		},
		{
			name: "end on equal side of a boundary resolves through equal",
			ops: []Opcode{
				{OpEqual, 0, 3, 0, 3},
				{OpReplace, 3, 6, 3, 10},
			},
			span:      Span{Start: 1, End: 3, Attrs: bold},
			wantStart: 1,
			wantEnd:   3,
		},
		{
			name: "span fully deleted is dropped",
			ops: []Opcode{
				{OpEqual, 0, 2, 0, 2},
				{OpDelete, 2, 5, 2, 2},
				{OpEqual, 5, 8, 2, 5},
			},
			span:    Span{Start: 2, End: 5, Attrs: bold},
			dropped: true,
		},
		{
			name: "span ending in deletion collapses to the cut",
			ops: []Opcode{
				{OpEqual, 0, 2, 0, 2},
				{OpDelete, 2, 5, 2, 2},
				{OpEqual, 5, 8, 2, 5},
			},
			span:      Span{Start: 0, End: 4, Attrs: bold},
			wantStart: 0,
			wantEnd:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aligner := func(oldText, newText string) []Opcode { return tt.ops }

			// Texts sized to match the pinned opcodes.
			oldLen := tt.ops[len(tt.ops)-1].OldEnd
			newLen := tt.ops[len(tt.ops)-1].NewEnd
			oldText := strings.Repeat("x", oldLen)
			newText := strings.Repeat("y", newLen)

			// A second plain span keeps the fallback from masking a drop.
			spans := []Span{tt.span, {Start: 0, End: oldLen, Attrs: Attrs{}}}
			got := ProjectWith(aligner, oldText, newText, spans)

			var match *Span
			for i := range got {
				if got[i].Bold != nil && *got[i].Bold {
					match = &got[i]
					break
				}
			}

			if tt.dropped {
				if match != nil {
					t.Fatalf("span should be dropped, got [%d,%d)", match.Start, match.End)
				}
				return
			}
			if match == nil {
				t.Fatal("projected span not found")
			}
			if match.Start != tt.wantStart || match.End != tt.wantEnd {
				t.Errorf("span = [%d,%d), want [%d,%d)",
					match.Start, match.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestApplyWithoutSpans(t *testing.T) {
	sink := &fakeSink{runs: []Run{{Text: "Report", Style: Attrs{Bold: BoolPtr(true)}}}}

	Apply(sink, "Summary", nil)

	if len(sink.runs) != 1 {
		t.Fatalf("Apply produced %d runs, want 1", len(sink.runs))
	}
	if sink.runs[0].Text != "Summary" {
		t.Errorf("run text = %q, want Summary", sink.runs[0].Text)
	}
	if sink.runs[0].Style.Bold != nil {
		t.Error("run should be unformatted")
	}
}

func TestApplyEmptyTextRemovesRuns(t *testing.T) {
	sink := &fakeSink{runs: []Run{{Text: "abc", Style: Attrs{Italic: BoolPtr(true)}}}}

	// The collapsed span an empty rewrite produces.
	Apply(sink, "", []Span{{Start: 0, End: 0, Attrs: Attrs{Italic: BoolPtr(true)}}})

	if len(sink.runs) != 0 {
		t.Fatalf("Apply produced %d runs, want none for empty text", len(sink.runs))
	}
	if sink.text() != "" {
		t.Errorf("text = %q, want empty", sink.text())
	}
}

func TestApplyGapAndRemainder(t *testing.T) {
	sink := &fakeSink{}
	bold := Attrs{Bold: BoolPtr(true)}
	italic := Attrs{Italic: BoolPtr(true)}

	// Gap [0,2) has no span; remainder [8,10) follows the last span.
	Apply(sink, "abcdefghij", []Span{
		{Start: 2, End: 5, Attrs: bold},
		{Start: 5, End: 8, Attrs: italic},
	})

	if len(sink.runs) != 4 {
		t.Fatalf("Apply produced %d runs, want 4", len(sink.runs))
	}
	if sink.runs[0].Text != "ab" || sink.runs[0].Style.Bold != nil || sink.runs[0].Style.Italic != nil {
		t.Errorf("gap run = %+v, want unformatted \"ab\"", sink.runs[0])
	}
	if sink.runs[1].Text != "cde" || sink.runs[1].Style.Bold == nil {
		t.Errorf("run 1 = %+v, want bold \"cde\"", sink.runs[1])
	}
	if sink.runs[2].Text != "fgh" || sink.runs[2].Style.Italic == nil {
		t.Errorf("run 2 = %+v, want italic \"fgh\"", sink.runs[2])
	}
	if sink.runs[3].Text != "ij" || sink.runs[3].Style.Italic == nil {
		t.Errorf("remainder run = %+v, want italic \"ij\"", sink.runs[3])
	}
	if sink.text() != "abcdefghij" {
		t.Errorf("text = %q, want abcdefghij", sink.text())
	}
}

func TestApplyOverlapFavorsEarlierSpan(t *testing.T) {
	sink := &fakeSink{}
	bold := Attrs{Bold: BoolPtr(true)}
	italic := Attrs{Italic: BoolPtr(true)}

	Apply(sink, "abcdefghij", []Span{
		{Start: 0, End: 8, Attrs: bold},
		{Start: 2, End: 4, Attrs: italic},
	})

	if sink.text() != "abcdefghij" {
		t.Fatalf("text = %q, want abcdefghij", sink.text())
	}
	if sink.runs[0].Text != "abcdefgh" || sink.runs[0].Style.Bold == nil {
		t.Errorf("run 0 = %+v, want bold \"abcdefgh\"", sink.runs[0])
	}
	// The swallowed span still donates its formatting to the remainder.
	last := sink.runs[len(sink.runs)-1]
	if last.Text != "ij" || last.Style.Italic == nil {
		t.Errorf("remainder = %+v, want italic \"ij\"", last)
	}
}

func TestApplyClipsToText(t *testing.T) {
	sink := &fakeSink{}

	Apply(sink, "short", []Span{
		{Start: 0, End: 50, Attrs: Attrs{Bold: BoolPtr(true)}},
	})

	if len(sink.runs) != 1 {
		t.Fatalf("Apply produced %d runs, want 1", len(sink.runs))
	}
	if sink.runs[0].Text != "short" {
		t.Errorf("run text = %q, want short", sink.runs[0].Text)
	}
}

func TestApplyRoundTrip(t *testing.T) {
	newText := "Bonjour à tous les relecteurs"
	spans := []Span{
		{Start: 0, End: 7, Attrs: Attrs{Bold: BoolPtr(true)}},
		{Start: 7, End: 15, Attrs: Attrs{}},
		{Start: 15, End: 29, Attrs: Attrs{Italic: BoolPtr(true), FontName: StringPtr("Arial")}},
	}

	sink := &fakeSink{}
	Apply(sink, newText, spans)

	if sink.text() != newText {
		t.Fatalf("concatenated text = %q, want %q", sink.text(), newText)
	}

	reextracted := Extract(sink.runs)
	if len(reextracted) != len(spans) {
		t.Fatalf("re-extraction returned %d spans, want %d", len(reextracted), len(spans))
	}
	for i := range spans {
		if reextracted[i].Start != spans[i].Start || reextracted[i].End != spans[i].End {
			t.Errorf("span %d = [%d,%d), want [%d,%d)",
				i, reextracted[i].Start, reextracted[i].End, spans[i].Start, spans[i].End)
		}
		if !reextracted[i].Attrs.Equal(spans[i].Attrs) {
			t.Errorf("span %d formatting changed across apply/extract", i)
		}
	}
}

func TestDominant(t *testing.T) {
	arial := StringPtr("Arial")
	times := StringPtr("Times New Roman")

	runs := []Run{
		{Text: "short", Style: Attrs{FontName: times, Bold: BoolPtr(true)}},
		{Text: "a much longer stretch of text", Style: Attrs{FontName: arial}},
		{Text: "more", Style: Attrs{FontName: arial}},
	}

	got := Dominant(runs)

	if got.FontName == nil || *got.FontName != "Arial" {
		t.Errorf("Dominant font = %v, want Arial", got.FontName)
	}
	if got.Bold != nil && *got.Bold {
		t.Error("Dominant should not be bold")
	}
}

func TestDominantDefault(t *testing.T) {
	got := Dominant(nil)
	if got.FontName == nil || *got.FontName != "Calibri" {
		t.Errorf("Dominant default font = %v, want Calibri", got.FontName)
	}
	if got.Bold == nil || *got.Bold {
		t.Error("Dominant default should be explicitly not bold")
	}
}

func TestAttrsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Attrs
		want bool
	}{
		{"both empty", Attrs{}, Attrs{}, true},
		{"nil vs false differ", Attrs{Bold: BoolPtr(false)}, Attrs{}, false},
		{"same values", Attrs{Bold: BoolPtr(true), FontSize: FloatPtr(12)},
			Attrs{Bold: BoolPtr(true), FontSize: FloatPtr(12)}, true},
		{"different color", Attrs{FontColor: RGBPtr(RGB{R: 255})},
			Attrs{FontColor: RGBPtr(RGB{G: 255})}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRGB(t *testing.T) {
	c := RGB{R: 0x1A, G: 0x2B, B: 0x3C}
	if got := c.Hex(); got != "1A2B3C" {
		t.Errorf("Hex() = %q, want 1A2B3C", got)
	}

	parsed, err := ParseRGB("1A2B3C")
	if err != nil {
		t.Fatalf("ParseRGB failed: %v", err)
	}
	if parsed != c {
		t.Errorf("ParseRGB = %+v, want %+v", parsed, c)
	}

	if _, err := ParseRGB("xyz"); err == nil {
		t.Error("ParseRGB should reject a short string")
	}
}
