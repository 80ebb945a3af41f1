package document

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/agrangetas/Doc-reviewer/internal/styles"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// Unit is one editable text paragraph: a body paragraph in Word, a shape
// paragraph in PowerPoint. Units mutate the document's XML in place.
//
// Only direct run children count as the unit's text. Content wrapped in
// other elements, hyperlinks for instance, is left alone by every operation
// here, which is also why paragraph-level properties survive a rewrite
// untouched.
type Unit struct {
	el        *xmlquery.Node
	kind      types.DocumentKind
	index     int
	slide     int
	shape     int
	shapePara int
}

// Index returns the unit's 1-based position in document order.
func (u *Unit) Index() int {
	return u.index
}

// Slide returns the 1-based slide number, zero for Word documents.
func (u *Unit) Slide() int {
	return u.slide
}

// Shape returns the 1-based number of the text shape holding the unit on
// its slide, zero for Word documents.
func (u *Unit) Shape() int {
	return u.shape
}

// ShapeParagraph returns the unit's 1-based position inside its shape,
// zero for Word documents.
func (u *Unit) ShapeParagraph() int {
	return u.shapePara
}

// Kind returns the document format the unit belongs to.
func (u *Unit) Kind() types.DocumentKind {
	return u.kind
}

// Element returns the unit's paragraph element.
func (u *Unit) Element() *xmlquery.Node {
	return u.el
}

// ReplaceElement swaps the unit's paragraph element for another one, which
// takes its place in the part tree. Used to restore a snapshot.
func (u *Unit) ReplaceElement(el *xmlquery.Node) {
	ReplaceNode(u.el, el)
	u.el = el
}

// RunElements returns the unit's direct run elements in document order,
// including runs with no text. In PowerPoint the line-break elements that
// sit between runs are included, so the element texts tile the paragraph
// text exactly.
func (u *Unit) RunElements() []*xmlquery.Node {
	if u.kind == types.DocumentWord {
		return childElements(u.el, "r")
	}
	var out []*xmlquery.Node
	for c := u.el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode && (c.Data == "r" || c.Data == "br") {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the unit's visible text: the concatenated text of its runs,
// with tabs and line breaks decoded.
func (u *Unit) Text() string {
	var sb strings.Builder
	for _, r := range u.RunElements() {
		sb.WriteString(runText(r, u.kind))
	}
	return sb.String()
}

// IsEmpty reports whether the unit has no text after trimming whitespace.
func (u *Unit) IsEmpty() bool {
	return strings.TrimSpace(u.Text()) == ""
}

// Runs returns the unit's runs with their text and formatting, one entry
// per run element.
func (u *Unit) Runs() []styles.Run {
	els := u.RunElements()
	runs := make([]styles.Run, 0, len(els))
	for _, r := range els {
		runs = append(runs, styles.Run{
			Text:  runText(r, u.kind),
			Style: runStyle(r, u.kind),
		})
	}
	return runs
}

// runText decodes one run's text content.
func runText(r *xmlquery.Node, kind types.DocumentKind) string {
	if kind == types.DocumentPowerPoint && r.Data == "br" {
		return "\n"
	}
	var sb strings.Builder
	for c := r.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		switch c.Data {
		case "t":
			sb.WriteString(c.InnerText())
		case "tab":
			if kind == types.DocumentWord {
				sb.WriteString("\t")
			}
		case "br", "cr":
			if kind == types.DocumentWord {
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}

// ClearRuns removes every direct run element from the unit. Anything nested
// inside a run, embedded drawings included, goes with it; the image guard's
// snapshot is what protects those. In PowerPoint the line break elements
// between runs are removed too, the new text re-creates them.
func (u *Unit) ClearRuns() {
	for c := u.el.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == xmlquery.ElementNode {
			switch {
			case c.Data == "r":
				removeNode(c)
			case c.Data == "br" && u.kind == types.DocumentPowerPoint:
				removeNode(c)
			}
		}
		c = next
	}
}

// AppendRun appends a run with the given text and formatting. Nil attribute
// fields are left off the run so the document defaults keep applying. Tabs
// and newlines in the text become the corresponding markup.
func (u *Unit) AppendRun(text string, style styles.Attrs) {
	switch u.kind {
	case types.DocumentWord:
		u.appendWordRun(text, style)
	case types.DocumentPowerPoint:
		u.appendPowerPointRun(text, style)
	}
}

func (u *Unit) appendWordRun(text string, style styles.Attrs) {
	r := newElement("w", "r")
	if rPr := buildWordRunProps(style); rPr != nil {
		appendChild(r, rPr)
	}

	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		t := newElement("w", "t")
		setAttr(t, "xml", "space", "preserve")
		appendChild(t, newText(seg.String()))
		appendChild(r, t)
		seg.Reset()
	}

	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			appendChild(r, newElement("w", "tab"))
		case '\n', '\r':
			flush()
			appendChild(r, newElement("w", "br"))
		default:
			seg.WriteRune(ch)
		}
	}
	flush()

	appendChild(u.el, r)
}

func (u *Unit) appendPowerPointRun(text string, style styles.Attrs) {
	// endParaRPr must stay the paragraph's last child.
	ref := childElement(u.el, "endParaRPr")
	insert := func(n *xmlquery.Node) {
		if ref != nil {
			insertBefore(u.el, n, ref)
		} else {
			appendChild(u.el, n)
		}
	}

	segments := strings.Split(text, "\n")
	for i, segText := range segments {
		if i > 0 {
			insert(newElement("a", "br"))
		}
		if segText == "" {
			continue
		}
		r := newElement("a", "r")
		if rPr := buildPowerPointRunProps(style); rPr != nil {
			appendChild(r, rPr)
		}
		t := newElement("a", "t")
		appendChild(t, newText(segText))
		appendChild(r, t)
		insert(r)
	}
}
