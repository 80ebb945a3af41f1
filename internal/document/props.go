package document

import (
	"math"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/agrangetas/Doc-reviewer/internal/styles"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// Schema child order of w:rPr, w:pPr and a:rPr, used when inserting
// properties into paragraphs that already carry some.
var (
	wordRunPropOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps",
		"strike", "dstrike", "outline", "shadow", "emboss", "imprint",
		"noProof", "snapToGrid", "vanish", "webHidden", "color", "spacing",
		"w", "kern", "position", "sz", "szCs", "highlight", "u",
	}
	wordParaPropOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr",
		"widowControl", "numPr", "suppressLineNumbers", "pBdr", "shd",
		"tabs", "suppressAutoHyphens", "kinsoku", "wordWrap", "spacing",
		"ind", "contextualSpacing", "jc", "rPr",
	}
	pptRunPropOrder = []string{
		"ln", "noFill", "solidFill", "gradFill", "blipFill", "pattFill",
		"grpFill", "effectLst", "effectDag", "highlight", "uLnTx", "uLn",
		"uFillTx", "uFill", "latin", "ea", "cs", "sym", "hlinkClick",
	}
)

// runStyle reads one run element's formatting as tri-state attributes:
// properties the run does not set stay nil.
func runStyle(r *xmlquery.Node, kind types.DocumentKind) styles.Attrs {
	if kind == types.DocumentPowerPoint {
		return powerPointRunStyle(r)
	}
	return wordRunStyle(r)
}

func wordRunStyle(r *xmlquery.Node) styles.Attrs {
	var a styles.Attrs
	rPr := childElement(r, "rPr")
	if rPr == nil {
		return a
	}

	if b := childElement(rPr, "b"); b != nil {
		a.Bold = styles.BoolPtr(onOff(b))
	}
	if i := childElement(rPr, "i"); i != nil {
		a.Italic = styles.BoolPtr(onOff(i))
	}
	if u := childElement(rPr, "u"); u != nil {
		val, _ := attrLocal(u, "val")
		a.Underline = styles.BoolPtr(val != "none")
	}
	if fonts := childElement(rPr, "rFonts"); fonts != nil {
		if name, ok := attrLocal(fonts, "ascii"); ok && name != "" {
			a.FontName = styles.StringPtr(name)
		} else if name, ok := attrLocal(fonts, "hAnsi"); ok && name != "" {
			a.FontName = styles.StringPtr(name)
		}
	}
	if sz := childElement(rPr, "sz"); sz != nil {
		if val, ok := attrLocal(sz, "val"); ok {
			if halfPoints, err := strconv.ParseFloat(val, 64); err == nil {
				a.FontSize = styles.FloatPtr(halfPoints / 2)
			}
		}
	}
	if color := childElement(rPr, "color"); color != nil {
		if val, ok := attrLocal(color, "val"); ok {
			// "auto" and malformed values read as unset.
			if c, err := styles.ParseRGB(val); err == nil {
				a.FontColor = styles.RGBPtr(c)
			}
		}
	}
	return a
}

func powerPointRunStyle(r *xmlquery.Node) styles.Attrs {
	var a styles.Attrs
	rPr := childElement(r, "rPr")
	if rPr == nil {
		return a
	}

	if val, ok := attrLocal(rPr, "b"); ok {
		a.Bold = styles.BoolPtr(onOffAttr(val))
	}
	if val, ok := attrLocal(rPr, "i"); ok {
		a.Italic = styles.BoolPtr(onOffAttr(val))
	}
	if val, ok := attrLocal(rPr, "u"); ok {
		a.Underline = styles.BoolPtr(val != "none")
	}
	if val, ok := attrLocal(rPr, "sz"); ok {
		if hundredths, err := strconv.ParseFloat(val, 64); err == nil {
			a.FontSize = styles.FloatPtr(hundredths / 100)
		}
	}
	if latin := childElement(rPr, "latin"); latin != nil {
		if face, ok := attrLocal(latin, "typeface"); ok && face != "" {
			a.FontName = styles.StringPtr(face)
		}
	}
	if fill := childElement(rPr, "solidFill"); fill != nil {
		if clr := childElement(fill, "srgbClr"); clr != nil {
			if val, ok := attrLocal(clr, "val"); ok {
				if c, err := styles.ParseRGB(val); err == nil {
					a.FontColor = styles.RGBPtr(c)
				}
			}
		}
	}
	return a
}

// onOff reads a Word toggle element: absent val means on.
func onOff(n *xmlquery.Node) bool {
	val, ok := attrLocal(n, "val")
	if !ok {
		return true
	}
	return onOffAttr(val)
}

func onOffAttr(val string) bool {
	switch strings.ToLower(val) {
	case "0", "false", "off":
		return false
	}
	return true
}

// buildWordRunProps builds a w:rPr for the given attributes, nil when every
// attribute is unset.
func buildWordRunProps(a styles.Attrs) *xmlquery.Node {
	if a.Bold == nil && a.Italic == nil && a.Underline == nil &&
		a.FontName == nil && a.FontSize == nil && a.FontColor == nil {
		return nil
	}

	rPr := newElement("w", "rPr")
	if a.FontName != nil {
		fonts := newElement("w", "rFonts")
		setAttr(fonts, "w", "ascii", *a.FontName)
		setAttr(fonts, "w", "hAnsi", *a.FontName)
		appendChild(rPr, fonts)
	}
	if a.Bold != nil {
		b := newElement("w", "b")
		if !*a.Bold {
			setAttr(b, "w", "val", "0")
		}
		appendChild(rPr, b)
	}
	if a.Italic != nil {
		i := newElement("w", "i")
		if !*a.Italic {
			setAttr(i, "w", "val", "0")
		}
		appendChild(rPr, i)
	}
	if a.FontColor != nil {
		color := newElement("w", "color")
		setAttr(color, "w", "val", a.FontColor.Hex())
		appendChild(rPr, color)
	}
	if a.FontSize != nil {
		half := strconv.Itoa(int(math.Round(*a.FontSize * 2)))
		sz := newElement("w", "sz")
		setAttr(sz, "w", "val", half)
		appendChild(rPr, sz)
		szCs := newElement("w", "szCs")
		setAttr(szCs, "w", "val", half)
		appendChild(rPr, szCs)
	}
	if a.Underline != nil {
		u := newElement("w", "u")
		if *a.Underline {
			setAttr(u, "w", "val", "single")
		} else {
			setAttr(u, "w", "val", "none")
		}
		appendChild(rPr, u)
	}
	return rPr
}

// buildPowerPointRunProps builds an a:rPr for the given attributes, nil
// when every attribute is unset.
func buildPowerPointRunProps(a styles.Attrs) *xmlquery.Node {
	if a.Bold == nil && a.Italic == nil && a.Underline == nil &&
		a.FontName == nil && a.FontSize == nil && a.FontColor == nil {
		return nil
	}

	rPr := newElement("a", "rPr")
	if a.FontSize != nil {
		setAttr(rPr, "", "sz", strconv.Itoa(int(math.Round(*a.FontSize*100))))
	}
	if a.Bold != nil {
		setAttr(rPr, "", "b", boolAttr(*a.Bold))
	}
	if a.Italic != nil {
		setAttr(rPr, "", "i", boolAttr(*a.Italic))
	}
	if a.Underline != nil {
		if *a.Underline {
			setAttr(rPr, "", "u", "sng")
		} else {
			setAttr(rPr, "", "u", "none")
		}
	}
	if a.FontColor != nil {
		fill := newElement("a", "solidFill")
		clr := newElement("a", "srgbClr")
		setAttr(clr, "", "val", a.FontColor.Hex())
		appendChild(fill, clr)
		appendChild(rPr, fill)
	}
	if a.FontName != nil {
		latin := newElement("a", "latin")
		setAttr(latin, "", "typeface", *a.FontName)
		appendChild(rPr, latin)
	}
	return rPr
}

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ensureChildOrdered returns the named child of parent, creating it at its
// schema position when missing. order lists the parent's permitted children
// in schema order.
func ensureChildOrdered(parent *xmlquery.Node, prefix, local string, order []string) *xmlquery.Node {
	if existing := childElement(parent, local); existing != nil {
		return existing
	}

	rank := map[string]int{}
	for i, name := range order {
		rank[name] = i
	}
	target, known := rank[local]

	created := newElement(prefix, local)
	if known {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != xmlquery.ElementNode {
				continue
			}
			if r, ok := rank[c.Data]; ok && r > target {
				insertBefore(parent, created, c)
				return created
			}
		}
	}
	appendChild(parent, created)
	return created
}

// ensureFirstChild returns the named child, creating it as the first child
// when missing. Run and paragraph property containers both sit first.
func ensureFirstChild(parent *xmlquery.Node, prefix, local string) *xmlquery.Node {
	if existing := childElement(parent, local); existing != nil {
		return existing
	}
	created := newElement(prefix, local)
	if parent.FirstChild != nil {
		insertBefore(parent, created, parent.FirstChild)
	} else {
		appendChild(parent, created)
	}
	return created
}

// replaceAttr updates the value of the attribute with the given local name,
// appending it with the given prefix when absent.
func replaceAttr(n *xmlquery.Node, space, local, value string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Local == local {
			n.Attr[i].Value = value
			return
		}
	}
	setAttr(n, space, local, value)
}

// SetRunFont sets the font of the i-th run element, leaving every other
// property in place.
func (u *Unit) SetRunFont(i int, name string) {
	els := u.RunElements()
	if i < 0 || i >= len(els) {
		return
	}
	r := els[i]
	switch u.kind {
	case types.DocumentWord:
		rPr := ensureFirstChild(r, "w", "rPr")
		fonts := ensureChildOrdered(rPr, "w", "rFonts", wordRunPropOrder)
		replaceAttr(fonts, "w", "ascii", name)
		replaceAttr(fonts, "w", "hAnsi", name)
	case types.DocumentPowerPoint:
		if r.Data != "r" {
			return
		}
		rPr := ensureFirstChild(r, "a", "rPr")
		latin := ensureChildOrdered(rPr, "a", "latin", pptRunPropOrder)
		replaceAttr(latin, "", "typeface", name)
	}
}

// SetRunSize sets the font size in points of the i-th run element.
func (u *Unit) SetRunSize(i int, points float64) {
	els := u.RunElements()
	if i < 0 || i >= len(els) {
		return
	}
	r := els[i]
	switch u.kind {
	case types.DocumentWord:
		rPr := ensureFirstChild(r, "w", "rPr")
		half := strconv.Itoa(int(math.Round(points * 2)))
		sz := ensureChildOrdered(rPr, "w", "sz", wordRunPropOrder)
		replaceAttr(sz, "w", "val", half)
		szCs := ensureChildOrdered(rPr, "w", "szCs", wordRunPropOrder)
		replaceAttr(szCs, "w", "val", half)
	case types.DocumentPowerPoint:
		if r.Data != "r" {
			return
		}
		rPr := ensureFirstChild(r, "a", "rPr")
		replaceAttr(rPr, "", "sz", strconv.Itoa(int(math.Round(points*100))))
	}
}

// SetRunColor sets the font color of the i-th run element.
func (u *Unit) SetRunColor(i int, c styles.RGB) {
	els := u.RunElements()
	if i < 0 || i >= len(els) {
		return
	}
	r := els[i]
	switch u.kind {
	case types.DocumentWord:
		rPr := ensureFirstChild(r, "w", "rPr")
		color := ensureChildOrdered(rPr, "w", "color", wordRunPropOrder)
		replaceAttr(color, "w", "val", c.Hex())
	case types.DocumentPowerPoint:
		if r.Data != "r" {
			return
		}
		rPr := ensureFirstChild(r, "a", "rPr")
		fill := ensureChildOrdered(rPr, "a", "solidFill", pptRunPropOrder)
		clr := childElement(fill, "srgbClr")
		if clr == nil {
			// Replace whatever color form the fill used.
			for fc := fill.FirstChild; fc != nil; {
				next := fc.NextSibling
				removeNode(fc)
				fc = next
			}
			clr = newElement("a", "srgbClr")
			appendChild(fill, clr)
		}
		replaceAttr(clr, "", "val", c.Hex())
	}
}

// StyleName returns the paragraph style identifier, empty when the unit
// uses the default style. PowerPoint paragraphs have no named styles.
func (u *Unit) StyleName() string {
	if u.kind != types.DocumentWord {
		return ""
	}
	pPr := childElement(u.el, "pPr")
	if pPr == nil {
		return ""
	}
	pStyle := childElement(pPr, "pStyle")
	if pStyle == nil {
		return ""
	}
	val, _ := attrLocal(pStyle, "val")
	return val
}

// LineSpacing returns the paragraph's line spacing as a multiple of single
// spacing. The second return is false when no explicit spacing is set or
// the format has none.
func (u *Unit) LineSpacing() (float64, bool) {
	if u.kind != types.DocumentWord {
		return 0, false
	}
	pPr := childElement(u.el, "pPr")
	if pPr == nil {
		return 0, false
	}
	spacing := childElement(pPr, "spacing")
	if spacing == nil {
		return 0, false
	}
	val, ok := attrLocal(spacing, "line")
	if !ok {
		return 0, false
	}
	line, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	// 240 twentieths of a point per single-spaced line.
	return line / 240, true
}

// SetLineSpacing sets the paragraph line spacing as a multiple of single
// spacing. A no-op for PowerPoint units.
func (u *Unit) SetLineSpacing(multiple float64) {
	if u.kind != types.DocumentWord {
		return
	}
	pPr := ensureFirstChild(u.el, "w", "pPr")
	spacing := ensureChildOrdered(pPr, "w", "spacing", wordParaPropOrder)
	replaceAttr(spacing, "w", "line", strconv.Itoa(int(math.Round(multiple*240))))
	replaceAttr(spacing, "w", "lineRule", "auto")
}
