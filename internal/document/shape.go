package document

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// shapeElement climbs from the unit's paragraph to its p:sp ancestor.
func (u *Unit) shapeElement() *xmlquery.Node {
	txBody := u.el.Parent
	if txBody == nil {
		return nil
	}
	return txBody.Parent
}

// ShapeFrame returns the offset of the unit's shape on its slide in EMU.
// ok is false for Word documents and for shapes without an explicit frame.
func (u *Unit) ShapeFrame() (x, y int64, ok bool) {
	if u.kind != types.DocumentPowerPoint {
		return 0, 0, false
	}
	sp := u.shapeElement()
	if sp == nil {
		return 0, 0, false
	}
	spPr := childElement(sp, "spPr")
	if spPr == nil {
		return 0, 0, false
	}
	xfrm := childElement(spPr, "xfrm")
	if xfrm == nil {
		return 0, 0, false
	}
	off := childElement(xfrm, "off")
	if off == nil {
		return 0, 0, false
	}

	xs, _ := attrLocal(off, "x")
	ys, _ := attrLocal(off, "y")
	xv, errX := strconv.ParseInt(xs, 10, 64)
	yv, errY := strconv.ParseInt(ys, 10, 64)
	if errX != nil || errY != nil {
		return 0, 0, false
	}
	return xv, yv, true
}

// PlaceholderType returns the placeholder type of the unit's shape, empty
// when the shape is not a placeholder. A placeholder without an explicit
// type attribute reads as "body" per the schema default.
func (u *Unit) PlaceholderType() string {
	if u.kind != types.DocumentPowerPoint {
		return ""
	}
	sp := u.shapeElement()
	if sp == nil {
		return ""
	}
	nvSpPr := childElement(sp, "nvSpPr")
	if nvSpPr == nil {
		return ""
	}
	nvPr := childElement(nvSpPr, "nvPr")
	if nvPr == nil {
		return ""
	}
	ph := childElement(nvPr, "ph")
	if ph == nil {
		return ""
	}
	if t, ok := attrLocal(ph, "type"); ok && t != "" {
		return t
	}
	return "body"
}
