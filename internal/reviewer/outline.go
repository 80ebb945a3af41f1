package reviewer

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agrangetas/Doc-reviewer/internal/document"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// outlinePreviewLimit caps the text preview of an outline entry, in runes
const outlinePreviewLimit = 150

// Standard 4:3 slide dimensions in EMU.
const (
	slideWidthEMU  = 9144000
	slideHeightEMU = 6858000
)

type outlineStyle struct {
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	SizePt    float64 `json:"size_pt,omitempty"`
	Font      string  `json:"font,omitempty"`
	StyleName string  `json:"style_name,omitempty"`
}

type outlineParagraph struct {
	Number      int           `json:"number"`
	TextPreview string        `json:"text_preview"`
	TextLength  int           `json:"text_length"`
	Style       *outlineStyle `json:"style"`
}

type wordOutline struct {
	Type            string             `json:"type"`
	TotalParagraphs int                `json:"total_paragraphs"`
	ParagraphsShown int                `json:"paragraphs_shown"`
	Paragraphs      []outlineParagraph `json:"paragraphs"`
}

type outlinePosition struct {
	XRelative float64 `json:"x_relative"`
	YRelative float64 `json:"y_relative"`
	Semantic  string  `json:"semantic"`
}

type outlineShape struct {
	ID             int              `json:"id"`
	Type           string           `json:"type"`
	TextPreview    string           `json:"text_preview"`
	TextLength     int              `json:"text_length"`
	ParagraphCount int              `json:"paragraph_count"`
	Position       *outlinePosition `json:"position"`
	Style          *outlineStyle    `json:"style"`
}

type outlineSlide struct {
	Number     int            `json:"number"`
	ShapeCount int            `json:"shape_count"`
	Shapes     []outlineShape `json:"shapes"`
}

type pptOutline struct {
	Type        string         `json:"type"`
	TotalSlides int            `json:"total_slides"`
	SlidesShown int            `json:"slides_shown"`
	Slides      []outlineSlide `json:"slides"`
}

// Outline renders the document structure as indented JSON for the target
// identification prompt. Unit numbers match what MatchUnits resolves
// against, so a target echoed back by the model maps onto units directly.
func Outline(doc *document.Document) (string, error) {
	var v interface{}
	switch doc.Kind() {
	case types.DocumentPowerPoint:
		v = pptOutlineOf(doc)
	default:
		v = wordOutlineOf(doc)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", types.NewAppError(types.ErrInternal, "cannot encode document outline", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func wordOutlineOf(doc *document.Document) wordOutline {
	units := doc.Units()
	out := wordOutline{
		Type:            "document_word",
		TotalParagraphs: len(units),
	}

	for _, u := range units {
		text := strings.TrimSpace(u.Text())
		if text == "" {
			continue
		}
		out.Paragraphs = append(out.Paragraphs, outlineParagraph{
			Number:      u.Index(),
			TextPreview: preview(text),
			TextLength:  utf8.RuneCountInString(text),
			Style:       styleInfo(u),
		})
	}

	out.ParagraphsShown = len(out.Paragraphs)
	return out
}

func pptOutlineOf(doc *document.Document) pptOutline {
	out := pptOutline{
		Type:        "presentation_powerpoint",
		TotalSlides: doc.SlideCount(),
	}

	// Units arrive in document order, so one linear walk groups them by
	// slide and shape.
	units := doc.Units()
	i := 0
	for i < len(units) {
		slideNum := units[i].Slide()
		slide := outlineSlide{Number: slideNum}

		for i < len(units) && units[i].Slide() == slideNum {
			shapeNum := units[i].Shape()
			var group []*document.Unit
			for i < len(units) && units[i].Slide() == slideNum && units[i].Shape() == shapeNum {
				group = append(group, units[i])
				i++
			}
			if info := shapeInfo(group); info != nil {
				slide.Shapes = append(slide.Shapes, *info)
			}
		}

		slide.ShapeCount = len(slide.Shapes)
		out.Slides = append(out.Slides, slide)
	}

	out.SlidesShown = len(out.Slides)
	return out
}

// shapeInfo summarizes one shape's units, nil when the shape has no text.
func shapeInfo(group []*document.Unit) *outlineShape {
	var parts []string
	for _, u := range group {
		if t := strings.TrimSpace(u.Text()); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	fullText := strings.Join(parts, " ")

	first := group[0]
	return &outlineShape{
		ID:             first.Shape(),
		Type:           shapeType(first),
		TextPreview:    preview(fullText),
		TextLength:     utf8.RuneCountInString(fullText),
		ParagraphCount: len(parts),
		Position:       shapePosition(first),
		Style:          styleInfo(first),
	}
}

// shapeType maps the shape's placeholder type to the outline vocabulary.
func shapeType(u *document.Unit) string {
	switch u.PlaceholderType() {
	case "title", "ctrTitle":
		return "title"
	case "":
		return "textbox"
	default:
		return "body"
	}
}

// shapePosition locates the shape in slide thirds. Shapes without an
// explicit frame, and zero offsets, read as centered.
func shapePosition(u *document.Unit) *outlinePosition {
	x, y, ok := u.ShapeFrame()

	xRel, yRel := 0.5, 0.5
	if ok && x != 0 {
		xRel = float64(x) / slideWidthEMU
	}
	if ok && y != 0 {
		yRel = float64(y) / slideHeightEMU
	}

	hPos := "droite"
	switch {
	case xRel < 0.33:
		hPos = "gauche"
	case xRel < 0.67:
		hPos = "centre"
	}
	vPos := "bas"
	switch {
	case yRel < 0.33:
		vPos = "haut"
	case yRel < 0.67:
		vPos = "milieu"
	}

	semantic := vPos + "-" + hPos
	if vPos == "milieu" && hPos == "centre" {
		semantic = "centre"
	}

	return &outlinePosition{
		XRelative: math.Round(xRel*100) / 100,
		YRelative: math.Round(yRel*100) / 100,
		Semantic:  semantic,
	}
}

// styleInfo reads the formatting of the unit's first run, nil when nothing
// is explicitly set.
func styleInfo(u *document.Unit) *outlineStyle {
	info := outlineStyle{}

	runs := u.Runs()
	if len(runs) > 0 {
		first := runs[0].Style
		if first.Bold != nil && *first.Bold {
			info.Bold = true
		}
		if first.Italic != nil && *first.Italic {
			info.Italic = true
		}
		if first.FontSize != nil {
			info.SizePt = *first.FontSize
		}
		if first.FontName != nil {
			info.Font = *first.FontName
		}
	}
	if name := u.StyleName(); name != "" {
		info.StyleName = name
	}

	if info == (outlineStyle{}) {
		return nil
	}
	return &info
}

// preview truncates outline text by rune count.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) > outlinePreviewLimit {
		return string(runes[:outlinePreviewLimit]) + "..."
	}
	return text
}
