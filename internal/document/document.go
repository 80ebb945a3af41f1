// Package document opens Word and PowerPoint files and exposes their text
// paragraphs as editable units.
//
// A document is an OPC container, a zip archive of XML parts. Only the parts
// that hold body text are parsed: word/document.xml for Word, the
// ppt/slides/slideN.xml parts for PowerPoint. Every other entry passes
// through Save untouched, so relationships, media, themes and styles are
// preserved byte for byte.
package document

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const wordDocumentPart = "word/document.xml"

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

var (
	bodyQuery = xpath.MustCompile("//*[local-name()='document']/*[local-name()='body']")
	treeQuery = xpath.MustCompile("//*[local-name()='cSld']/*[local-name()='spTree']")
)

// part is one parsed XML part of the container.
type part struct {
	name string
	root *xmlquery.Node // document node, declaration included
}

// entry is one zip entry, raw bytes plus the parsed part when the entry is
// one of the text-bearing parts.
type entry struct {
	header zip.FileHeader
	data   []byte
	part   *part
}

// Document is an open Word or PowerPoint file.
type Document struct {
	path    string
	kind    types.DocumentKind
	entries []*entry
	parts   []*part // document order: the single body part, or slides by number
	units   []*Unit
}

// Open reads the document at path into memory and parses its text parts.
// The file on disk is not held open afterwards.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, types.NewAppErrorWithDetails(types.ErrFileNotFound,
			"document does not exist", path, err)
	}

	kind, err := types.DetectKind(path)
	if err != nil {
		return nil, err
	}

	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrDocumentOpen,
			"cannot open document archive", path, err)
	}
	defer reader.Close()

	doc := &Document{path: path, kind: kind}

	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrDocumentOpen,
				"cannot read archive entry", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, types.NewAppErrorWithDetails(types.ErrDocumentOpen,
				"cannot read archive entry", file.Name, err)
		}
		doc.entries = append(doc.entries, &entry{header: file.FileHeader, data: data})
	}

	if err := doc.parseParts(); err != nil {
		return nil, err
	}
	doc.collectUnits()

	logger.Debug("document opened",
		logger.String("path", path),
		logger.String("kind", string(kind)),
		logger.Int("units", len(doc.units)))

	return doc, nil
}

// parseParts locates and parses the text-bearing parts for the document
// kind.
func (d *Document) parseParts() error {
	switch d.kind {
	case types.DocumentWord:
		for _, e := range d.entries {
			if e.header.Name != wordDocumentPart {
				continue
			}
			root, err := xmlquery.Parse(bytes.NewReader(e.data))
			if err != nil {
				return types.NewAppErrorWithDetails(types.ErrDocumentOpen,
					"cannot parse document body", e.header.Name, err)
			}
			p := &part{name: e.header.Name, root: root}
			e.part = p
			d.parts = append(d.parts, p)
		}
		if len(d.parts) == 0 {
			return types.NewAppErrorWithDetails(types.ErrDocumentOpen,
				"document body part missing", wordDocumentPart, nil)
		}

	case types.DocumentPowerPoint:
		type numbered struct {
			num   int
			entry *entry
		}
		var slides []numbered
		for _, e := range d.entries {
			m := slidePartPattern.FindStringSubmatch(e.header.Name)
			if m == nil {
				continue
			}
			num, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			slides = append(slides, numbered{num: num, entry: e})
		}
		if len(slides) == 0 {
			return types.NewAppErrorWithDetails(types.ErrDocumentOpen,
				"presentation has no slides", d.path, nil)
		}
		// Zip order is arbitrary; slides read in slide number order.
		sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

		for _, s := range slides {
			root, err := xmlquery.Parse(bytes.NewReader(s.entry.data))
			if err != nil {
				return types.NewAppErrorWithDetails(types.ErrDocumentOpen,
					"cannot parse slide", s.entry.header.Name, err)
			}
			p := &part{name: s.entry.header.Name, root: root}
			s.entry.part = p
			d.parts = append(d.parts, p)
		}
	}

	return nil
}

// collectUnits walks the parsed parts and builds the ordered unit list.
func (d *Document) collectUnits() {
	index := 0

	switch d.kind {
	case types.DocumentWord:
		body := xmlquery.QuerySelector(d.parts[0].root, bodyQuery)
		if body == nil {
			return
		}
		for _, p := range childElements(body, "p") {
			index++
			d.units = append(d.units, &Unit{el: p, kind: d.kind, index: index})
		}

	case types.DocumentPowerPoint:
		for slideNum, prt := range d.parts {
			tree := xmlquery.QuerySelector(prt.root, treeQuery)
			if tree == nil {
				continue
			}
			shapeNum := 0
			for _, sp := range childElements(tree, "sp") {
				txBody := childElement(sp, "txBody")
				if txBody == nil {
					continue
				}
				shapeNum++
				for paraNum, p := range childElements(txBody, "p") {
					index++
					d.units = append(d.units, &Unit{
						el:        p,
						kind:      d.kind,
						index:     index,
						slide:     slideNum + 1,
						shape:     shapeNum,
						shapePara: paraNum + 1,
					})
				}
			}
		}
	}
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// Kind returns the document format.
func (d *Document) Kind() types.DocumentKind {
	return d.kind
}

// Units returns the document's text units in document order. The slice is
// shared; units mutate the underlying XML in place.
func (d *Document) Units() []*Unit {
	return d.units
}

// SlideCount returns the number of slides, zero for Word documents.
func (d *Document) SlideCount() int {
	if d.kind != types.DocumentPowerPoint {
		return 0
	}
	return len(d.parts)
}

// Save writes the document to outPath. Parsed parts are serialized from
// their XML trees; every other entry is copied through with its original
// header.
func (d *Document) Save(outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrDocumentSave,
			"cannot create output file", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, e := range d.entries {
		header := e.header
		w, err := zw.CreateHeader(&header)
		if err != nil {
			zw.Close()
			return types.NewAppErrorWithDetails(types.ErrDocumentSave,
				"cannot write archive entry", e.header.Name, err)
		}

		data := e.data
		if e.part != nil {
			data = []byte(e.part.root.OutputXML(true))
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			return types.NewAppErrorWithDetails(types.ErrDocumentSave,
				"cannot write archive entry", e.header.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return types.NewAppErrorWithDetails(types.ErrDocumentSave,
			"cannot finalize archive", outPath, err)
	}

	logger.Info("document saved",
		logger.String("path", outPath),
		logger.Int("entries", len(d.entries)))

	return nil
}

// DefaultOutputPath derives the save path used when none is given: the
// original name with a marker before the extension.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)
	return stem + "_modifié" + ext
}
