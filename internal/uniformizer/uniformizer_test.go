package uniformizer

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/agrangetas/Doc-reviewer/internal/config"
	"github.com/agrangetas/Doc-reviewer/internal/document"
)

const uniformDocXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p>
<w:pPr><w:pStyle w:val="Titre1"/></w:pPr>
<w:r><w:rPr><w:b/><w:rFonts w:ascii="Arial"/><w:sz w:val="32"/></w:rPr><w:t>Introduction</w:t></w:r>
</w:p>
<w:p>
<w:r><w:rPr><w:rFonts w:ascii="Arial"/><w:sz w:val="24"/></w:rPr><w:t xml:space="preserve">Le mot </w:t></w:r>
<w:r><w:rPr><w:b/><w:rFonts w:ascii="Times New Roman"/><w:sz w:val="24"/></w:rPr><w:t>clé</w:t></w:r>
<w:r><w:rPr><w:rFonts w:ascii="Arial"/><w:sz w:val="24"/></w:rPr><w:t xml:space="preserve"> est important</w:t></w:r>
</w:p>
<w:p>
<w:r><w:rPr><w:rFonts w:ascii="Times New Roman"/><w:sz w:val="28"/></w:rPr><w:t>Un paragraphe écrit dans une autre police pour tester la majorité.</w:t></w:r>
</w:p>
<w:p>
<w:r><w:t>Texte sans style direct</w:t></w:r>
</w:p>
</w:body>
</w:document>`

func openDocx(t *testing.T, documentXML string) *document.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uniform.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	doc, err := document.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return doc
}

func TestAnalyzeMajorities(t *testing.T) {
	doc := openDocx(t, uniformDocXML)
	u := New(config.DefaultStyleConfig())

	a := u.Analyze(doc.Units())

	if a.Font.MostCommon != "Arial" {
		t.Errorf("majority font = %q, want Arial", a.Font.MostCommon)
	}
	if a.Font.Percent != 50 {
		t.Errorf("majority font share = %v, want 50", a.Font.Percent)
	}
	if a.Font.All["Times New Roman"] != 2 {
		t.Errorf("Times New Roman count = %d, want 2", a.Font.All["Times New Roman"])
	}
	if a.Font.All[""] != 1 {
		t.Errorf("unstyled run count = %d, want 1", a.Font.All[""])
	}
	if a.TextSize.MostCommon != 12 {
		t.Errorf("majority text size = %v, want 12", a.TextSize.MostCommon)
	}
	if a.HeadingSize.MostCommon != 16 {
		t.Errorf("majority heading size = %v, want 16", a.HeadingSize.MostCommon)
	}
}

func TestAnalyzeHeuristicHeading(t *testing.T) {
	// No named style: the short bold paragraph counts as a heading, so its
	// size must land in the heading census.
	xml := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/><w:sz w:val="36"/></w:rPr><w:t>Résumé</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:sz w:val="22"/></w:rPr><w:t>Le corps du texte est écrit en taille normale.</w:t></w:r></w:p>
</w:body>
</w:document>`
	doc := openDocx(t, xml)
	u := New(config.DefaultStyleConfig())

	a := u.Analyze(doc.Units())

	if a.HeadingSize.MostCommon != 18 {
		t.Errorf("heading size = %v, want 18", a.HeadingSize.MostCommon)
	}
	if a.TextSize.MostCommon != 11 {
		t.Errorf("text size = %v, want 11", a.TextSize.MostCommon)
	}
}

func TestTargetsFixedConfig(t *testing.T) {
	style := config.DefaultStyleConfig()
	style.Font.Name = "Verdana"
	style.Sizes.TextNormal = config.Size{Points: 10.5}
	u := New(style)

	font, size := u.Targets(Analysis{})
	if font != "Verdana" {
		t.Errorf("target font = %q, want Verdana", font)
	}
	if size != 10.5 {
		t.Errorf("target size = %v, want 10.5", size)
	}
}

func TestApplyAutoTargets(t *testing.T) {
	doc := openDocx(t, uniformDocXML)
	u := New(config.DefaultStyleConfig())

	stats := u.Apply(doc.Units())

	if stats.TargetFont != "Arial" {
		t.Errorf("TargetFont = %q, want Arial", stats.TargetFont)
	}
	if stats.TargetSize != 12 {
		t.Errorf("TargetSize = %v, want 12", stats.TargetSize)
	}
	if stats.ModifiedParagraphs != 3 {
		t.Errorf("ModifiedParagraphs = %d, want 3", stats.ModifiedParagraphs)
	}
	if stats.FontChanges != 3 {
		t.Errorf("FontChanges = %d, want 3", stats.FontChanges)
	}
	if stats.SizeChanges != 2 {
		t.Errorf("SizeChanges = %d, want 2", stats.SizeChanges)
	}
	if stats.PreservedEmphasis != 1 {
		t.Errorf("PreservedEmphasis = %d, want 1", stats.PreservedEmphasis)
	}

	units := doc.Units()

	// Heading keeps its size, the emphasis run keeps bold but takes the font.
	heading := units[0].Runs()[0].Style
	if heading.FontSize == nil || *heading.FontSize != 16 {
		t.Errorf("heading size after apply = %v, want 16", heading.FontSize)
	}

	emphasis := units[1].Runs()[1].Style
	if emphasis.FontName == nil || *emphasis.FontName != "Arial" {
		t.Errorf("emphasis font after apply = %v, want Arial", emphasis.FontName)
	}
	if emphasis.Bold == nil || !*emphasis.Bold {
		t.Error("emphasis run lost its bold")
	}

	body := units[2].Runs()[0].Style
	if body.FontName == nil || *body.FontName != "Arial" {
		t.Errorf("body font after apply = %v, want Arial", body.FontName)
	}
	if body.FontSize == nil || *body.FontSize != 12 {
		t.Errorf("body size after apply = %v, want 12", body.FontSize)
	}

	unstyled := units[3].Runs()[0].Style
	if unstyled.FontName == nil || *unstyled.FontName != "Arial" {
		t.Errorf("unstyled run font after apply = %v, want Arial", unstyled.FontName)
	}
	if unstyled.FontSize == nil || *unstyled.FontSize != 12 {
		t.Errorf("unstyled run size after apply = %v, want 12", unstyled.FontSize)
	}
}

func TestApplyWithoutEmphasisPreservation(t *testing.T) {
	doc := openDocx(t, uniformDocXML)
	style := config.DefaultStyleConfig()
	style.Exceptions.PreserveIfSingleWord = false
	u := New(style)

	stats := u.Apply(doc.Units())

	if stats.PreservedEmphasis != 0 {
		t.Errorf("PreservedEmphasis = %d, want 0", stats.PreservedEmphasis)
	}
}

func TestApplyMinSizeHeuristic(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:sz w:val="36"/></w:rPr><w:t>Grand titre</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:sz w:val="24"/></w:rPr><w:t>Corps du document en taille lisible.</w:t></w:r></w:p>
</w:body>
</w:document>`
	doc := openDocx(t, xml)

	style := config.DefaultStyleConfig()
	style.Sizes.TextNormal = config.Size{Points: 11}
	style.HeadingDetection.HeuristicRules.MustBeBold = false
	style.HeadingDetection.HeuristicRules.MinSize = 16
	u := New(style)

	u.Apply(doc.Units())

	units := doc.Units()
	title := units[0].Runs()[0].Style
	if title.FontSize == nil || *title.FontSize != 18 {
		t.Errorf("title size after apply = %v, want 18", title.FontSize)
	}
	body := units[1].Runs()[0].Style
	if body.FontSize == nil || *body.FontSize != 11 {
		t.Errorf("body size after apply = %v, want 11", body.FontSize)
	}
}

func TestApplySkipsBlankRuns(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p>
<w:r><w:rPr><w:rFonts w:ascii="Courier New"/></w:rPr><w:t xml:space="preserve">   </w:t></w:r>
<w:r><w:rPr><w:rFonts w:ascii="Arial"/></w:rPr><w:t>Du texte</w:t></w:r>
</w:p>
</w:body>
</w:document>`
	doc := openDocx(t, xml)
	u := New(config.DefaultStyleConfig())

	u.Apply(doc.Units())

	blank := doc.Units()[0].Runs()[0].Style
	if blank.FontName == nil || *blank.FontName != "Courier New" {
		t.Errorf("blank run font after apply = %v, want Courier New untouched", blank.FontName)
	}
}

func TestMajorityTieKeepsFirst(t *testing.T) {
	xml := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Garamond"/></w:rPr><w:t>Un</w:t></w:r></w:p>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Helvetica"/></w:rPr><w:t>Deux</w:t></w:r></w:p>
</w:body>
</w:document>`
	doc := openDocx(t, xml)
	u := New(config.DefaultStyleConfig())

	a := u.Analyze(doc.Units())
	if a.Font.MostCommon != "Garamond" {
		t.Errorf("majority font = %q, want first seen Garamond", a.Font.MostCommon)
	}
	if a.Font.Percent != 50 {
		t.Errorf("majority share = %v, want 50", a.Font.Percent)
	}
}
