// Package uniformizer normalizes fonts and sizes across a document without
// calling the language model. The target values come from style_config.yaml,
// or from the document's own majority style when a value is set to auto.
package uniformizer

import (
	"strings"
	"unicode/utf8"

	"github.com/agrangetas/Doc-reviewer/internal/config"
	"github.com/agrangetas/Doc-reviewer/internal/document"
	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/styles"
)

// FontStats is the font distribution over the document's styled runs.
type FontStats struct {
	// MostCommon is the majority font name, empty when no run sets one
	MostCommon string
	// Percent is the majority share of all runs carrying text
	Percent float64
	// All counts runs per font name; the empty key counts inherited fonts
	All map[string]int
}

// SizeStats is the size distribution over runs that set an explicit size.
type SizeStats struct {
	// MostCommon is the majority size in points, 0 when no run sets one
	MostCommon float64
	Percent    float64
}

// Analysis is the style census of a document.
type Analysis struct {
	Font        FontStats
	TextSize    SizeStats
	HeadingSize SizeStats
}

// Stats reports what one uniformization pass changed.
type Stats struct {
	// ModifiedParagraphs counts units with at least one rewritten run
	ModifiedParagraphs int
	FontChanges        int
	SizeChanges        int
	PreservedEmphasis  int
	TargetFont         string
	// TargetSize is in points, 0 when no size target could be resolved
	TargetSize float64
}

// Uniformizer applies the configured style rules to a document's runs.
type Uniformizer struct {
	style *config.StyleConfig
}

// New returns a Uniformizer driven by the given style rules.
func New(style *config.StyleConfig) *Uniformizer {
	if style == nil {
		style = config.DefaultStyleConfig()
	}
	return &Uniformizer{style: style}
}

// Analyze takes the style census of the given units: the majority font over
// every run carrying text, and the majority explicit size split between body
// text and headings.
func (u *Uniformizer) Analyze(units []*document.Unit) Analysis {
	var fonts []string
	var sizesText, sizesHeadings []float64

	for _, unit := range units {
		heading := u.isHeading(unit)
		for _, run := range unit.Runs() {
			if strings.TrimSpace(run.Text) == "" {
				continue
			}
			fonts = append(fonts, fontName(run.Style))
			if run.Style.FontSize != nil {
				if heading {
					sizesHeadings = append(sizesHeadings, *run.Style.FontSize)
				} else {
					sizesText = append(sizesText, *run.Style.FontSize)
				}
			}
		}
	}

	analysis := Analysis{
		Font: FontStats{All: make(map[string]int, len(fonts))},
	}
	for _, f := range fonts {
		analysis.Font.All[f]++
	}
	analysis.Font.MostCommon, analysis.Font.Percent = majorityString(fonts)
	analysis.TextSize.MostCommon, analysis.TextSize.Percent = majorityFloat(sizesText)
	analysis.HeadingSize.MostCommon, analysis.HeadingSize.Percent = majorityFloat(sizesHeadings)
	return analysis
}

// Targets resolves the configured font and body size against an analysis:
// auto values take the document majority.
func (u *Uniformizer) Targets(a Analysis) (font string, size float64) {
	font = u.style.Font.Name
	if u.style.Font.Auto() {
		font = a.Font.MostCommon
	}

	size = u.style.Sizes.TextNormal.Points
	if u.style.Sizes.TextNormal.Auto {
		size = a.TextSize.MostCommon
	}
	return font, size
}

// Apply rewrites run fonts and sizes toward the resolved targets. Headings
// keep their size; single-word emphasis runs keep their formatting apart
// from the font. An empty font or zero size target disables that dimension.
func (u *Uniformizer) Apply(units []*document.Unit) Stats {
	analysis := u.Analyze(units)
	font, size := u.Targets(analysis)
	stats := Stats{TargetFont: font, TargetSize: size}

	logger.Info("uniformizing styles",
		logger.String("targetFont", font),
		logger.Float64("targetSize", size),
		logger.Int("units", len(units)))

	for _, unit := range units {
		heading := u.isHeading(unit)
		runs := unit.Runs()
		touched := false

		for i, run := range runs {
			if strings.TrimSpace(run.Text) == "" {
				continue
			}

			if u.style.Preserve.IntentionalEmphasis && u.isIntentionalEmphasis(runs, i) {
				stats.PreservedEmphasis++
				// Emphasis keeps its formatting, only the font is aligned.
				if font != "" && !hasFont(run.Style, font) {
					unit.SetRunFont(i, font)
					stats.FontChanges++
					touched = true
				}
				continue
			}

			if font != "" && !hasFont(run.Style, font) {
				unit.SetRunFont(i, font)
				stats.FontChanges++
				touched = true
			}

			if !heading && size != 0 && !hasSize(run.Style, size) {
				unit.SetRunSize(i, size)
				stats.SizeChanges++
				touched = true
			}
		}

		if touched {
			stats.ModifiedParagraphs++
		}
	}

	logger.Info("uniformization finished",
		logger.Int("modifiedParagraphs", stats.ModifiedParagraphs),
		logger.Int("fontChanges", stats.FontChanges),
		logger.Int("sizeChanges", stats.SizeChanges),
		logger.Int("preservedEmphasis", stats.PreservedEmphasis))
	return stats
}

// isHeading reports whether a unit is a heading, by named style first and
// by the configured heuristics second.
func (u *Uniformizer) isHeading(unit *document.Unit) bool {
	hd := u.style.HeadingDetection

	if hd.UseWordStyles {
		name := unit.StyleName()
		if strings.HasPrefix(name, "Heading") || strings.HasPrefix(name, "Titre") {
			return true
		}
	}

	if hd.UseHeuristics {
		if utf8.RuneCountInString(unit.Text()) > hd.HeuristicRules.MaxLength {
			return false
		}

		runs := unit.Runs()
		if len(runs) == 0 {
			return false
		}
		first := runs[0].Style

		if hd.HeuristicRules.MinSize > 0 && first.FontSize != nil && *first.FontSize >= hd.HeuristicRules.MinSize {
			return true
		}
		if hd.HeuristicRules.MustBeBold && isSet(first.Bold) {
			return true
		}
	}

	return false
}

// isIntentionalEmphasis reports whether the i-th run is a single word whose
// bold, italic or underline differs from an adjacent run. Such runs are
// deliberate highlighting and keep their formatting.
func (u *Uniformizer) isIntentionalEmphasis(runs []styles.Run, i int) bool {
	if !u.style.Exceptions.PreserveIfSingleWord {
		return false
	}

	run := runs[i]
	if len(strings.Fields(run.Text)) > 1 {
		return false
	}
	if !isSet(run.Style.Bold) && !isSet(run.Style.Italic) && !isSet(run.Style.Underline) {
		return false
	}

	different := false
	if i > 0 {
		different = different || emphasisDiffers(run.Style, runs[i-1].Style)
	}
	if i < len(runs)-1 {
		different = different || emphasisDiffers(run.Style, runs[i+1].Style)
	}
	return different
}

// emphasisDiffers compares bold, italic and underline between two runs.
// An attribute set on one run and inherited on the other counts as a
// difference.
func emphasisDiffers(a, b styles.Attrs) bool {
	return triDiffers(a.Bold, b.Bold) ||
		triDiffers(a.Italic, b.Italic) ||
		triDiffers(a.Underline, b.Underline)
}

func triDiffers(a, b *bool) bool {
	if a == nil || b == nil {
		return (a == nil) != (b == nil)
	}
	return *a != *b
}

func isSet(b *bool) bool {
	return b != nil && *b
}

func fontName(a styles.Attrs) string {
	if a.FontName == nil {
		return ""
	}
	return *a.FontName
}

func hasFont(a styles.Attrs, font string) bool {
	return a.FontName != nil && *a.FontName == font
}

func hasSize(a styles.Attrs, points float64) bool {
	return a.FontSize != nil && *a.FontSize == points
}

// majorityString returns the most frequent value and its share in percent.
// Ties keep the value seen first.
func majorityString(vals []string) (string, float64) {
	if len(vals) == 0 {
		return "", 0
	}
	counts := make(map[string]int, len(vals))
	best, bestN := "", 0
	for _, v := range vals {
		counts[v]++
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, float64(bestN) / float64(len(vals)) * 100
}

// majorityFloat is majorityString for sizes.
func majorityFloat(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	counts := make(map[float64]int, len(vals))
	var best float64
	bestN := 0
	for _, v := range vals {
		counts[v]++
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best, float64(bestN) / float64(len(vals)) * 100
}
