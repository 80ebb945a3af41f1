// Package reviewer walks a document's text units in order and applies an
// instruction to each one through the rewrite pipeline: generate new text,
// project the existing run formatting onto it, and rebuild the runs under
// the media guard.
package reviewer

import (
	"context"
	"fmt"
	"strings"

	"github.com/agrangetas/Doc-reviewer/internal/document"
	"github.com/agrangetas/Doc-reviewer/internal/guard"
	"github.com/agrangetas/Doc-reviewer/internal/langdetect"
	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/parser"
	"github.com/agrangetas/Doc-reviewer/internal/rewriter"
	"github.com/agrangetas/Doc-reviewer/internal/styles"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// defaultContextUnits is how many preceding units feed the generation context
const defaultContextUnits = 2

// ProgressFunc observes each processed unit of a review pass. total counts
// every unit handed to the pass, including empty ones skipped silently.
type ProgressFunc func(total int, result types.UnitResult)

// ChangeSink receives every rewrite that reached the document, including
// rewrites rolled back to protect embedded media.
type ChangeSink interface {
	LogChange(result types.UnitResult, instruction string)
}

// Options configures a review pass.
type Options struct {
	// Language is the ISO 639-1 code of the document language, fed to
	// correction prompts.
	Language string
	// ContextUnits overrides how many preceding units build the context.
	ContextUnits int
	Sink         ChangeSink
	Progress     ProgressFunc
}

// Reviewer applies instructions to the units of one document.
type Reviewer struct {
	doc          *document.Document
	rw           *rewriter.Rewriter
	language     string
	contextUnits int
	sink         ChangeSink
	progress     ProgressFunc
}

// New builds a Reviewer over an open document.
func New(doc *document.Document, rw *rewriter.Rewriter, opts Options) *Reviewer {
	contextUnits := opts.ContextUnits
	if contextUnits <= 0 {
		contextUnits = defaultContextUnits
	}
	return &Reviewer{
		doc:          doc,
		rw:           rw,
		language:     opts.Language,
		contextUnits: contextUnits,
		sink:         opts.Sink,
		progress:     opts.Progress,
	}
}

// ReviewAll runs instruction over every unit in document order.
func (r *Reviewer) ReviewAll(ctx context.Context, instruction string) (types.ReviewSummary, []types.UnitResult) {
	return r.review(ctx, r.doc.Units(), instruction)
}

// ReviewTarget runs instruction over the units a resolved target addresses.
func (r *Reviewer) ReviewTarget(ctx context.Context, target *rewriter.ResolvedTarget, instruction string) (types.ReviewSummary, []types.UnitResult) {
	return r.review(ctx, r.MatchUnits(target), instruction)
}

func (r *Reviewer) review(ctx context.Context, units []*document.Unit, instruction string) (types.ReviewSummary, []types.UnitResult) {
	isCorrection := parser.IsCorrection(instruction)
	languageName := ""
	if r.language != "" {
		languageName = langdetect.Name(r.language)
	}

	logger.Info("review pass started",
		logger.String("instruction", instruction),
		logger.Int("units", len(units)),
		logger.Bool("correction", isCorrection))

	var summary types.ReviewSummary
	var results []types.UnitResult

	total := len(units)
	for _, u := range units {
		if ctx.Err() != nil {
			break
		}
		if u.IsEmpty() {
			continue
		}

		result := r.processUnit(ctx, u, instruction, isCorrection, languageName)
		summary.Add(result.Outcome)
		results = append(results, result)

		if r.progress != nil {
			r.progress(total, result)
		}
		if r.sink != nil && (result.Outcome == types.OutcomeModified || result.Outcome == types.OutcomeReverted) {
			r.sink.LogChange(result, instruction)
		}
	}

	logger.Info("review pass finished",
		logger.Int("modified", summary.Modified),
		logger.Int("unchanged", summary.Unchanged),
		logger.Int("reverted", summary.Reverted),
		logger.Int("errors", summary.Errors))

	return summary, results
}

// processUnit runs the rewrite pipeline on one unit. A panic inside the
// pipeline becomes an Error outcome; the guard restores the unit before the
// panic reaches us, so the document stays consistent.
func (r *Reviewer) processUnit(ctx context.Context, u *document.Unit, instruction string, isCorrection bool, languageName string) (result types.UnitResult) {
	original := u.Text()
	result = types.UnitResult{Index: u.Index(), OriginalText: original}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("unit processing panicked", nil,
				logger.Int("unit", u.Index()),
				logger.Any("panic", rec))
			result.Outcome = types.OutcomeError
			result.Error = fmt.Sprint(rec)
		}
	}()

	contextText := r.contextFor(u)
	processed := r.rw.Generate(ctx, instruction, original, contextText, isCorrection, languageName)

	if processed == "" || strings.TrimSpace(processed) == strings.TrimSpace(original) {
		result.Outcome = types.OutcomeUnchanged
		return result
	}

	spans := styles.Extract(u.Runs())
	projected := styles.Project(original, processed, spans)

	kept, err := guard.GuardedRewrite(u, func() error {
		styles.Apply(u, processed, projected)
		return nil
	})
	switch {
	case err != nil:
		result.Outcome = types.OutcomeError
		result.Error = err.Error()
	case !kept:
		result.Outcome = types.OutcomeReverted
		result.ModifiedText = processed
	default:
		result.Outcome = types.OutcomeModified
		result.ModifiedText = processed
	}
	return result
}

// contextFor joins the live text of the units immediately before u, empty
// ones filtered. Earlier rewrites feed later contexts.
func (r *Reviewer) contextFor(u *document.Unit) string {
	all := r.doc.Units()
	i := u.Index() - 1
	if i < 0 || i > len(all) {
		return ""
	}
	start := i - r.contextUnits
	if start < 0 {
		start = 0
	}

	var parts []string
	for _, prev := range all[start:i] {
		if !prev.IsEmpty() {
			parts = append(parts, prev.Text())
		}
	}
	return strings.Join(parts, " [...] ")
}

// MatchUnits returns the units a resolved target addresses, in document
// order. A nil or global target matches every unit.
func (r *Reviewer) MatchUnits(target *rewriter.ResolvedTarget) []*document.Unit {
	units := r.doc.Units()
	if target == nil || !target.IsSpecific() {
		return units
	}

	var matched []*document.Unit
	switch r.doc.Kind() {
	case types.DocumentWord:
		if target.Paragraph == nil {
			return nil
		}
		for _, u := range units {
			if u.Index() == *target.Paragraph {
				matched = append(matched, u)
			}
		}
	case types.DocumentPowerPoint:
		if target.Slide == nil {
			return nil
		}
		for _, u := range units {
			if u.Slide() != *target.Slide {
				continue
			}
			if target.Shape != nil && u.Shape() != *target.Shape {
				continue
			}
			if target.ParagraphInShape != nil && u.ShapeParagraph() != *target.ParagraphInShape {
				continue
			}
			matched = append(matched, u)
		}
	}
	return matched
}
