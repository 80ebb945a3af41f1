// Package changelog keeps a plain-text journal of every rewrite a review
// session applies to a document. One file per document and per day collects
// the entries of all sessions, so a reviewer can reconstruct afterwards what
// was changed, when, and under which instruction.
package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/parser"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const (
	defaultDir      = "LOGS"
	timestampLayout = "2006-01-02 15:04:05"
	fileDateLayout  = "20060102"
)

// Logger appends review entries to one log file per document and day.
// The zero value is inert: LogChange is a no-op until Init succeeds.
type Logger struct {
	mu   sync.Mutex
	dir  string
	path string
	now  func() time.Time
}

// New returns a changelog writer storing its files under dir, or under
// "LOGS" when dir is empty.
func New(dir string) *Logger {
	if dir == "" {
		dir = defaultDir
	}
	return &Logger{dir: dir, now: time.Now}
}

// Init opens the journal for a document and writes the session header.
// unitCount is the number of reviewable units and language the detected
// language display name, empty when detection found nothing. Reopening the
// same document on the same day appends a fresh header to the same file.
func (l *Logger) Init(documentName string, unitCount int, language string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return types.NewAppError(types.ErrChangelog, "cannot create changelog directory", err)
	}

	base := filepath.Base(documentName)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	l.path = filepath.Join(l.dir, fmt.Sprintf("%s_%s.txt", stem, l.now().Format(fileDateLayout)))

	var b strings.Builder
	writeRule(&b, '=')
	fmt.Fprintf(&b, "LOG DE MODIFICATIONS - %s\n", l.now().Format(timestampLayout))
	fmt.Fprintf(&b, "Document: %s\n", base)
	fmt.Fprintf(&b, "Nombre de paragraphes: %d\n", unitCount)
	if language != "" {
		fmt.Fprintf(&b, "Langue détectée: %s\n", language)
	}
	writeRule(&b, '=')
	b.WriteString("\n")

	if err := l.append(b.String()); err != nil {
		l.path = ""
		return types.NewAppError(types.ErrChangelog, "cannot write changelog header", err)
	}
	return nil
}

// Path returns the journal file path, empty before Init succeeded.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// LogChange records one reviewed unit. Correction instructions get a
// character-level breakdown of the edits; every entry ends with the full
// before and after text. Write failures are logged and swallowed so a broken
// journal never interrupts a running review.
func (l *Logger) LogChange(result types.UnitResult, instruction string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return
	}

	var b strings.Builder
	writeRule(&b, '-')
	fmt.Fprintf(&b, "PARAGRAPHE %d\n", result.Index)
	fmt.Fprintf(&b, "Instruction: %s\n", instruction)
	fmt.Fprintf(&b, "Date/Heure: %s\n", l.now().Format(timestampLayout))
	if result.Outcome == types.OutcomeReverted {
		b.WriteString("Statut: ANNULÉ (images préservées)\n")
	}
	writeRule(&b, '-')
	b.WriteString("\n")

	if parser.IsCorrection(instruction) && result.OriginalText != result.ModifiedText {
		writeDifferences(&b, result.OriginalText, result.ModifiedText)
	}

	writeTextBlock(&b, "TEXTE ORIGINAL:", result.OriginalText)
	writeTextBlock(&b, "TEXTE MODIFIE:", result.ModifiedText)
	b.WriteString("\n")

	if err := l.append(b.String()); err != nil {
		logger.Error("cannot append changelog entry", err, logger.String("path", l.path))
	}
}

// Uniformization summarizes a style uniformization pass for the journal.
type Uniformization struct {
	TargetFont string
	// TargetSize is in points, 0 when no size target was resolved
	TargetSize         float64
	ModifiedParagraphs int
	FontChanges        int
	SizeChanges        int
	PreservedEmphasis  int
}

// LogUniformization records the targets and counts of one style
// uniformization pass. Like LogChange it is a no-op before Init and
// swallows write failures.
func (l *Logger) LogUniformization(u Uniformization) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return
	}

	var b strings.Builder
	writeRule(&b, '-')
	b.WriteString("UNIFORMISATION DES STYLES\n")
	fmt.Fprintf(&b, "Date/Heure: %s\n", l.now().Format(timestampLayout))
	writeRule(&b, '-')
	b.WriteString("\n")

	b.WriteString("Configuration cible:\n")
	if u.TargetFont != "" {
		fmt.Fprintf(&b, "  Police: %s\n", u.TargetFont)
	} else {
		b.WriteString("  Police: N/A\n")
	}
	if u.TargetSize != 0 {
		fmt.Fprintf(&b, "  Taille: %g pt\n", u.TargetSize)
	} else {
		b.WriteString("  Taille: N/A\n")
	}

	b.WriteString("\nModifications appliquées:\n")
	fmt.Fprintf(&b, "  Paragraphes modifiés: %d\n", u.ModifiedParagraphs)
	fmt.Fprintf(&b, "  Changements de police: %d\n", u.FontChanges)
	fmt.Fprintf(&b, "  Changements de taille: %d\n", u.SizeChanges)
	fmt.Fprintf(&b, "  Emphases préservées: %d\n", u.PreservedEmphasis)

	b.WriteString("\n")
	writeRule(&b, '=')
	b.WriteString("\n")

	if err := l.append(b.String()); err != nil {
		logger.Error("cannot append uniformization entry", err, logger.String("path", l.path))
	}
}

func (l *Logger) append(entry string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		return err
	}
	return nil
}

func writeDifferences(b *strings.Builder, original, modified string) {
	diffs := Differences(original, modified)
	if len(diffs) == 0 {
		b.WriteString("AUCUNE DIFFÉRENCE DÉTECTÉE (textes identiques)\n\n")
		return
	}

	fmt.Fprintf(b, "NOMBRE DE MODIFICATIONS: %d\n\n", len(diffs))
	for i, d := range diffs {
		fmt.Fprintf(b, "  [%d] %s\n", i+1, d.Type)
		fmt.Fprintf(b, "      Position: caractère %d\n", d.Position)
		if d.Before != "" {
			fmt.Fprintf(b, "      Contexte avant: ...%s\n", d.Before)
		}
		switch d.Type {
		case DiffReplace:
			fmt.Fprintf(b, "      AVANT: '%s'\n", d.Original)
			fmt.Fprintf(b, "      APRES: '%s'\n", d.Modified)
		case DiffDelete:
			fmt.Fprintf(b, "      SUPPRIME: '%s'\n", d.Original)
		case DiffInsert:
			fmt.Fprintf(b, "      AJOUTE: '%s'\n", d.Modified)
		}
		if d.After != "" {
			fmt.Fprintf(b, "      Contexte après: %s...\n", d.After)
		}
		b.WriteString("\n")
	}
}

func writeTextBlock(b *strings.Builder, title, text string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(text + "\n")
	b.WriteString(strings.Repeat("-", 40) + "\n\n")
}

func writeRule(b *strings.Builder, ch byte) {
	b.WriteString(strings.Repeat(string(ch), 80) + "\n")
}
