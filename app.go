package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/agrangetas/Doc-reviewer/internal/backup"
	"github.com/agrangetas/Doc-reviewer/internal/changelog"
	"github.com/agrangetas/Doc-reviewer/internal/config"
	"github.com/agrangetas/Doc-reviewer/internal/document"
	"github.com/agrangetas/Doc-reviewer/internal/errors"
	"github.com/agrangetas/Doc-reviewer/internal/guard"
	"github.com/agrangetas/Doc-reviewer/internal/langdetect"
	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/parser"
	"github.com/agrangetas/Doc-reviewer/internal/results"
	"github.com/agrangetas/Doc-reviewer/internal/reviewer"
	"github.com/agrangetas/Doc-reviewer/internal/rewriter"
	"github.com/agrangetas/Doc-reviewer/internal/settings"
	"github.com/agrangetas/Doc-reviewer/internal/types"
	"github.com/agrangetas/Doc-reviewer/internal/uniformizer"
)

// App struct
type App struct {
	ctx context.Context

	config    *config.ConfigManager
	settings  *settings.Manager
	rewriter  *rewriter.Rewriter
	backup    *backup.BackupManager
	changelog *changelog.Logger
	results   *results.ResultManager
	errorMgr  *errors.ErrorManager

	doc  *document.Document
	info types.DocumentInfo

	sessionID string
	summary   types.ReviewSummary
	model     string

	// Status tracking
	status   types.Status
	statusMu sync.RWMutex

	// Command line overrides
	modelOverride    string
	baseURLOverride  string
	languageOverride string
	outputPath       string

	// backupPath is set after the first in-place save backed up the source
	backupPath string

	in       io.Reader
	out      io.Writer
	lines    chan string
	readOnce sync.Once
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{
		in:  os.Stdin,
		out: os.Stdout,
	}
}

// startup initializes the managers. The config manager may already be set by
// the caller; everything still nil is built here.
func (a *App) startup(ctx context.Context) error {
	a.ctx = ctx
	logger.Info("application starting up")

	if a.config == nil {
		configManager, err := config.NewConfigManager("")
		if err != nil {
			logger.Error("failed to create config manager", err)
			return types.NewAppError(types.ErrConfig, "création du gestionnaire de configuration impossible", err)
		}
		if err := configManager.Load(); err != nil {
			logger.Warn("failed to load configuration, using defaults", logger.Err(err))
		}
		a.config = configManager
	}
	logger.Debug("config manager initialized")

	if a.settings == nil {
		settingsManager, err := settings.NewManager()
		if err != nil {
			logger.Warn("failed to create settings manager", logger.Err(err))
		} else {
			if err := settingsManager.Load(); err != nil {
				logger.Warn("failed to load local settings", logger.Err(err))
			}
			a.settings = settingsManager
		}
	}

	if a.rewriter == nil {
		cfg := *a.config.GetConfig()
		cfg.OpenAIAPIKey = a.config.GetAPIKey()
		cfg.OpenAIModel = a.config.GetModel()
		cfg.OpenAIBaseURL = a.config.GetBaseURL()
		if a.modelOverride != "" {
			cfg.OpenAIModel = a.modelOverride
		}
		if a.baseURLOverride != "" {
			cfg.OpenAIBaseURL = a.baseURLOverride
		}
		rw, err := rewriter.New(ctx, &cfg)
		if err != nil {
			logger.Error("failed to create rewriter", err)
			return err
		}
		a.rewriter = rw
		a.model = cfg.OpenAIModel
		logger.Debug("rewriter initialized", logger.String("model", a.model))
	}

	if a.backup == nil {
		a.backup = backup.NewBackupManager("")
	}
	if a.changelog == nil {
		a.changelog = changelog.New(a.config.GetChangelogDirectory())
	}

	if a.results == nil {
		resultManager, err := results.NewResultManager("")
		if err != nil {
			logger.Warn("failed to create result manager", logger.Err(err))
		} else {
			a.results = resultManager
		}
	}
	if a.errorMgr == nil {
		errorManager, err := errors.NewErrorManager("")
		if err != nil {
			logger.Warn("failed to create error manager", logger.Err(err))
		} else {
			a.errorMgr = errorManager
		}
	}

	logger.Info("application startup complete")
	return nil
}

// shutdown marks a still-running session interrupted so it shows up in the
// incomplete session list.
func (a *App) shutdown(ctx context.Context) {
	a.finishSession(results.StatusInterrupted, "")
	logger.Info("application shutdown complete")
}

// setStatus updates the current status (thread-safe)
func (a *App) setStatus(phase types.ReviewPhase, progress int, message string) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status = types.Status{
		Phase:    phase,
		Progress: progress,
		Message:  message,
	}
	logger.Debug("status updated",
		logger.String("phase", string(phase)),
		logger.Int("progress", progress))
}

// GetStatus returns the current status (thread-safe)
func (a *App) GetStatus() types.Status {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

// startReader starts the goroutine that pumps input lines into a channel, so
// prompts can also notice an interrupt while waiting.
func (a *App) startReader() {
	a.readOnce.Do(func() {
		a.lines = make(chan string)
		go func() {
			reader := bufio.NewReader(a.in)
			for {
				line, err := reader.ReadString('\n')
				if line != "" {
					a.lines <- strings.TrimRight(line, "\r\n")
				}
				if err != nil {
					close(a.lines)
					return
				}
			}
		}()
	})
}

// promptLine prints a prompt and blocks for the next input line. ok is false
// once the input is exhausted.
func (a *App) promptLine(prompt string) (string, bool) {
	a.startReader()
	fmt.Fprint(a.out, prompt)
	line, ok := <-a.lines
	return strings.TrimSpace(line), ok
}

// readCommand is promptLine that also returns on interrupt.
func (a *App) readCommand(ctx context.Context, prompt string) (string, bool) {
	a.startReader()
	fmt.Fprint(a.out, prompt)
	select {
	case line, ok := <-a.lines:
		return strings.TrimSpace(line), ok
	case <-ctx.Done():
		return "", false
	}
}

// LoadDocument opens the document, detects its language, counts the embedded
// media and opens the session bookkeeping.
func (a *App) LoadDocument(path string) error {
	a.setStatus(types.PhaseLoading, 0, "Chargement du document")
	logger.Info("loading document", logger.String("path", path))

	if _, err := os.Stat(path); err != nil {
		a.setStatus(types.PhaseError, 0, "Fichier introuvable")
		return types.NewAppErrorWithDetails(types.ErrFileNotFound, "Le fichier n'existe pas", path, err)
	}

	doc, err := document.Open(path)
	if err != nil {
		a.setStatus(types.PhaseError, 0, "Échec du chargement")
		return err
	}
	a.doc = doc
	units := doc.Units()

	language := a.languageOverride
	if language == "" {
		var texts []string
		for _, u := range units {
			texts = append(texts, u.Text())
		}
		language = langdetect.Detect(texts)
	}
	if language == "" && a.settings != nil {
		language = a.settings.GetDefaultLanguage()
	}

	imageCount, unitsWithMedia := guard.CountMedia(units)

	a.info = types.DocumentInfo{
		Path:           path,
		Kind:           doc.Kind(),
		UnitCount:      len(units),
		ImageCount:     imageCount,
		UnitsWithMedia: unitsWithMedia,
		Language:       language,
	}
	if language != "" {
		a.info.LanguageName = langdetect.Name(language)
	}

	fmt.Fprintf(a.out, "✓ Document chargé: %s\n", filepath.Base(path))
	fmt.Fprintf(a.out, "  Nombre de paragraphes: %d\n", len(units))
	fmt.Fprintf(a.out, "  Modèle OpenAI: %s\n", a.model)
	if a.info.LanguageName != "" {
		fmt.Fprintf(a.out, "  Langue détectée: %s\n", a.info.LanguageName)
	}
	if imageCount > 0 {
		fmt.Fprintf(a.out, "  Images trouvées: %d image(s) dans %d paragraphe(s)\n", imageCount, len(unitsWithMedia))
		fmt.Fprintln(a.out, "  ⚠️  Les paragraphes avec images seront traités avec précaution")
	}

	if a.settings != nil && !a.settings.KeepChangelog() {
		a.changelog = nil
	}
	if a.changelog != nil {
		if err := a.changelog.Init(filepath.Base(path), len(units), a.info.LanguageName); err != nil {
			logger.Warn("failed to initialize changelog", logger.Err(err))
			a.changelog = nil
		}
	}

	if a.results != nil {
		session := a.results.NewSession(path, doc.Kind(), language)
		if err := a.results.SaveSessionInfo(session); err != nil {
			logger.Warn("failed to save session info", logger.Err(err))
		} else {
			a.sessionID = session.SessionID
		}
	}
	a.summary = types.ReviewSummary{}

	if a.config != nil {
		a.config.SetLastInput(path)
		a.config.AddInputHistory(path, doc.Kind())
	}

	logger.Info("document loaded",
		logger.String("kind", string(doc.Kind())),
		logger.Int("units", len(units)),
		logger.Int("images", imageCount),
		logger.String("language", language))

	a.setStatus(types.PhaseIdle, 0, "")
	return nil
}

// Interactive loads the document at path and runs the command loop until
// quit, end of input or interrupt.
func (a *App) Interactive(ctx context.Context, path string) error {
	if err := a.LoadDocument(path); err != nil {
		return err
	}

	a.printMenu()

	for {
		input, ok := a.readCommand(ctx, "\n➤ Votre commande: ")
		if !ok {
			fmt.Fprintln(a.out, "\n\nInterruption détectée.")
			answer, _ := a.promptLine("Voulez-vous sauvegarder avant de quitter ? (o/n): ")
			if strings.EqualFold(answer, "o") {
				if err := a.SaveDocument(""); err != nil {
					fmt.Fprintf(a.out, "❌ Erreur: %v\n", err)
				}
			}
			a.finishSession(results.StatusInterrupted, "")
			return nil
		}

		cmd := parser.ParseCommand(input)
		switch cmd.Kind {
		case parser.CommandNone:
			continue

		case parser.CommandQuit:
			fmt.Fprintln(a.out, "Au revoir !")
			a.finishSession(results.StatusComplete, "")
			return nil

		case parser.CommandHelp:
			a.printHelp()

		case parser.CommandSave:
			if err := a.SaveDocument(cmd.SavePath); err != nil {
				fmt.Fprintf(a.out, "❌ Erreur: %v\n", err)
			}

		case parser.CommandUniformize:
			a.UniformizeStyles()

		case parser.CommandReview:
			instruction := cmd.Instruction
			var target *rewriter.ResolvedTarget
			if cmd.Custom {
				var ok bool
				instruction, target, ok = a.prepareInstruction(ctx, input)
				if !ok {
					continue
				}
			}
			a.ProcessInstruction(ctx, instruction, target)
		}
	}
}

// prepareInstruction runs a free-form instruction through target resolution
// and validation. Instructions naming a specific element run on that element
// and skip the whole-document validation; everything else must pass it.
func (a *App) prepareInstruction(ctx context.Context, input string) (string, *rewriter.ResolvedTarget, bool) {
	a.setStatus(types.PhaseValidating, 0, input)
	fmt.Fprintln(a.out, "\n🔍 Validation de l'instruction...")

	outline, err := reviewer.Outline(a.doc)
	if err != nil {
		logger.Warn("failed to build document outline", logger.Err(err))
	} else {
		target := a.rewriter.ResolveTarget(ctx, input, outline, a.doc.Kind())
		if target != nil && target.IsSpecific() && target.IsConfident() {
			fmt.Fprintf(a.out, "\n🎯 Cible identifiée : %s\n", target.Describe(a.doc.Kind()))
			instruction := target.Instruction
			if instruction == "" {
				instruction = input
			}
			return instruction, target, true
		}
	}

	v := a.rewriter.ValidateInstruction(ctx, input)
	switch {
	case v.Reformulation != "":
		fmt.Fprintln(a.out, "\n⚠️  Votre instruction contient des éléments impossibles (formatage).")
		fmt.Fprintln(a.out, "\n💡 Reformulation proposée :")
		fmt.Fprintf(a.out, "   '%s'\n", v.Reformulation)
		fmt.Fprintln(a.out, "\n   (Le LLM peut modifier le TEXTE mais pas le formatage comme gras/italic/police)")
		answer, _ := a.promptLine("\n   Accepter cette reformulation ? (o/n): ")
		if !strings.EqualFold(answer, "o") {
			fmt.Fprintln(a.out, "❌ Annulé. Veuillez entrer une nouvelle instruction.")
			return "", nil, false
		}
		fmt.Fprintln(a.out, "✅ Reformulation acceptée !")
		return v.Reformulation, nil, true

	case !v.Valid:
		fmt.Fprintf(a.out, "\n❌ Instruction invalide : %s\n", v.Reason)
		fmt.Fprintln(a.out, "\n💡 Rappel :")
		fmt.Fprintln(a.out, "  - L'instruction doit s'appliquer à TOUT le document")
		fmt.Fprintln(a.out, "  - Le LLM peut modifier le TEXTE (contenu, majuscules, ton, style)")
		fmt.Fprintln(a.out, "  - Le LLM ne peut PAS modifier le formatage (gras, police, couleur)")
		fmt.Fprintln(a.out, "\n  Exemples valides :")
		fmt.Fprintln(a.out, "    • 'rends le texte plus professionnel'")
		fmt.Fprintln(a.out, "    • 'met tout en MAJUSCULES'")
		fmt.Fprintln(a.out, "    • 'simplifie le vocabulaire'")
		fmt.Fprintln(a.out, "\nVeuillez reformuler votre instruction.")
		if a.errorMgr != nil {
			if err := a.errorMgr.RecordError(a.info.Path, 0, input, errors.StageValidation, v.Reason); err != nil {
				logger.Warn("failed to record validation error", logger.Err(err))
			}
		}
		return "", nil, false
	}

	fmt.Fprintln(a.out, "✅ Instruction validée !")
	return input, nil, true
}

// ProcessInstruction runs one review pass over the document, or over the
// resolved target when one is set.
func (a *App) ProcessInstruction(ctx context.Context, instruction string, target *rewriter.ResolvedTarget) {
	a.setStatus(types.PhaseReviewing, 0, instruction)

	fmt.Fprintf(a.out, "\n🔄 Traitement: %s\n", instruction)
	if parser.IsCorrection(instruction) && a.info.LanguageName != "" {
		fmt.Fprintf(a.out, "   Langue: %s\n", a.info.LanguageName)
	}
	fmt.Fprintln(a.out, strings.Repeat("=", 60))

	contextUnits := 0
	if a.config != nil {
		contextUnits = a.config.GetConfig().ContextUnits
	}
	if a.settings != nil && a.settings.GetContextUnits() > 0 {
		contextUnits = a.settings.GetContextUnits()
	}

	var sink reviewer.ChangeSink
	if a.changelog != nil {
		sink = a.changelog
	}

	done := 0
	r := reviewer.New(a.doc, a.rewriter, reviewer.Options{
		Language:     a.info.Language,
		ContextUnits: contextUnits,
		Sink:         sink,
		Progress: func(total int, result types.UnitResult) {
			done++
			if total > 0 {
				a.setStatus(types.PhaseReviewing, done*100/total, instruction)
			}
			a.printUnitProgress(total, result)
			if result.Outcome == types.OutcomeError && a.errorMgr != nil {
				if err := a.errorMgr.RecordError(a.info.Path, result.Index, instruction, errors.StageApplication, result.Error); err != nil {
					logger.Warn("failed to record unit error", logger.Err(err))
				}
			}
		},
	})

	var summary types.ReviewSummary
	if target != nil && target.IsSpecific() {
		summary, _ = r.ReviewTarget(ctx, target, instruction)
	} else {
		summary, _ = r.ReviewAll(ctx, instruction)
	}

	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintf(a.out, "✓ Traitement terminé ! (%d paragraphes modifiés)\n", summary.Modified)

	a.summary.Modified += summary.Modified
	a.summary.Unchanged += summary.Unchanged
	a.summary.Reverted += summary.Reverted
	a.summary.Errors += summary.Errors

	if a.results != nil && a.sessionID != "" {
		if err := a.results.RecordInstruction(a.sessionID, instruction); err != nil {
			logger.Warn("failed to record instruction", logger.Err(err))
		}
		if err := a.results.UpdateSummary(a.sessionID, a.summary); err != nil {
			logger.Warn("failed to update session summary", logger.Err(err))
		}
	}

	a.verifyImages()
	a.setStatus(types.PhaseComplete, 100, instruction)
}

func (a *App) printUnitProgress(total int, result types.UnitResult) {
	fmt.Fprintf(a.out, "Paragraphe %d/%d... ", result.Index, total)
	switch result.Outcome {
	case types.OutcomeModified:
		fmt.Fprintln(a.out, "✓ Modifié")
	case types.OutcomeReverted:
		fmt.Fprintln(a.out, "❌ Images perdues, RESTAURATION ! ○ Non modifié (images)")
	case types.OutcomeError:
		fmt.Fprintf(a.out, "❌ Erreur: %s\n", result.Error)
	default:
		fmt.Fprintln(a.out, "○ Inchangé")
	}
}

// verifyImages recounts the embedded media after a pass and reports it
// against the count taken at load time.
func (a *App) verifyImages() {
	a.setStatus(types.PhaseVerifying, 0, "Vérification des images")
	current, _ := guard.CountMedia(a.doc.Units())
	initial := a.info.ImageCount

	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "VÉRIFICATION DES IMAGES")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintf(a.out, "Images au début: %d\n", initial)
	fmt.Fprintf(a.out, "Images maintenant: %d\n", current)
	if current >= initial {
		fmt.Fprintln(a.out, "✅ TOUTES LES IMAGES SONT PRÉSERVÉES !")
	} else {
		fmt.Fprintf(a.out, "❌ ATTENTION: %d image(s) perdue(s) !\n", initial-current)
		logger.Error("images lost during review", nil,
			logger.Int("initial", initial),
			logger.Int("current", current))
	}
	if len(a.info.UnitsWithMedia) > 0 {
		shown := a.info.UnitsWithMedia
		if len(shown) > 10 {
			shown = shown[:10]
		}
		fmt.Fprintf(a.out, "\nℹ️  Paragraphes avec images: %s\n", joinInts(shown, ", "))
		if rest := len(a.info.UnitsWithMedia) - 10; rest > 0 {
			fmt.Fprintf(a.out, "   ... et %d autres\n", rest)
		}
	}
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
}

// UniformizeStyles analyzes the document styles, asks for confirmation when
// configured to, and applies the majority font and sizes.
func (a *App) UniformizeStyles() {
	a.setStatus(types.PhaseUniformizing, 0, "Uniformisation des styles")

	var style *config.StyleConfig
	if a.config != nil {
		style = a.config.LoadStyleConfig()
	}
	if style == nil {
		style = config.DefaultStyleConfig()
	}
	u := uniformizer.New(style)
	units := a.doc.Units()

	analysis := u.Analyze(units)
	targetFont, targetSize := u.Targets(analysis)

	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "UNIFORMISATION DES STYLES")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "\nAnalyse du document:")
	fmt.Fprintf(a.out, "  Police majoritaire: %s (%.1f%%)\n", displayFont(analysis.Font.MostCommon), analysis.Font.Percent)
	fmt.Fprintf(a.out, "  Taille texte majoritaire: %s\n", formatSize(analysis.TextSize.MostCommon))

	if style.Application.AskConfirmation {
		fmt.Fprintln(a.out, "\nStyleuniformisation proposée:")
		fmt.Fprintf(a.out, "  Police: %s\n", displayFont(targetFont))
		fmt.Fprintf(a.out, "  Taille texte: %s\n", formatSize(targetSize))

		answer, _ := a.promptLine("\nAppliquer ces modifications ? (o/n): ")
		if !strings.EqualFold(answer, "o") {
			fmt.Fprintln(a.out, "❌ Annulé")
			a.setStatus(types.PhaseIdle, 0, "")
			return
		}
	}

	stats := u.Apply(units)

	fmt.Fprintln(a.out, "\n✓ Uniformisation terminée !")
	fmt.Fprintf(a.out, "  Paragraphes modifiés: %d\n", stats.ModifiedParagraphs)
	fmt.Fprintf(a.out, "  Emphases préservées: %d\n", stats.PreservedEmphasis)
	fmt.Fprintln(a.out, strings.Repeat("=", 60))

	if a.changelog != nil {
		a.changelog.LogUniformization(changelog.Uniformization{
			TargetFont:         stats.TargetFont,
			TargetSize:         stats.TargetSize,
			ModifiedParagraphs: stats.ModifiedParagraphs,
			FontChanges:        stats.FontChanges,
			SizeChanges:        stats.SizeChanges,
			PreservedEmphasis:  stats.PreservedEmphasis,
		})
	}

	a.setStatus(types.PhaseComplete, 100, "Uniformisation des styles")
}

// SaveDocument writes the document. An empty path falls back to the --output
// flag, then to the default "_modifié" name next to the source. The source
// file is backed up once before the first save that overwrites it.
func (a *App) SaveDocument(outputPath string) error {
	a.setStatus(types.PhaseSaving, 0, "Sauvegarde du document")

	if outputPath == "" {
		outputPath = a.outputPath
	}
	if outputPath == "" {
		outputPath = document.DefaultOutputPath(a.doc.Path())
	}

	if samePath(outputPath, a.doc.Path()) && a.backupPath == "" && a.backup != nil {
		backupPath, err := a.backup.CreateBackup(a.doc.Path())
		if err != nil {
			a.setStatus(types.PhaseError, 0, "Échec de la copie de sauvegarde")
			return types.NewAppError(types.ErrBackup, "copie de sauvegarde impossible avant l'écrasement", err)
		}
		a.backupPath = backupPath
	}

	if err := a.doc.Save(outputPath); err != nil {
		a.setStatus(types.PhaseError, 0, "Échec de la sauvegarde")
		if a.errorMgr != nil {
			if recErr := a.errorMgr.RecordError(a.info.Path, 0, "save", errors.StageSave, err.Error()); recErr != nil {
				logger.Warn("failed to record save error", logger.Err(recErr))
			}
		}
		return err
	}

	fmt.Fprintf(a.out, "\n💾 Document sauvegardé: %s\n", outputPath)

	if a.results != nil && a.sessionID != "" {
		changelogPath := ""
		if a.changelog != nil {
			changelogPath = a.changelog.Path()
		}
		if err := a.results.UpdateSessionPaths(a.sessionID, outputPath, changelogPath); err != nil {
			logger.Warn("failed to update session paths", logger.Err(err))
		}
	}

	a.setStatus(types.PhaseIdle, 0, "")
	return nil
}

func (a *App) finishSession(status results.SessionStatus, errorMsg string) {
	if a.results == nil || a.sessionID == "" {
		return
	}
	if err := a.results.FinishSession(a.sessionID, status, errorMsg); err != nil {
		logger.Warn("failed to finish session", logger.Err(err))
	}
	a.sessionID = ""
}

func (a *App) printMenu() {
	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintf(a.out, "MODE INTERACTIF - Document Reviewer (%s)\n", a.info.Kind.DisplayName())
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "\nCommandes disponibles:")
	fmt.Fprintln(a.out, "  - 'corrige' : Corrige les fautes d'orthographe")
	fmt.Fprintln(a.out, "  - 'traduis [langue]' : Traduit le document")
	fmt.Fprintln(a.out, "  - 'améliore' : Améliore le style")
	fmt.Fprintln(a.out, "  - 'uniformise' : Uniformise les styles (police, tailles, etc.)")
	fmt.Fprintln(a.out, "  - ou toute autre instruction personnalisée")
	fmt.Fprintln(a.out, "  - 'save' : Sauvegarder")
	fmt.Fprintln(a.out, "  - 'help' : Afficher l'aide")
	fmt.Fprintln(a.out, "  - 'quit' : Quitter")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "COMMANDES DISPONIBLES")
	fmt.Fprintln(a.out, strings.Repeat("=", 60))
	fmt.Fprintln(a.out, "\n📝 Modification du contenu:")
	fmt.Fprintln(a.out, "  corrige              - Corrige l'orthographe et la grammaire")
	fmt.Fprintln(a.out, "  traduis [langue]     - Traduit le document (ex: traduis anglais)")
	fmt.Fprintln(a.out, "  améliore             - Améliore le style et la clarté")
	fmt.Fprintln(a.out, "  [instruction libre]  - Toute instruction personnalisée")
	fmt.Fprintln(a.out, "\n🎨 Mise en forme:")
	fmt.Fprintln(a.out, "  uniformise           - Uniformise les styles (police, tailles)")
	fmt.Fprintln(a.out, "\n💾 Gestion du document:")
	fmt.Fprintln(a.out, "  save                 - Sauvegarde le document modifié")
	fmt.Fprintln(a.out, "  quit                 - Quitte l'application")
	fmt.Fprintln(a.out, "  help                 - Affiche cette aide")
	fmt.Fprintln(a.out, "\n"+strings.Repeat("=", 60))
}

func printBanner(out io.Writer) {
	fmt.Fprintln(out, strings.Repeat("=", 60))
	fmt.Fprintln(out, "DOCUMENT REVIEWER")
	fmt.Fprintln(out, "Supporte : Word (.docx, .doc) • PowerPoint (.pptx, .ppt)")
	fmt.Fprintln(out, strings.Repeat("=", 60))
}

func joinInts(nums []int, sep string) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}

func displayFont(font string) string {
	if font == "" {
		return "N/A"
	}
	return font
}

func formatSize(size float64) string {
	if size == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(size, 'g', -1, 64)
}

func samePath(a, b string) bool {
	pa, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	pb, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return pa == pb
}
