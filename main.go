// Command doc-reviewer is an interactive reviewer for Word and PowerPoint
// documents. It loads a document, takes revision instructions in an
// interactive session and rewrites the text through an OpenAI-compatible
// model while keeping the XML formatting and embedded media intact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/agrangetas/Doc-reviewer/internal/config"
	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const version = "1.0.0"

// CLI defines the command-line interface for doc-reviewer.
var CLI struct {
	Review  ReviewCmd  `cmd:"" default:"withargs" help:"Ouvre un document et démarre la session interactive"`
	Version VersionCmd `cmd:"" help:"Affiche la version"`
}

// ReviewCmd opens a document and runs the interactive session.
type ReviewCmd struct {
	File     string `arg:"" optional:"" help:"Document Word ou PowerPoint (.docx, .doc, .pptx, .ppt)" type:"path"`
	Model    string `help:"Modèle OpenAI (remplace la configuration)"`
	BaseURL  string `name:"base-url" help:"URL de base d'une API compatible OpenAI"`
	Language string `short:"l" help:"Code langue du document (ex: fr), sinon détection automatique"`
	Output   string `short:"o" help:"Chemin de sauvegarde par défaut du document modifié" type:"path"`
	LogFile  string `name:"log-file" default:"doc-reviewer.log" help:"Fichier de log" type:"path"`
	Verbose  bool   `short:"v" help:"Active les logs de debug"`
}

func (c *ReviewCmd) Run() error {
	level := logger.LevelInfo
	if c.Verbose {
		level = logger.LevelDebug
	}
	if err := logger.Init(&logger.Config{
		LogFilePath:   c.LogFile,
		Level:         level,
		EnableConsole: false,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "impossible d'initialiser les logs: %v\n", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp()
	app.modelOverride = c.Model
	app.baseURLOverride = c.BaseURL
	app.languageOverride = c.Language
	app.outputPath = c.Output

	printBanner(app.out)

	// Configuration first: .env is loaded here, so the API key check below
	// sees it.
	configManager, err := config.NewConfigManager("")
	if err != nil {
		return fmt.Errorf("création du gestionnaire de configuration: %w", err)
	}
	if err := configManager.Load(); err != nil {
		logger.Warn("failed to load configuration, using defaults", logger.Err(err))
	}
	app.config = configManager

	if app.config.GetAPIKey() == "" {
		fmt.Fprintln(app.out, "\n⚠️  Clé API OpenAI non trouvée.")
		fmt.Fprintln(app.out, "Définissez OPENAI_API_KEY dans votre fichier .env")
		return nil
	}
	fmt.Fprintln(app.out, "✓ Clé API OpenAI chargée depuis l'environnement")

	if err := app.startup(ctx); err != nil {
		return err
	}
	defer app.shutdown(ctx)

	path := strings.Trim(strings.TrimSpace(c.File), `"'`)
	if path == "" {
		input, _ := app.promptLine("\n➤ Chemin du document (Word/PowerPoint): ")
		path = strings.Trim(input, `"'`)
	}
	if path == "" {
		fmt.Fprintln(app.out, "❌ Aucun fichier spécifié.")
		return nil
	}

	kind, err := types.DetectKind(path)
	if err != nil {
		fmt.Fprintf(app.out, "\n❌ Format non supporté : %s\n", filepath.Ext(path))
		fmt.Fprintln(app.out, "Formats acceptés : .docx, .doc, .pptx, .ppt")
		return nil
	}
	fmt.Fprintf(app.out, "\n📄 Format détecté : %s\n", kind.DisplayName())

	return app.Interactive(ctx, path)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("doc-reviewer version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("doc-reviewer"),
		kong.Description("Révision interactive de documents Word et PowerPoint par un modèle OpenAI."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
