// Package parser classifies the commands typed in the interactive session.
package parser

import (
	"fmt"
	"strings"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
)

// CommandKind identifies what the session should do with one input line.
type CommandKind string

const (
	CommandNone       CommandKind = "none"
	CommandQuit       CommandKind = "quit"
	CommandSave       CommandKind = "save"
	CommandHelp       CommandKind = "help"
	CommandUniformize CommandKind = "uniformize"
	CommandReview     CommandKind = "review"
)

// Canned instructions behind the shortcut commands.
const (
	CorrectionInstruction = "Corrige toutes les fautes d'orthographe et de grammaire dans ce texte."
	ImproveInstruction    = "Améliore le style et la clarté de ce texte."

	// DefaultTargetLanguage is used when traduis is typed without one.
	DefaultTargetLanguage = "anglais"
)

// correctionKeywords mark instructions whose prompt must name the document
// language so the model corrects in it instead of translating.
var correctionKeywords = []string{"corrige", "correction", "orthographe", "grammaire"}

// Command is one parsed input line.
type Command struct {
	Kind        CommandKind
	Instruction string
	// Custom is set when the instruction was typed free-form and still
	// needs validation before running.
	Custom   bool
	SavePath string
}

// ParseCommand classifies one line of user input.
//
// Shortcut rules:
//   - quit / save [chemin] / help / uniformise → session commands
//   - corrige… → the canned correction instruction
//   - traduis [langue] → the canned translation instruction (anglais by default)
//   - améliore → the canned style instruction
//   - anything else → free-form instruction, to be validated before running
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{Kind: CommandNone}
	}
	logger.Debug("parsing command", logger.String("input", input))

	lower := strings.ToLower(input)
	switch lower {
	case "quit":
		return Command{Kind: CommandQuit}
	case "save":
		return Command{Kind: CommandSave}
	case "help":
		return Command{Kind: CommandHelp}
	case "uniformise":
		return Command{Kind: CommandUniformize}
	}

	if strings.HasPrefix(lower, "save ") {
		path := strings.TrimSpace(input[len("save "):])
		return Command{Kind: CommandSave, SavePath: strings.Trim(path, `"'`)}
	}

	switch {
	case strings.HasPrefix(lower, "corrige"):
		return Command{Kind: CommandReview, Instruction: CorrectionInstruction}
	case strings.HasPrefix(lower, "traduis"):
		return Command{Kind: CommandReview, Instruction: TranslateInstruction(targetLanguage(input))}
	case lower == "améliore":
		return Command{Kind: CommandReview, Instruction: ImproveInstruction}
	}

	return Command{Kind: CommandReview, Instruction: input, Custom: true}
}

// TranslateInstruction builds the canned translation instruction for a
// target language.
func TranslateInstruction(language string) string {
	return fmt.Sprintf("Traduis ce texte en %s.", language)
}

// targetLanguage extracts the language following the traduis keyword,
// keeping the user's casing.
func targetLanguage(input string) string {
	if i := strings.IndexByte(input, ' '); i >= 0 {
		if lang := strings.TrimSpace(input[i+1:]); lang != "" {
			return lang
		}
	}
	return DefaultTargetLanguage
}

// IsCorrection reports whether an instruction asks for a spelling or
// grammar pass.
func IsCorrection(instruction string) bool {
	lower := strings.ToLower(instruction)
	for _, kw := range correctionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
