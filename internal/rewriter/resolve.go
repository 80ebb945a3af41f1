package rewriter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const resolverSystemPrompt = "Tu es un assistant d'identification d'éléments dans des documents. Réponds UNIQUEMENT en JSON valide."

const identificationPrompt = `Tu es un assistant qui identifie précisément des éléments dans un document.

STRUCTURE DU DOCUMENT :
%s

INSTRUCTION UTILISATEUR :
"%s"

TÂCHE :
1. Analyse l'instruction pour identifier :
   - La portée (élément spécifique ou global)
   - La description de l'élément à modifier
   - L'action à effectuer

2. Identifie l'élément correspondant dans la structure

3. Retourne UNIQUEMENT un JSON (sans texte avant/après, sans markdown) :

Pour un document Word :
{
  "scope": "specific",
  "target": {
    "paragraph": <numéro>
  },
  "instruction": "<action à effectuer>",
  "element_description": "<description de ce qui a été identifié>",
  "confidence": <0.0-1.0>,
  "ambiguity": null
}

Pour une présentation PowerPoint :
{
  "scope": "specific",
  "target": {
    "slide": <numéro>,
    "shape": <id>,
    "paragraph_in_shape": <numéro ou null>
  },
  "instruction": "<action à effectuer>",
  "element_description": "<description de ce qui a été identifié>",
  "confidence": <0.0-1.0>,
  "ambiguity": null
}

Si l'instruction est GLOBALE (pas de cible spécifique mentionnée) :
{
  "scope": "global",
  "target": {},
  "instruction": "<action à effectuer>",
  "element_description": "document entier",
  "confidence": 1.0,
  "ambiguity": null
}

Si AMBIGU ou impossible à identifier avec certitude :
{
  "scope": "specific",
  "target": {...meilleure estimation...},
  "instruction": "...",
  "element_description": "...",
  "confidence": << 0.7>,
  "ambiguity": "<explication de l'ambiguïté ou des alternatives>"
}

RÈGLES :
- Si "slide X" ou "paragraphe Y" est explicitement mentionné, utilise ces numéros
- Utilise la position sémantique (haut, bas, gauche, droite, centre) pour identifier
- Utilise le contenu (mots-clés dans text_preview) pour confirmer
- Si plusieurs éléments correspondent, choisis le plus probable et mets confidence < 0.7
- Extrais l'ACTION pure (ex: "traduis en chinois", "corrige", "améliore")
- confidence = 1.0 si identification certaine, < 0.7 si doute
`

// confidenceFloor is the minimum confidence for acting on a specific target
const confidenceFloor = 0.7

// ScopeGlobal and ScopeSpecific are the two scopes a resolved target can have.
const (
	ScopeGlobal   = "global"
	ScopeSpecific = "specific"
)

// ResolvedTarget locates the document element a free-form instruction aims
// at. Pointer fields stay nil when the model did not name that coordinate.
type ResolvedTarget struct {
	Scope string

	// Word
	Paragraph *int

	// PowerPoint
	Slide            *int
	Shape            *int
	ParagraphInShape *int

	Instruction        string
	ElementDescription string
	Confidence         float64
	Ambiguity          string
}

// IsConfident reports whether the identification clears the confidence floor.
func (t *ResolvedTarget) IsConfident() bool {
	return t.Confidence >= confidenceFloor
}

// IsSpecific reports whether the target names a single element.
func (t *ResolvedTarget) IsSpecific() bool {
	return t.Scope == ScopeSpecific
}

// Describe renders the target for interactive display.
func (t *ResolvedTarget) Describe(kind types.DocumentKind) string {
	if t.Scope == ScopeGlobal {
		return "Document entier"
	}

	var parts []string
	switch kind {
	case types.DocumentWord:
		if t.Paragraph != nil && *t.Paragraph != 0 {
			parts = append(parts, fmt.Sprintf("Paragraphe %d", *t.Paragraph))
		}
	case types.DocumentPowerPoint:
		if t.Slide != nil && *t.Slide != 0 {
			parts = append(parts, fmt.Sprintf("Slide %d", *t.Slide))
		}
		if t.Shape != nil {
			parts = append(parts, fmt.Sprintf("Shape %d", *t.Shape))
		}
		if t.ParagraphInShape != nil && *t.ParagraphInShape != 0 {
			parts = append(parts, fmt.Sprintf("Paragraphe %d", *t.ParagraphInShape))
		}
	}

	description := "Élément non spécifié"
	if len(parts) > 0 {
		description = strings.Join(parts, " > ")
	}
	if t.ElementDescription != "" {
		description += fmt.Sprintf(" (%s)", t.ElementDescription)
	}
	return description
}

// resolvedPayload mirrors the JSON shape the identification prompt requests.
type resolvedPayload struct {
	Scope              string         `json:"scope"`
	Target             resolvedCoords `json:"target"`
	Instruction        string         `json:"instruction"`
	ElementDescription string         `json:"element_description"`
	Confidence         float64        `json:"confidence"`
	Ambiguity          *string        `json:"ambiguity"`
}

type resolvedCoords struct {
	Paragraph        *int `json:"paragraph"`
	Slide            *int `json:"slide"`
	Shape            *int `json:"shape"`
	ParagraphInShape *int `json:"paragraph_in_shape"`
}

// ResolveTarget asks the model which element a free-form instruction points
// at, given the document outline as JSON. The result is never nil; failures
// come back as an unconfident global target with the error in Ambiguity.
func (rw *Rewriter) ResolveTarget(ctx context.Context, userInput, outlineJSON string, kind types.DocumentKind) *ResolvedTarget {
	prompt := fmt.Sprintf(identificationPrompt, outlineJSON, userInput)

	response, err := rw.call(ctx, []*schema.Message{
		schema.SystemMessage(resolverSystemPrompt),
		schema.UserMessage(prompt),
	}, resolveTemperature)
	if err != nil {
		logger.Warn("target identification failed", logger.Err(err))
		return &ResolvedTarget{
			Scope:              ScopeGlobal,
			Instruction:        userInput,
			ElementDescription: "document entier (erreur d'identification)",
			Ambiguity:          fmt.Sprintf("Erreur lors de l'identification: %v", err),
		}
	}

	return parseResolved(response, kind)
}

// parseResolved decodes the model's JSON reply into a ResolvedTarget,
// keeping only the coordinates that exist for the document kind.
func parseResolved(response string, kind types.DocumentKind) *ResolvedTarget {
	cleaned := stripMarkdownFences(response)

	var payload resolvedPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return &ResolvedTarget{
			Scope:              ScopeGlobal,
			Instruction:        cleaned,
			ElementDescription: "erreur de parsing",
			Ambiguity:          fmt.Sprintf("Réponse LLM invalide (JSON): %v", err),
		}
	}

	target := &ResolvedTarget{
		Scope:              payload.Scope,
		Instruction:        payload.Instruction,
		ElementDescription: payload.ElementDescription,
		Confidence:         payload.Confidence,
	}
	if target.Scope == "" {
		target.Scope = ScopeGlobal
	}
	if payload.Ambiguity != nil {
		target.Ambiguity = *payload.Ambiguity
	}

	switch kind {
	case types.DocumentWord:
		target.Paragraph = payload.Target.Paragraph
	case types.DocumentPowerPoint:
		target.Slide = payload.Target.Slide
		target.Shape = payload.Target.Shape
		target.ParagraphInShape = payload.Target.ParagraphInShape
	}

	return target
}

// stripMarkdownFences unwraps a ``` block some models put around JSON.
func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 {
		lines = lines[1:]
	}
	s = strings.TrimSpace(strings.Join(lines, "\n"))
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(s)
}
