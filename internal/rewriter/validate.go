package rewriter

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
)

const validatorSystemPrompt = `Tu es un validateur d'instructions pour un outil de révision de documents Word avec IA.
L'outil utilise un LLM (GPT) pour modifier le TEXTE du document.

IMPORTANT : Le LLM peut UNIQUEMENT modifier le texte, PAS le formatage (gras, italic, couleur, police).

Tu dois vérifier :
1. L'instruction s'applique-t-elle à TOUT le document (pas un endroit spécifique) ?
2. L'instruction demande-t-elle du formatage impossible (gras, italic, police, couleur) ?

CE QUI EST POSSIBLE :
- Modifier le contenu textuel (rendre professionnel, simplifier, etc.)
- MAJUSCULES/minuscules (c'est du texte)
- Traduction, reformulation, ton, style d'écriture

CE QUI EST IMPOSSIBLE :
- Gras, italic, souligné
- Changer la police ou la taille
- Couleurs, surlignage

EXEMPLES VALIDES :
- 'rends le texte plus professionnel' ✓
- 'met tout en MAJUSCULES' ✓
- 'simplifie le vocabulaire' ✓

EXEMPLES À REFORMULER :
- 'met en gras et majuscule' → REFORMULER vers 'met en MAJUSCULES'
- 'change la police en Arial et rends formel' → REFORMULER vers 'rends le texte plus formel'

EXEMPLES INVALIDES :
- 'change le titre' (spécifique)
- 'met en gras' (impossible, aucune reformulation textuelle)

Réponds UNIQUEMENT par l'un de ces formats :
- 'VALIDE' si l'instruction est entièrement réalisable
- 'REFORMULER: [nouvelle instruction]' si possible en retirant les parties impossibles
- 'INVALIDE: [raison]' si l'instruction cible un endroit spécifique ou est entièrement impossible
`

// Validation is the verdict on a custom instruction. Exactly one of Valid,
// Reason and Reformulation is meaningful.
type Validation struct {
	Valid         bool
	Reason        string
	Reformulation string
}

// ValidateInstruction checks that a custom instruction is a text-only edit
// that applies to the whole document. A model failure counts as valid.
func (rw *Rewriter) ValidateInstruction(ctx context.Context, instruction string) Validation {
	result, err := rw.call(ctx, []*schema.Message{
		schema.SystemMessage(validatorSystemPrompt),
		schema.UserMessage("Instruction à valider : " + instruction),
	}, rewriteTemperature)
	if err != nil {
		logger.Warn("instruction validation failed, letting it through", logger.Err(err))
		return Validation{Valid: true}
	}

	switch {
	case strings.HasPrefix(result, "VALIDE"):
		return Validation{Valid: true}
	case strings.HasPrefix(result, "REFORMULER:"):
		return Validation{Reformulation: strings.TrimSpace(strings.ReplaceAll(result, "REFORMULER:", ""))}
	case strings.HasPrefix(result, "INVALIDE"):
		return Validation{Reason: strings.TrimSpace(strings.ReplaceAll(result, "INVALIDE:", ""))}
	default:
		return Validation{Reason: "Format de réponse inattendu du validateur."}
	}
}
