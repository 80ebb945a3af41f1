// Package langdetect identifies the dominant language of a document so
// prompts can name it explicitly.
package langdetect

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// sampleSize caps how many units feed the detector; the opening of a
// document is enough to classify it.
const sampleSize = 10

// languageNames maps ISO codes to the French names shown to the user and
// sent in prompts. Codes outside the table fall back to CLDR names.
var languageNames = map[string]string{
	"fr":    "Français",
	"en":    "Anglais",
	"es":    "Espagnol",
	"de":    "Allemand",
	"it":    "Italien",
	"pt":    "Portugais",
	"nl":    "Néerlandais",
	"ru":    "Russe",
	"zh-cn": "Chinois (simplifié)",
	"zh-tw": "Chinois (traditionnel)",
	"ja":    "Japonais",
	"ko":    "Coréen",
	"ar":    "Arabe",
	"tr":    "Turc",
	"pl":    "Polonais",
	"sv":    "Suédois",
	"da":    "Danois",
	"no":    "Norvégien",
	"fi":    "Finnois",
}

// Detect returns the ISO language code of the given unit texts, empty when
// nothing usable is found. Only the first non-empty texts are sampled.
func Detect(texts []string) string {
	var parts []string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		parts = append(parts, t)
		if len(parts) == sampleSize {
			break
		}
	}
	sample := strings.Join(parts, " ")
	if sample == "" {
		return ""
	}

	info := whatlanggo.Detect(sample)
	if info.Lang < 0 {
		return ""
	}
	code := whatlanggo.LangToString(info.Lang)
	if code == "" {
		return ""
	}

	// whatlanggo speaks ISO 639-3; canonicalize to the shortest BCP 47
	// form so "fra" becomes "fr".
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}

// Name returns the French display name for a language code, or
// "Langue inconnue (code)" when the code cannot be resolved.
func Name(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Sprintf("Langue inconnue (%s)", code)
	}
	name := display.Tags(language.French).Name(tag)
	if name == "" {
		return fmt.Sprintf("Langue inconnue (%s)", code)
	}
	return cases.Title(language.French).String(name)
}
