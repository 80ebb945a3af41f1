package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
)

// Size is a configured font size: either a fixed point value or "auto",
// which resolves to the document's majority size at uniformization time.
type Size struct {
	Auto   bool
	Points float64
}

// UnmarshalYAML accepts either the literal "auto" or a numeric point size.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	var text string
	if err := value.Decode(&text); err == nil {
		if strings.EqualFold(strings.TrimSpace(text), "auto") {
			*s = Size{Auto: true}
			return nil
		}
	}

	var points float64
	if err := value.Decode(&points); err != nil {
		return fmt.Errorf("invalid size %q: want a number or \"auto\"", value.Value)
	}
	*s = Size{Points: points}
	return nil
}

// FontConfig selects the target font family.
type FontConfig struct {
	// Name is a font family name, or "auto" for the document majority font
	Name string `yaml:"name"`
}

// Auto reports whether the font resolves to the document majority.
func (f FontConfig) Auto() bool {
	return strings.EqualFold(strings.TrimSpace(f.Name), "auto")
}

// SizesConfig selects target sizes per text role.
type SizesConfig struct {
	TextNormal Size `yaml:"text_normal"`
	Heading1   Size `yaml:"heading_1"`
	Heading2   Size `yaml:"heading_2"`
	Heading3   Size `yaml:"heading_3"`
}

// PreserveConfig lists formatting that uniformization must not touch.
type PreserveConfig struct {
	IntentionalEmphasis bool `yaml:"intentional_emphasis"`
	Quotes              bool `yaml:"quotes"`
	CodeBlocks          bool `yaml:"code_blocks"`
}

// HeuristicRules tunes heading detection when named styles are absent.
type HeuristicRules struct {
	// MaxLength is the longest text, in characters, still considered a heading
	MaxLength int `yaml:"max_length"`
	// MustBeBold requires the first run to be bold
	MustBeBold bool `yaml:"must_be_bold"`
	// MinSize marks any text at or above this point size as a heading, 0 disables
	MinSize float64 `yaml:"min_size"`
}

// HeadingDetectionConfig controls how headings are told apart from body text.
type HeadingDetectionConfig struct {
	UseWordStyles  bool           `yaml:"use_word_styles"`
	UseHeuristics  bool           `yaml:"use_heuristics"`
	HeuristicRules HeuristicRules `yaml:"heuristic_rules"`
}

// ExceptionsConfig lists run-level exemptions from uniformization.
type ExceptionsConfig struct {
	PreserveIfSingleWord  bool `yaml:"preserve_if_single_word"`
	PreserveStyleEmphasis bool `yaml:"preserve_style_emphasis"`
}

// ApplicationConfig controls how uniformization is applied.
type ApplicationConfig struct {
	AskConfirmation bool `yaml:"ask_confirmation"`
	ShowPreview     bool `yaml:"show_preview"`
	CreateBackup    bool `yaml:"create_backup"`
}

// StyleConfig is the style uniformization rule set, loaded from YAML.
type StyleConfig struct {
	Font             FontConfig             `yaml:"font"`
	Sizes            SizesConfig            `yaml:"sizes"`
	Preserve         PreserveConfig         `yaml:"preserve"`
	HeadingDetection HeadingDetectionConfig `yaml:"heading_detection"`
	Exceptions       ExceptionsConfig       `yaml:"exceptions"`
	Application      ApplicationConfig      `yaml:"application"`
}

// DefaultStyleConfig returns the rule set used when no YAML file exists:
// resolve font and text size from the document majority, preserve emphasis,
// and ask before applying.
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		Font: FontConfig{Name: "auto"},
		Sizes: SizesConfig{
			TextNormal: Size{Auto: true},
			Heading1:   Size{Auto: true},
			Heading2:   Size{Auto: true},
			Heading3:   Size{Auto: true},
		},
		Preserve: PreserveConfig{
			IntentionalEmphasis: true,
			Quotes:              true,
			CodeBlocks:          true,
		},
		HeadingDetection: HeadingDetectionConfig{
			UseWordStyles: true,
			UseHeuristics: true,
			HeuristicRules: HeuristicRules{
				MaxLength:  100,
				MustBeBold: true,
			},
		},
		Exceptions: ExceptionsConfig{
			PreserveIfSingleWord:  true,
			PreserveStyleEmphasis: true,
		},
		Application: ApplicationConfig{
			AskConfirmation: true,
			ShowPreview:     true,
			CreateBackup:    true,
		},
	}
}

// LoadStyleConfig reads the style rules from the configured YAML path.
// Missing files fall back to defaults; keys absent from the file keep their
// default values. The result is cached for the manager's lifetime.
func (m *ConfigManager) LoadStyleConfig() *StyleConfig {
	if m.styleConfig != nil {
		return m.styleConfig
	}

	path := m.GetStyleConfigPath()
	cfg := DefaultStyleConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read style config, using defaults", logger.String("path", path), logger.Err(err))
		}
		m.styleConfig = cfg
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.Warn("invalid style config, using defaults", logger.String("path", path), logger.Err(err))
		m.styleConfig = DefaultStyleConfig()
		return m.styleConfig
	}

	logger.Debug("style config loaded", logger.String("path", path))
	m.styleConfig = cfg
	return cfg
}
