// Package config provides configuration management for the document reviewer application.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
	"github.com/agrangetas/Doc-reviewer/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "doc-reviewer-config.json"
	// EnvOpenAIAPIKey is the environment variable name for OpenAI API key
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	// EnvOpenAIBaseURL is the environment variable name for OpenAI base URL
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	// EnvOpenAIModel is the environment variable name for the OpenAI model
	EnvOpenAIModel = "OPENAI_MODEL"
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is the default OpenAI model to use
	DefaultModel = "gpt-4o"
	// DefaultMaxRetries is how many times a failed model call is retried
	DefaultMaxRetries = 3
	// DefaultRequestTimeout is the per-request timeout in seconds
	DefaultRequestTimeout = 120
	// DefaultContextUnits is how many preceding units feed the generation context
	DefaultContextUnits = 2
	// DefaultHistoryDepth is how many conversation messages carry over between units
	DefaultHistoryDepth = 5
	// DefaultChangelogDirectory is where per-document modification logs go
	DefaultChangelogDirectory = "LOGS"
	// DefaultStyleConfigPath is the style uniformization rules file
	DefaultStyleConfigPath = "style_config.yaml"
	// maxInputHistory caps the recently opened documents list
	maxInputHistory = 10
)

// ConfigManager manages application configuration
type ConfigManager struct {
	configPath  string
	config      *types.Config
	styleConfig *StyleConfig
}

// NewConfigManager creates a new ConfigManager with the specified config path.
// If configPath is empty, it uses the default path in user's home directory.
func NewConfigManager(configPath string) (*ConfigManager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "doc-reviewer", DefaultConfigFileName)
	}

	logger.Info("ConfigManager initialized", logger.String("configPath", configPath))
	return &ConfigManager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		OpenAIAPIKey:       "",
		OpenAIBaseURL:      DefaultBaseURL,
		OpenAIModel:        DefaultModel,
		MaxRetries:         DefaultMaxRetries,
		RequestTimeout:     DefaultRequestTimeout,
		ContextUnits:       DefaultContextUnits,
		HistoryDepth:       DefaultHistoryDepth,
		WorkDirectory:      "",
		ChangelogDirectory: DefaultChangelogDirectory,
		StyleConfigPath:    DefaultStyleConfigPath,
	}
}

// Load loads configuration from the config file.
// A .env file in the working directory is read first so its variables are
// visible to the environment fallbacks. If the config file doesn't exist,
// defaults are used. Environment variables take precedence for the API key,
// base URL and model when the config file values are empty.
func (m *ConfigManager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	if err := godotenv.Load(); err == nil {
		logger.Debug("environment loaded from .env file")
	}

	// Try to read the config file
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		// Parse the config file
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			// Invalid JSON, use defaults
			logger.Warn("invalid config file format, using defaults", logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			logger.Info("configuration loaded successfully",
				logger.String("path", m.configPath),
				logger.Int("apiKeyLength", len(config.OpenAIAPIKey)),
				logger.String("baseURL", config.OpenAIBaseURL),
				logger.String("model", config.OpenAIModel))
			m.config = config
		}
	}

	// Apply defaults for empty fields
	if m.config.OpenAIModel == "" {
		m.config.OpenAIModel = DefaultModel
	}
	if m.config.OpenAIBaseURL == "" {
		m.config.OpenAIBaseURL = DefaultBaseURL
	}
	if m.config.MaxRetries == 0 {
		m.config.MaxRetries = DefaultMaxRetries
	}
	if m.config.RequestTimeout == 0 {
		m.config.RequestTimeout = DefaultRequestTimeout
	}
	if m.config.ContextUnits == 0 {
		m.config.ContextUnits = DefaultContextUnits
	}
	if m.config.HistoryDepth == 0 {
		m.config.HistoryDepth = DefaultHistoryDepth
	}
	if m.config.ChangelogDirectory == "" {
		m.config.ChangelogDirectory = DefaultChangelogDirectory
	}
	if m.config.StyleConfigPath == "" {
		m.config.StyleConfigPath = DefaultStyleConfigPath
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *ConfigManager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	// Ensure the directory exists
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	// Marshal config to JSON
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	// Write to file
	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved successfully", logger.String("path", m.configPath))
	return nil
}

// GetAPIKey returns the OpenAI API key.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetAPIKey() string {
	// First check config file value
	if m.config != nil && m.config.OpenAIAPIKey != "" {
		return m.config.OpenAIAPIKey
	}

	// Fall back to environment variable
	return os.Getenv(EnvOpenAIAPIKey)
}

// SetAPIKey sets the OpenAI API key and saves the configuration.
func (m *ConfigManager) SetAPIKey(key string) error {
	logger.Info("setting API key")
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.config.OpenAIAPIKey = key
	return m.Save()
}

// GetConfig returns the current configuration.
func (m *ConfigManager) GetConfig() *types.Config {
	if m.config == nil {
		return defaultConfig()
	}
	return m.config
}

// SetConfig sets the entire configuration.
func (m *ConfigManager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the path to the config file.
func (m *ConfigManager) GetConfigPath() string {
	return m.configPath
}

// GetModel returns the OpenAI model to use.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetModel() string {
	if m.config != nil && m.config.OpenAIModel != "" && m.config.OpenAIModel != DefaultModel {
		return m.config.OpenAIModel
	}
	if envModel := os.Getenv(EnvOpenAIModel); envModel != "" {
		return envModel
	}
	return DefaultModel
}

// GetBaseURL returns the OpenAI API base URL.
// It first checks the config file value, then falls back to the environment variable.
func (m *ConfigManager) GetBaseURL() string {
	// First check config file value
	if m.config != nil && m.config.OpenAIBaseURL != "" && m.config.OpenAIBaseURL != DefaultBaseURL {
		return m.config.OpenAIBaseURL
	}

	// Fall back to environment variable
	envURL := os.Getenv(EnvOpenAIBaseURL)
	if envURL != "" {
		return envURL
	}

	return DefaultBaseURL
}

// GetWorkDirectory returns the work directory.
func (m *ConfigManager) GetWorkDirectory() string {
	if m.config != nil {
		return m.config.WorkDirectory
	}
	return ""
}

// GetChangelogDirectory returns the directory for per-document modification logs.
func (m *ConfigManager) GetChangelogDirectory() string {
	if m.config != nil && m.config.ChangelogDirectory != "" {
		return m.config.ChangelogDirectory
	}
	return DefaultChangelogDirectory
}

// GetStyleConfigPath returns the path of the style uniformization rules file.
func (m *ConfigManager) GetStyleConfigPath() string {
	if m.config != nil && m.config.StyleConfigPath != "" {
		return m.config.StyleConfigPath
	}
	return DefaultStyleConfigPath
}

// GetLastInput returns the last opened document path.
func (m *ConfigManager) GetLastInput() string {
	if m.config != nil {
		return m.config.LastInput
	}
	return ""
}

// SetLastInput records the last opened document path and saves the configuration.
func (m *ConfigManager) SetLastInput(input string) {
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.config.LastInput = input
	// Save silently, don't fail if it doesn't work
	_ = m.Save()
}

// AddInputHistory prepends a document to the recently opened list, dropping
// duplicates and keeping at most maxInputHistory entries.
func (m *ConfigManager) AddInputHistory(path string, kind types.DocumentKind) {
	if m.config == nil {
		m.config = defaultConfig()
	}

	item := types.InputHistoryItem{
		Path:      path,
		Timestamp: time.Now().UnixMilli(),
		Kind:      kind,
	}

	history := []types.InputHistoryItem{item}
	for _, h := range m.config.InputHistory {
		if h.Path == path {
			continue
		}
		history = append(history, h)
		if len(history) == maxInputHistory {
			break
		}
	}
	m.config.InputHistory = history

	// Save silently, don't fail if it doesn't work
	_ = m.Save()
}

// GetInputHistory returns the recently opened documents, most recent first.
func (m *ConfigManager) GetInputHistory() []types.InputHistoryItem {
	if m.config == nil {
		return nil
	}
	return m.config.InputHistory
}
