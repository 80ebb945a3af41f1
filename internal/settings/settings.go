// Package settings provides local settings file management.
// Settings are stored in settings.json in the program directory.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	// SettingsFileName is the name of the settings file
	SettingsFileName = "settings.json"
)

// LocalSettings represents sticky per-install preferences stored next to
// the executable. Everything here overrides the regular configuration.
type LocalSettings struct {
	// DefaultLanguage is the ISO code assumed for documents whose language
	// cannot be detected (e.g. "fr")
	DefaultLanguage string `json:"default_language,omitempty"`
	// ContextUnits overrides how many preceding paragraphs feed the model context
	ContextUnits int `json:"context_units,omitempty"`
	// KeepChangelog disables the modification journal when set to false
	KeepChangelog *bool `json:"keep_changelog,omitempty"`
}

// Manager manages local settings file
type Manager struct {
	filePath string
	settings *LocalSettings
	mu       sync.RWMutex
}

// NewManager creates a new settings manager
// It looks for settings.json in the program's directory
func NewManager() (*Manager, error) {
	// Get the executable's directory
	exePath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	exeDir := filepath.Dir(exePath)

	// Settings file path
	filePath := filepath.Join(exeDir, SettingsFileName)

	m := &Manager{
		filePath: filePath,
		settings: &LocalSettings{},
	}

	// Try to load existing settings
	_ = m.Load() // Ignore error if file doesn't exist

	return m, nil
}

// NewManagerWithPath creates a new settings manager with a custom path
// Useful for testing
func NewManagerWithPath(filePath string) *Manager {
	m := &Manager{
		filePath: filePath,
		settings: &LocalSettings{},
	}
	_ = m.Load()
	return m
}

// Load loads settings from the file
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use empty settings
			m.settings = &LocalSettings{}
			return nil
		}
		return err
	}

	var settings LocalSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		// Invalid JSON, use empty settings
		m.settings = &LocalSettings{}
		return err
	}

	m.settings = &settings
	return nil
}

// Save saves settings to the file
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(m.filePath, data, 0600)
}

// GetDefaultLanguage returns the fallback document language, empty when unset
func (m *Manager) GetDefaultLanguage() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.DefaultLanguage
}

// SetDefaultLanguage sets the fallback document language and saves
func (m *Manager) SetDefaultLanguage(lang string) error {
	m.mu.Lock()
	m.settings.DefaultLanguage = lang
	m.mu.Unlock()

	return m.Save()
}

// GetContextUnits returns the context override, zero when unset
func (m *Manager) GetContextUnits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.ContextUnits
}

// SetContextUnits sets the context override and saves
func (m *Manager) SetContextUnits(n int) error {
	m.mu.Lock()
	m.settings.ContextUnits = n
	m.mu.Unlock()

	return m.Save()
}

// KeepChangelog reports whether the modification journal should be written.
// Unset means yes.
func (m *Manager) KeepChangelog() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.KeepChangelog == nil || *m.settings.KeepChangelog
}

// SetKeepChangelog sets whether the modification journal is written and saves
func (m *Manager) SetKeepChangelog(keep bool) error {
	m.mu.Lock()
	m.settings.KeepChangelog = &keep
	m.mu.Unlock()

	return m.Save()
}

// GetFilePath returns the settings file path
func (m *Manager) GetFilePath() string {
	return m.filePath
}
