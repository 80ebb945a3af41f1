// Package results provides review session result management. Every review
// session gets a UUID and a directory holding its review.json metadata, so
// past sessions can be listed and unfinished ones spotted.
package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrangetas/Doc-reviewer/internal/types"
)

// SessionStatus represents the lifecycle state of a review session
type SessionStatus string

const (
	// StatusRunning indicates the session is still reviewing
	StatusRunning SessionStatus = "running"
	// StatusComplete indicates the session finished and the document was saved
	StatusComplete SessionStatus = "complete"
	// StatusInterrupted indicates the user quit before saving
	StatusInterrupted SessionStatus = "interrupted"
	// StatusError indicates the session aborted on an error
	StatusError SessionStatus = "error"
)

// SessionInfo represents the metadata of one review session
type SessionInfo struct {
	SessionID    string             `json:"session_id"`
	Document     string             `json:"document"`
	Kind         types.DocumentKind `json:"kind"`
	Language     string             `json:"language,omitempty"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
	Status       SessionStatus      `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
	// Instructions lists every instruction applied, in order
	Instructions []string            `json:"instructions"`
	Summary      types.ReviewSummary `json:"summary"`
	// OutputPath is where the reviewed document was saved
	OutputPath    string `json:"output_path,omitempty"`
	ChangelogPath string `json:"changelog_path,omitempty"`
}

// ResultManager manages session metadata stored under a base directory
type ResultManager struct {
	baseDir string
}

// NewResultManager creates a new ResultManager with the specified base directory.
// If baseDir is empty, uses the default location in user's home directory.
func NewResultManager(baseDir string) (*ResultManager, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		baseDir = filepath.Join(homeDir, "doc-reviewer-results")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &ResultManager{baseDir: baseDir}, nil
}

// GetBaseDir returns the base directory for results
func (m *ResultManager) GetBaseDir() string {
	return m.baseDir
}

// GetSessionDir returns the directory path for a specific session
func (m *ResultManager) GetSessionDir(sessionID string) string {
	return filepath.Join(m.baseDir, sanitizeSessionID(sessionID))
}

// NewSession builds the metadata of a fresh session for a document. The
// caller saves it once the review starts.
func (m *ResultManager) NewSession(document string, kind types.DocumentKind, language string) *SessionInfo {
	return &SessionInfo{
		SessionID:    uuid.NewString(),
		Document:     document,
		Kind:         kind,
		Language:     language,
		StartedAt:    time.Now(),
		Status:       StatusRunning,
		Instructions: []string{},
	}
}

// SaveSessionInfo saves session metadata to the session's directory
func (m *ResultManager) SaveSessionInfo(info *SessionInfo) error {
	sessionDir := m.GetSessionDir(info.SessionID)

	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return err
	}

	metaPath := filepath.Join(sessionDir, "review.json")
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(metaPath, data, 0644)
}

// LoadSessionInfo loads session metadata from the session's directory
func (m *ResultManager) LoadSessionInfo(sessionID string) (*SessionInfo, error) {
	metaPath := filepath.Join(m.GetSessionDir(sessionID), "review.json")

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var info SessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// ListSessions returns all recorded sessions, newest first
func (m *ResultManager) ListSessions() ([]*SessionInfo, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*SessionInfo{}, nil
		}
		return nil, err
	}

	var sessions []*SessionInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(m.baseDir, entry.Name(), "review.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue // Skip directories without metadata
		}

		var info SessionInfo
		if err := json.Unmarshal(data, &info); err != nil {
			continue
		}

		sessions = append(sessions, &info)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})

	return sessions, nil
}

// DeleteSession deletes a session and all its associated files
func (m *ResultManager) DeleteSession(sessionID string) error {
	return os.RemoveAll(m.GetSessionDir(sessionID))
}

// SessionExists checks if a session with the given ID exists
func (m *ResultManager) SessionExists(sessionID string) bool {
	metaPath := filepath.Join(m.GetSessionDir(sessionID), "review.json")
	_, err := os.Stat(metaPath)
	return err == nil
}

// RecordInstruction appends an applied instruction to a session
func (m *ResultManager) RecordInstruction(sessionID, instruction string) error {
	info, err := m.LoadSessionInfo(sessionID)
	if err != nil {
		return err
	}

	info.Instructions = append(info.Instructions, instruction)

	return m.SaveSessionInfo(info)
}

// UpdateSummary replaces the outcome tally of a session
func (m *ResultManager) UpdateSummary(sessionID string, summary types.ReviewSummary) error {
	info, err := m.LoadSessionInfo(sessionID)
	if err != nil {
		return err
	}

	info.Summary = summary

	return m.SaveSessionInfo(info)
}

// UpdateSessionPaths records where the reviewed document and its changelog
// were written. Empty values leave the stored paths untouched.
func (m *ResultManager) UpdateSessionPaths(sessionID, outputPath, changelogPath string) error {
	info, err := m.LoadSessionInfo(sessionID)
	if err != nil {
		return err
	}

	if outputPath != "" {
		info.OutputPath = outputPath
	}
	if changelogPath != "" {
		info.ChangelogPath = changelogPath
	}

	return m.SaveSessionInfo(info)
}

// FinishSession closes a session with a final status
func (m *ResultManager) FinishSession(sessionID string, status SessionStatus, errorMsg string) error {
	info, err := m.LoadSessionInfo(sessionID)
	if err != nil {
		return err
	}

	info.Status = status
	info.ErrorMessage = errorMsg
	info.FinishedAt = time.Now()

	return m.SaveSessionInfo(info)
}

// GetIncompleteSessions returns sessions that never reached a final save
func (m *ResultManager) GetIncompleteSessions() ([]*SessionInfo, error) {
	sessions, err := m.ListSessions()
	if err != nil {
		return nil, err
	}

	var incomplete []*SessionInfo
	for _, session := range sessions {
		if session.Status != StatusComplete {
			incomplete = append(incomplete, session)
		}
	}

	return incomplete, nil
}

// sanitizeSessionID converts a session ID to a safe directory name
func sanitizeSessionID(sessionID string) string {
	safe := strings.ReplaceAll(sessionID, "/", "_")
	safe = strings.ReplaceAll(safe, ":", "_")
	safe = strings.ReplaceAll(safe, "\\", "_")
	return safe
}
