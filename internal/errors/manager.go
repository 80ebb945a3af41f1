// Package errors provides failure tracking for review sessions. Units whose
// rewrite could not be applied are persisted so the CLI can list them after
// a pass and a later session can retry them.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrorStage identifies where in the review pipeline a unit failed.
type ErrorStage string

const (
	// StageValidation covers instruction validation failures
	StageValidation ErrorStage = "validation"
	// StageResolution covers target identification failures
	StageResolution ErrorStage = "resolution"
	// StageGeneration covers model call failures
	StageGeneration ErrorStage = "generation"
	// StageApplication covers failures while writing the rewrite back
	StageApplication ErrorStage = "application"
	// StageSave covers document save failures
	StageSave ErrorStage = "save"
)

// ErrorRecord is one persisted unit failure.
type ErrorRecord struct {
	// ID is the record key, derived from the document path and unit index
	ID          string     `json:"id"`
	Document    string     `json:"document"`
	UnitIndex   int        `json:"unit_index"` // 1-based, 0 for whole-document failures
	Instruction string     `json:"instruction"`
	Stage       ErrorStage `json:"stage"`
	ErrorMsg    string     `json:"error_msg"`
	Timestamp   time.Time  `json:"timestamp"`
	CanRetry    bool       `json:"can_retry"`
	RetryCount  int        `json:"retry_count"`
	LastRetry   time.Time  `json:"last_retry"`
}

// ErrorManager persists unit failures under baseDir/errors.json.
type ErrorManager struct {
	baseDir string
	mu      sync.RWMutex
	errors  map[string]*ErrorRecord // key: ID
}

// NewErrorManager creates a new error manager, loading any existing records.
// An empty baseDir defaults to ~/.doc-reviewer/errors.
func NewErrorManager(baseDir string) (*ErrorManager, error) {
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".doc-reviewer", "errors")
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create errors directory: %w", err)
	}

	em := &ErrorManager{
		baseDir: baseDir,
		errors:  make(map[string]*ErrorRecord),
	}

	if err := em.load(); err != nil {
		return nil, err
	}

	return em, nil
}

// RecordID builds the record key for a document unit. Use unitIndex 0 for
// failures that concern the whole document.
func RecordID(document string, unitIndex int) string {
	return fmt.Sprintf("%s#%d", document, unitIndex)
}

// RecordError records a unit failure. Recording the same unit again keeps
// its retry history.
func (em *ErrorManager) RecordError(document string, unitIndex int, instruction string, stage ErrorStage, errorMsg string) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	id := RecordID(document, unitIndex)
	record := &ErrorRecord{
		ID:          id,
		Document:    document,
		UnitIndex:   unitIndex,
		Instruction: instruction,
		Stage:       stage,
		ErrorMsg:    errorMsg,
		Timestamp:   time.Now(),
		CanRetry:    true,
		RetryCount:  0,
	}

	if existing, ok := em.errors[id]; ok {
		record.RetryCount = existing.RetryCount
		record.LastRetry = existing.LastRetry
	}

	em.errors[id] = record

	return em.save()
}

// IncrementRetry bumps the retry counter of a record.
func (em *ErrorManager) IncrementRetry(id string) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	if record, ok := em.errors[id]; ok {
		record.RetryCount++
		record.LastRetry = time.Now()
		return em.save()
	}

	return fmt.Errorf("error record not found: %s", id)
}

// RemoveError drops a record, typically after the unit was reviewed
// successfully.
func (em *ErrorManager) RemoveError(id string) error {
	em.mu.Lock()
	defer em.mu.Unlock()

	delete(em.errors, id)
	return em.save()
}

// ListErrors returns all records ordered by failure time, oldest first.
func (em *ErrorManager) ListErrors() []*ErrorRecord {
	em.mu.RLock()
	defer em.mu.RUnlock()

	records := make([]*ErrorRecord, 0, len(em.errors))
	for _, record := range em.errors {
		recordCopy := *record
		records = append(records, &recordCopy)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].ID < records[j].ID
		}
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records
}

// ListForDocument returns the records of one document, ordered by unit index.
func (em *ErrorManager) ListForDocument(document string) []*ErrorRecord {
	em.mu.RLock()
	defer em.mu.RUnlock()

	var records []*ErrorRecord
	for _, record := range em.errors {
		if record.Document == document {
			recordCopy := *record
			records = append(records, &recordCopy)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UnitIndex < records[j].UnitIndex
	})

	return records
}

// GetError returns a copy of one record.
func (em *ErrorManager) GetError(id string) (*ErrorRecord, bool) {
	em.mu.RLock()
	defer em.mu.RUnlock()

	record, ok := em.errors[id]
	if !ok {
		return nil, false
	}

	recordCopy := *record
	return &recordCopy, true
}

// ClearAll drops every record.
func (em *ErrorManager) ClearAll() error {
	em.mu.Lock()
	defer em.mu.Unlock()

	em.errors = make(map[string]*ErrorRecord)
	return em.save()
}

func (em *ErrorManager) load() error {
	filePath := filepath.Join(em.baseDir, "errors.json")

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read errors file: %w", err)
	}

	var records []*ErrorRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal errors: %w", err)
	}

	for _, record := range records {
		em.errors[record.ID] = record
	}

	return nil
}

func (em *ErrorManager) save() error {
	records := make([]*ErrorRecord, 0, len(em.errors))
	for _, record := range em.errors {
		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal errors: %w", err)
	}

	filePath := filepath.Join(em.baseDir, "errors.json")
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write errors file: %w", err)
	}

	return nil
}

// GetStageDisplayName returns the French label of a pipeline stage for the
// CLI error listing.
func GetStageDisplayName(stage ErrorStage) string {
	switch stage {
	case StageValidation:
		return "validation de l'instruction"
	case StageResolution:
		return "identification de la cible"
	case StageGeneration:
		return "génération du texte"
	case StageApplication:
		return "application des modifications"
	case StageSave:
		return "sauvegarde du document"
	default:
		return string(stage)
	}
}
