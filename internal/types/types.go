// Package types defines core data types and enums for the document reviewer application.
package types

import (
	"path/filepath"
	"strings"
)

// DocumentKind identifies the supported document formats.
type DocumentKind string

const (
	// DocumentWord is a WordprocessingML document (.docx, .doc)
	DocumentWord DocumentKind = "word"
	// DocumentPowerPoint is a PresentationML document (.pptx, .ppt)
	DocumentPowerPoint DocumentKind = "powerpoint"
)

// DisplayName returns the human-readable format name.
func (k DocumentKind) DisplayName() string {
	switch k {
	case DocumentWord:
		return "Word"
	case DocumentPowerPoint:
		return "PowerPoint"
	default:
		return string(k)
	}
}

// DetectKind determines the document kind from the file extension.
func DetectKind(path string) (DocumentKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".docx", ".doc":
		return DocumentWord, nil
	case ".pptx", ".ppt":
		return DocumentPowerPoint, nil
	default:
		return "", NewAppErrorWithDetails(ErrUnsupportedFormat,
			"unsupported document format", ext, nil)
	}
}

// UnitOutcome is the result of processing a single text unit.
type UnitOutcome string

const (
	// OutcomeModified means the rewrite was applied and kept
	OutcomeModified UnitOutcome = "modified"
	// OutcomeUnchanged means the generated text matched the original
	OutcomeUnchanged UnitOutcome = "unchanged"
	// OutcomeReverted means the rewrite destroyed embedded media and was rolled back
	OutcomeReverted UnitOutcome = "reverted"
	// OutcomeError means processing the unit failed
	OutcomeError UnitOutcome = "error"
)

// ReviewPhase tracks where a review session currently is.
type ReviewPhase string

const (
	PhaseIdle         ReviewPhase = "idle"
	PhaseLoading      ReviewPhase = "loading"
	PhaseValidating   ReviewPhase = "validating"
	PhaseReviewing    ReviewPhase = "reviewing"
	PhaseVerifying    ReviewPhase = "verifying"
	PhaseUniformizing ReviewPhase = "uniformizing"
	PhaseSaving       ReviewPhase = "saving"
	PhaseComplete     ReviewPhase = "complete"
	PhaseError        ReviewPhase = "error"
)

// Status reports review progress.
type Status struct {
	Phase    ReviewPhase `json:"phase"`
	Progress int         `json:"progress"` // 0-100
	Message  string      `json:"message"`
	Error    string      `json:"error,omitempty"`
}

// UnitResult records what happened to one text unit during a review pass.
type UnitResult struct {
	Index        int         `json:"index"` // 1-based position in document order
	Outcome      UnitOutcome `json:"outcome"`
	OriginalText string      `json:"original_text,omitempty"`
	ModifiedText string      `json:"modified_text,omitempty"`
	Error        string      `json:"error,omitempty"`
}

// ReviewSummary tallies unit outcomes for a whole pass.
type ReviewSummary struct {
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
	Reverted  int `json:"reverted"`
	Errors    int `json:"errors"`
}

// Total returns the number of units the pass visited.
func (s ReviewSummary) Total() int {
	return s.Modified + s.Unchanged + s.Reverted + s.Errors
}

// Add counts one unit outcome into the summary.
func (s *ReviewSummary) Add(outcome UnitOutcome) {
	switch outcome {
	case OutcomeModified:
		s.Modified++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeReverted:
		s.Reverted++
	case OutcomeError:
		s.Errors++
	}
}

// DocumentInfo summarizes a loaded document.
type DocumentInfo struct {
	Path           string       `json:"path"`
	Kind           DocumentKind `json:"kind"`
	UnitCount      int          `json:"unit_count"`
	ImageCount     int          `json:"image_count"`
	UnitsWithMedia []int        `json:"units_with_media,omitempty"` // 1-based indices
	Language       string       `json:"language,omitempty"`         // ISO code, e.g. "fr"
	LanguageName   string       `json:"language_name,omitempty"`    // display name, e.g. "Français"
}

// InputHistoryItem is one entry in the recently opened documents list.
type InputHistoryItem struct {
	Path      string       `json:"path"`
	Timestamp int64        `json:"timestamp"` // Unix milliseconds
	Kind      DocumentKind `json:"kind"`
}

// Config holds the application configuration.
type Config struct {
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"` // base URL for OpenAI-compatible APIs
	OpenAIModel   string `json:"openai_model"`
	// MaxRetries is how many times a failed model call is retried
	MaxRetries int `json:"max_retries"`
	// RequestTimeout is the per-request timeout in seconds
	RequestTimeout int `json:"request_timeout_seconds"`
	// ContextUnits is how many preceding units feed the generation context
	ContextUnits int `json:"context_units"`
	// HistoryDepth is how many conversation messages carry over between units
	HistoryDepth int `json:"history_depth"`
	// WorkDirectory is where backups and session results are written
	WorkDirectory string `json:"work_directory"`
	// ChangelogDirectory is where per-document modification logs are written
	ChangelogDirectory string `json:"changelog_directory"`
	// StyleConfigPath points to the style uniformization rules (YAML)
	StyleConfigPath string             `json:"style_config_path"`
	LastInput       string             `json:"last_input"`
	InputHistory    []InputHistoryItem `json:"input_history"`
}

// ErrorCode identifies a category of application error.
type ErrorCode string

const (
	ErrConfig            ErrorCode = "CONFIG_ERROR"
	ErrDocumentOpen      ErrorCode = "DOCUMENT_OPEN_ERROR"
	ErrDocumentSave      ErrorCode = "DOCUMENT_SAVE_ERROR"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrAPICall           ErrorCode = "API_CALL_ERROR"
	ErrAPIRateLimit      ErrorCode = "API_RATE_LIMIT"
	ErrGeneration        ErrorCode = "GENERATION_ERROR"
	ErrInstruction       ErrorCode = "INVALID_INSTRUCTION"
	ErrBackup            ErrorCode = "BACKUP_ERROR"
	ErrChangelog         ErrorCode = "CHANGELOG_ERROR"
	ErrInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError is the application error type carrying a code and optional cause.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
