package types

import (
	"errors"
	"testing"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    DocumentKind
		wantErr bool
	}{
		{"docx", "report.docx", DocumentWord, false},
		{"doc", "old/report.doc", DocumentWord, false},
		{"docx uppercase", "REPORT.DOCX", DocumentWord, false},
		{"pptx", "slides.pptx", DocumentPowerPoint, false},
		{"ppt", "slides.ppt", DocumentPowerPoint, false},
		{"pdf rejected", "report.pdf", "", true},
		{"no extension", "report", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectKind(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectKind(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DetectKind(%q) = %q, want %q", tt.path, got, tt.want)
			}
			if tt.wantErr {
				var appErr *AppError
				if !errors.As(err, &appErr) || appErr.Code != ErrUnsupportedFormat {
					t.Errorf("DetectKind(%q) error code = %v, want %v", tt.path, err, ErrUnsupportedFormat)
				}
			}
		})
	}
}

func TestDocumentKindDisplayName(t *testing.T) {
	if got := DocumentWord.DisplayName(); got != "Word" {
		t.Errorf("DisplayName() = %q, want Word", got)
	}
	if got := DocumentPowerPoint.DisplayName(); got != "PowerPoint" {
		t.Errorf("DisplayName() = %q, want PowerPoint", got)
	}
}

func TestReviewSummaryAdd(t *testing.T) {
	var s ReviewSummary
	s.Add(OutcomeModified)
	s.Add(OutcomeModified)
	s.Add(OutcomeUnchanged)
	s.Add(OutcomeReverted)
	s.Add(OutcomeError)

	if s.Modified != 2 || s.Unchanged != 1 || s.Reverted != 1 || s.Errors != 1 {
		t.Errorf("summary = %+v, want 2/1/1/1", s)
	}
	if got := s.Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewAppError(ErrAPICall, "model call failed", cause)

	if err.Error() != "model call failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "model call failed")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	detailed := NewAppErrorWithDetails(ErrDocumentOpen, "cannot open document", "report.docx", nil)
	if detailed.Error() != "cannot open document: report.docx" {
		t.Errorf("Error() = %q, want message with details", detailed.Error())
	}
}
