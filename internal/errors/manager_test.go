package errors

import (
	"testing"
)

func TestErrorManager(t *testing.T) {
	tempDir := t.TempDir()

	em, err := NewErrorManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}

	err = em.RecordError("/docs/rapport.docx", 4, "corrige", StageGeneration, "chat completion failed")
	if err != nil {
		t.Fatalf("Failed to record error: %v", err)
	}

	id := RecordID("/docs/rapport.docx", 4)
	record, ok := em.GetError(id)
	if !ok {
		t.Fatal("Error record not found")
	}

	if record.Document != "/docs/rapport.docx" {
		t.Errorf("Expected document /docs/rapport.docx, got %s", record.Document)
	}
	if record.UnitIndex != 4 {
		t.Errorf("Expected unit index 4, got %d", record.UnitIndex)
	}
	if record.Stage != StageGeneration {
		t.Errorf("Expected stage generation, got %s", record.Stage)
	}
	if !record.CanRetry {
		t.Error("Expected record to be retryable")
	}

	err = em.IncrementRetry(id)
	if err != nil {
		t.Fatalf("Failed to increment retry: %v", err)
	}

	record, _ = em.GetError(id)
	if record.RetryCount != 1 {
		t.Errorf("Expected retry count 1, got %d", record.RetryCount)
	}

	records := em.ListErrors()
	if len(records) != 1 {
		t.Errorf("Expected 1 error record, got %d", len(records))
	}

	err = em.RemoveError(id)
	if err != nil {
		t.Fatalf("Failed to remove error: %v", err)
	}

	records = em.ListErrors()
	if len(records) != 0 {
		t.Errorf("Expected 0 error records, got %d", len(records))
	}
}

func TestErrorManagerKeepsRetryHistory(t *testing.T) {
	em, err := NewErrorManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}

	if err := em.RecordError("a.docx", 2, "corrige", StageGeneration, "first failure"); err != nil {
		t.Fatalf("Failed to record error: %v", err)
	}
	id := RecordID("a.docx", 2)
	if err := em.IncrementRetry(id); err != nil {
		t.Fatalf("Failed to increment retry: %v", err)
	}

	// Recording the same unit again keeps the retry counter
	if err := em.RecordError("a.docx", 2, "corrige", StageGeneration, "second failure"); err != nil {
		t.Fatalf("Failed to record error: %v", err)
	}

	record, _ := em.GetError(id)
	if record.RetryCount != 1 {
		t.Errorf("Expected retry count 1 after re-record, got %d", record.RetryCount)
	}
	if record.ErrorMsg != "second failure" {
		t.Errorf("Expected updated message, got %s", record.ErrorMsg)
	}
}

func TestErrorManagerPersistence(t *testing.T) {
	tempDir := t.TempDir()

	em1, err := NewErrorManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}

	err = em1.RecordError("b.pptx", 1, "améliore", StageApplication, "rewrite lost media")
	if err != nil {
		t.Fatalf("Failed to record error: %v", err)
	}

	// A new manager over the same directory sees the record
	em2, err := NewErrorManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}

	record, ok := em2.GetError(RecordID("b.pptx", 1))
	if !ok {
		t.Fatal("Error record not found after reload")
	}
	if record.ErrorMsg != "rewrite lost media" {
		t.Errorf("Expected persisted message, got %s", record.ErrorMsg)
	}

	if err := em2.ClearAll(); err != nil {
		t.Fatalf("Failed to clear errors: %v", err)
	}

	em3, err := NewErrorManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}
	if got := len(em3.ListErrors()); got != 0 {
		t.Errorf("Expected 0 records after ClearAll, got %d", got)
	}
}

func TestListForDocument(t *testing.T) {
	em, err := NewErrorManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create error manager: %v", err)
	}

	for _, idx := range []int{7, 2, 5} {
		if err := em.RecordError("c.docx", idx, "corrige", StageGeneration, "failed"); err != nil {
			t.Fatalf("Failed to record error: %v", err)
		}
	}
	if err := em.RecordError("other.docx", 1, "corrige", StageGeneration, "failed"); err != nil {
		t.Fatalf("Failed to record error: %v", err)
	}

	records := em.ListForDocument("c.docx")
	if len(records) != 3 {
		t.Fatalf("Expected 3 records for c.docx, got %d", len(records))
	}
	for i, want := range []int{2, 5, 7} {
		if records[i].UnitIndex != want {
			t.Errorf("Expected unit index %d at position %d, got %d", want, i, records[i].UnitIndex)
		}
	}
}

func TestGetStageDisplayName(t *testing.T) {
	if got := GetStageDisplayName(StageGeneration); got != "génération du texte" {
		t.Errorf("Expected génération du texte, got %s", got)
	}
	if got := GetStageDisplayName(ErrorStage("autre")); got != "autre" {
		t.Errorf("Expected raw stage name, got %s", got)
	}
}
