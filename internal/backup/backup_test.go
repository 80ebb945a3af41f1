package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write document: %v", err)
	}
	return path
}

func TestCreateBackupSameDir(t *testing.T) {
	dir := t.TempDir()
	docPath := writeDoc(t, dir, "rapport.docx", "original content")

	manager := NewBackupManager("")
	backupPath, err := manager.CreateBackup(docPath)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != dir {
		t.Errorf("Expected backup in %s, got %s", dir, filepath.Dir(backupPath))
	}

	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, "rapport.bak.") {
		t.Errorf("Expected backup name to start with rapport.bak., got %s", name)
	}
	if !strings.HasSuffix(name, ".docx") {
		t.Errorf("Expected backup name to end with .docx, got %s", name)
	}

	data, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatalf("Failed to read backup: %v", err)
	}
	if string(data) != "original content" {
		t.Errorf("Expected backup content to match original, got %q", string(data))
	}
}

func TestCreateBackupDedicatedDir(t *testing.T) {
	docDir := t.TempDir()
	backupDir := filepath.Join(t.TempDir(), "backups")
	docPath := writeDoc(t, docDir, "notes.pptx", "slides")

	manager := NewBackupManager(backupDir)
	backupPath, err := manager.CreateBackup(docPath)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if filepath.Dir(backupPath) != backupDir {
		t.Errorf("Expected backup in %s, got %s", backupDir, filepath.Dir(backupPath))
	}
}

func TestCreateBackupMissingFile(t *testing.T) {
	manager := NewBackupManager("")
	_, err := manager.CreateBackup(filepath.Join(t.TempDir(), "absent.docx"))
	if err == nil {
		t.Error("Expected error for missing file, got nil")
	}
}

func TestRestore(t *testing.T) {
	dir := t.TempDir()
	docPath := writeDoc(t, dir, "rapport.docx", "v1")

	manager := NewBackupManager("")
	backupPath, err := manager.CreateBackup(docPath)
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if err := os.WriteFile(docPath, []byte("v2 corrupted"), 0644); err != nil {
		t.Fatalf("Failed to overwrite document: %v", err)
	}

	if err := manager.Restore(backupPath, docPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("Failed to read restored document: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("Expected restored content v1, got %q", string(data))
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	manager := NewBackupManager("")
	err := manager.Restore(filepath.Join(t.TempDir(), "absent.bak.20250101-000000.docx"), "out.docx")
	if err == nil {
		t.Error("Expected error for missing backup, got nil")
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	docPath := writeDoc(t, dir, "rapport.docx", "content")

	stamps := []string{"20250310-090000", "20250312-143000", "20250311-080000"}
	for _, ts := range stamps {
		writeDoc(t, dir, "rapport.bak."+ts+".docx", "backup")
	}
	// A backup of another document must not appear in the listing
	writeDoc(t, dir, "autre.bak.20250312-143000.docx", "backup")

	manager := NewBackupManager("")
	backups, err := manager.ListBackups(docPath)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}

	if len(backups) != 3 {
		t.Fatalf("Expected 3 backups, got %d", len(backups))
	}

	want := []string{
		"rapport.bak.20250312-143000.docx",
		"rapport.bak.20250311-080000.docx",
		"rapport.bak.20250310-090000.docx",
	}
	for i, w := range want {
		if filepath.Base(backups[i]) != w {
			t.Errorf("Expected backup %d to be %s, got %s", i, w, filepath.Base(backups[i]))
		}
	}
}

func TestCleanupBackups(t *testing.T) {
	dir := t.TempDir()
	docPath := writeDoc(t, dir, "rapport.docx", "content")

	stamps := []string{"20250310-090000", "20250311-080000", "20250312-143000", "20250313-100000"}
	for _, ts := range stamps {
		writeDoc(t, dir, "rapport.bak."+ts+".docx", "backup")
	}

	manager := NewBackupManager("")
	if err := manager.CleanupBackups(docPath, 2); err != nil {
		t.Fatalf("CleanupBackups failed: %v", err)
	}

	backups, err := manager.ListBackups(docPath)
	if err != nil {
		t.Fatalf("ListBackups failed: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("Expected 2 backups after cleanup, got %d", len(backups))
	}
	if filepath.Base(backups[0]) != "rapport.bak.20250313-100000.docx" {
		t.Errorf("Expected newest backup kept, got %s", filepath.Base(backups[0]))
	}
	if filepath.Base(backups[1]) != "rapport.bak.20250312-143000.docx" {
		t.Errorf("Expected second newest backup kept, got %s", filepath.Base(backups[1]))
	}
}

func TestGetLatestBackup(t *testing.T) {
	dir := t.TempDir()
	docPath := writeDoc(t, dir, "rapport.docx", "content")

	manager := NewBackupManager("")
	if _, err := manager.GetLatestBackup(docPath); err == nil {
		t.Error("Expected error when no backups exist, got nil")
	}

	writeDoc(t, dir, "rapport.bak.20250310-090000.docx", "old")
	writeDoc(t, dir, "rapport.bak.20250312-143000.docx", "new")

	latest, err := manager.GetLatestBackup(docPath)
	if err != nil {
		t.Fatalf("GetLatestBackup failed: %v", err)
	}
	if filepath.Base(latest) != "rapport.bak.20250312-143000.docx" {
		t.Errorf("Expected latest backup 20250312-143000, got %s", filepath.Base(latest))
	}
}

func TestDeleteBackup(t *testing.T) {
	dir := t.TempDir()
	backupPath := writeDoc(t, dir, "rapport.bak.20250310-090000.docx", "backup")

	manager := NewBackupManager("")
	if err := manager.DeleteBackup(backupPath); err != nil {
		t.Fatalf("DeleteBackup failed: %v", err)
	}
	if _, err := os.Stat(backupPath); !os.IsNotExist(err) {
		t.Error("Expected backup file to be removed")
	}
}

func TestBackupNameKeepsExtension(t *testing.T) {
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	got := backupName("rapport final.docx", ts)
	if got != "rapport final.bak.20250314-093000.docx" {
		t.Errorf("Expected rapport final.bak.20250314-093000.docx, got %s", got)
	}
}
