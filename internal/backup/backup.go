// Package backup provides timestamped document copies so an in-place save
// can always be undone.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/agrangetas/Doc-reviewer/internal/logger"
)

const timestampLayout = "20060102-150405"

// BackupManager manages document backups for safe saving
type BackupManager struct {
	backupDir string
}

// NewBackupManager creates a new BackupManager
// If backupDir is empty, backups are created in the same directory as the original file
func NewBackupManager(backupDir string) *BackupManager {
	return &BackupManager{
		backupDir: backupDir,
	}
}

// backupName inserts ".bak.<timestamp>" before the document extension, so
// a backup of rapport.docx stays openable as rapport.bak.<ts>.docx.
func backupName(base string, ts time.Time) string {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s.bak.%s%s", stem, ts.Format(timestampLayout), ext)
}

// CreateBackup creates a backup of the specified document
// Returns the path to the backup file
func (m *BackupManager) CreateBackup(path string) (string, error) {
	logger.Debug("creating backup", logger.String("path", path))

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", path)
	}

	name := backupName(filepath.Base(path), time.Now())

	// Determine backup directory
	var backupPath string
	if m.backupDir != "" {
		// Ensure backup directory exists
		if err := os.MkdirAll(m.backupDir, 0755); err != nil {
			logger.Error("failed to create backup directory", err)
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		backupPath = filepath.Join(m.backupDir, name)
	} else {
		// Use same directory as original file
		backupPath = filepath.Join(filepath.Dir(path), name)
	}

	// Copy file
	if err := copyFile(path, backupPath); err != nil {
		logger.Error("failed to copy file", err)
		return "", fmt.Errorf("failed to copy file: %w", err)
	}

	logger.Info("backup created successfully", logger.String("backupPath", backupPath))
	return backupPath, nil
}

// Restore restores a document from its backup
func (m *BackupManager) Restore(backupPath string, originalPath string) error {
	logger.Debug("restoring from backup",
		logger.String("backupPath", backupPath),
		logger.String("originalPath", originalPath))

	// Check if backup exists
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	// Copy backup to original location
	if err := copyFile(backupPath, originalPath); err != nil {
		logger.Error("failed to restore backup", err)
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	logger.Info("file restored from backup successfully")
	return nil
}

// ListBackups lists all backups for a given document, newest first
func (m *BackupManager) ListBackups(path string) ([]string, error) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + ".bak."

	var searchDir string
	if m.backupDir != "" {
		searchDir = m.backupDir
	} else {
		searchDir = filepath.Dir(path)
	}

	// Read directory
	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	// Find matching backups
	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			backups = append(backups, filepath.Join(searchDir, name))
		}
	}

	// The timestamp sorts lexicographically, newest first when reversed
	sort.Sort(sort.Reverse(sort.StringSlice(backups)))

	return backups, nil
}

// CleanupBackups removes old backups, keeping only the most recent N backups
func (m *BackupManager) CleanupBackups(path string, keepCount int) error {
	logger.Debug("cleaning up backups",
		logger.String("path", path),
		logger.Int("keepCount", keepCount))

	backups, err := m.ListBackups(path)
	if err != nil {
		return err
	}

	// Remove old backups
	if len(backups) > keepCount {
		for i := keepCount; i < len(backups); i++ {
			if err := os.Remove(backups[i]); err != nil {
				logger.Warn("failed to remove backup", logger.Err(err), logger.String("path", backups[i]))
			} else {
				logger.Debug("removed old backup", logger.String("path", backups[i]))
			}
		}
	}

	logger.Info("backup cleanup completed",
		logger.Int("totalBackups", len(backups)),
		logger.Int("kept", min(len(backups), keepCount)),
		logger.Int("removed", max(0, len(backups)-keepCount)))

	return nil
}

// DeleteBackup deletes a specific backup file
func (m *BackupManager) DeleteBackup(backupPath string) error {
	if err := os.Remove(backupPath); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	logger.Info("backup deleted", logger.String("backupPath", backupPath))
	return nil
}

// GetLatestBackup returns the path to the most recent backup for a document
func (m *BackupManager) GetLatestBackup(path string) (string, error) {
	backups, err := m.ListBackups(path)
	if err != nil {
		return "", err
	}

	if len(backups) == 0 {
		return "", fmt.Errorf("no backups found for file: %s", path)
	}

	return backups[0], nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	// Sync to ensure data is written to disk
	if err := destFile.Sync(); err != nil {
		return err
	}

	// Copy file permissions
	sourceInfo, err := os.Stat(src)
	if err != nil {
		return err
	}
	return os.Chmod(dst, sourceInfo.Mode())
}
