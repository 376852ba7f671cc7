package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// knownPrefixes are the key namespaces appwish writes.
var knownPrefixes = []string{"wishlist.", "settings.", "stats.", "meta."}

// MigrationOptions configures JSON file to SQLite migration behavior.
type MigrationOptions struct {
	FilePath   string
	SQLitePath string
	BackupPath string
	DryRun     bool
}

// MigrationStats summarizes a migration run.
type MigrationStats struct {
	TotalKeys     int
	MigratedKeys  int
	SkippedKeys   int
	BackupCreated bool
	BackupPath    string
	Warnings      []string
}

// MigrateFileToSQLite imports the keys of a JSON file store into SQLite.
//
// Safety behavior:
//   - In non-dry-run mode, a backup of the file is created before any SQLite writes.
//   - Inserts happen inside a single transaction.
//   - Unknown keys and undecodable wishlist blobs are skipped with warnings.
//   - Import is idempotent: existing keys are overwritten.
func MigrateFileToSQLite(opts MigrationOptions) (MigrationStats, error) {
	stats := MigrationStats{}

	if strings.TrimSpace(opts.FilePath) == "" {
		return stats, fmt.Errorf("migration: file path cannot be empty")
	}
	if strings.TrimSpace(opts.SQLitePath) == "" {
		return stats, fmt.Errorf("migration: sqlite path cannot be empty")
	}

	values, stats, err := parseFileStore(opts.FilePath)
	if err != nil {
		return stats, err
	}

	if opts.DryRun {
		stats.MigratedKeys = len(values)
		return stats, nil
	}

	backupPath := strings.TrimSpace(opts.BackupPath)
	if backupPath == "" {
		backupPath = DefaultBackupPath(opts.FilePath)
	}
	if err := createMigrationBackup(opts.FilePath, backupPath); err != nil {
		return stats, err
	}
	stats.BackupCreated = true
	stats.BackupPath = backupPath

	s, err := NewSQLiteStorage(opts.SQLitePath)
	if err != nil {
		return stats, fmt.Errorf("migration: open sqlite storage: %w", err)
	}
	defer s.Close()

	if err := s.SetMany(context.Background(), values); err != nil {
		return stats, fmt.Errorf("migration: %w", err)
	}

	stats.MigratedKeys = len(values)
	return stats, nil
}

// RollbackFileMigration restores the file from backup and removes the SQLite
// database file.
func RollbackFileMigration(filePath, sqlitePath, backupPath string) error {
	if strings.TrimSpace(filePath) == "" {
		return fmt.Errorf("rollback: file path cannot be empty")
	}
	if strings.TrimSpace(sqlitePath) == "" {
		return fmt.Errorf("rollback: sqlite path cannot be empty")
	}
	if strings.TrimSpace(backupPath) == "" {
		backupPath = DefaultBackupPath(filePath)
	}

	backupData, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("rollback: read backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("rollback: ensure file directory: %w", err)
	}
	if err := os.WriteFile(filePath, backupData, 0o600); err != nil {
		return fmt.Errorf("rollback: restore file: %w", err)
	}
	if err := os.Remove(sqlitePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rollback: remove sqlite db: %w", err)
	}
	return nil
}

// DefaultBackupPath is where a migration backs up filePath.
func DefaultBackupPath(filePath string) string {
	return filePath + ".sqlite-migration.bak"
}

func parseFileStore(path string) (map[string][]byte, MigrationStats, error) {
	stats := MigrationStats{}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, stats, fmt.Errorf("migration: read file: %w", err)
	}
	data := make(map[string]string)
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, stats, fmt.Errorf("migration: decode file: %w", err)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string][]byte, len(data))
	for _, key := range keys {
		stats.TotalKeys++
		if warning := validateEntry(key, data[key]); warning != "" {
			stats.SkippedKeys++
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("key %q: %s", key, warning))
			continue
		}
		values[key] = []byte(data[key])
	}
	return values, stats, nil
}

func validateEntry(key, value string) string {
	if strings.TrimSpace(key) == "" {
		return "empty key"
	}
	known := false
	for _, p := range knownPrefixes {
		if strings.HasPrefix(key, p) {
			known = true
			break
		}
	}
	if !known {
		return "unknown namespace"
	}
	if key == "wishlist.apps" && !json.Valid([]byte(value)) {
		return "wishlist blob is not valid JSON"
	}
	return ""
}

func createMigrationBackup(filePath, backupPath string) error {
	if _, err := os.Stat(backupPath); err == nil {
		return fmt.Errorf("migration: backup already exists at %s", backupPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("migration: stat backup path: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("migration: read file for backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
		return fmt.Errorf("migration: create backup directory: %w", err)
	}
	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		return fmt.Errorf("migration: write backup: %w", err)
	}
	return nil
}
