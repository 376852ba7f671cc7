package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/storage/sqlite"
)

const (
	// BackendSQLite selects SQLite-backed storage.
	BackendSQLite = "sqlite"
	// BackendFile selects the JSON file store.
	BackendFile = "file"
	// BackendMemory keeps state in memory only.
	BackendMemory = "memory"

	// DBFileName is the SQLite database inside the state directory.
	DBFileName = "appwish.db"
	// JSONFileName is the JSON file store inside the state directory.
	JSONFileName = "appwish.json"
)

var _ Store = (*sqlite.SQLiteStorage)(nil)
var _ Store = (*FileStorage)(nil)
var _ Store = (*MemoryStore)(nil)

var migrateFileToSQLite = sqlite.MigrateFileToSQLite
var rollbackFileMigration = sqlite.RollbackFileMigration

// NewFromConfig creates a storage backend based on configuration.
func NewFromConfig() (Store, error) {
	return NewForBackend(config.Get("storage_backend", BackendSQLite), config.Get("state_dir", ""))
}

// NewForBackend creates the named backend with its files under stateDir.
// A sqlite backend that fails to open falls back to the JSON file store.
func NewForBackend(backend, stateDir string) (Store, error) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == BackendMemory {
		return NewMemoryStore(), nil
	}
	if stateDir == "" {
		return nil, fmt.Errorf("storage: state_dir not configured")
	}
	if err := os.MkdirAll(stateDir, FileModeDir); err != nil {
		return nil, fmt.Errorf("storage: create state directory: %w", err)
	}
	jsonPath := filepath.Join(stateDir, JSONFileName)

	switch backend {
	case BackendFile:
		return NewFileStorage(jsonPath)
	case "", BackendSQLite:
		dbPath := filepath.Join(stateDir, DBFileName)
		if err := maybeMigrateFileToSQLite(jsonPath, dbPath); err != nil {
			colors.Warning(fmt.Sprintf("sqlite migration failed, falling back to file storage: %v", err))
			return NewFileStorage(jsonPath)
		}
		s, err := sqlite.NewSQLiteStorage(dbPath)
		if err != nil {
			colors.Warning(fmt.Sprintf("failed to initialize sqlite backend, falling back to file storage: %v", err))
			return NewFileStorage(jsonPath)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}

func maybeMigrateFileToSQLite(jsonPath, dbPath string) error {
	dbExists, err := pathExists(dbPath)
	if err != nil {
		return fmt.Errorf("check sqlite database path: %w", err)
	}
	if dbExists {
		return nil
	}
	hasData, err := fileHasContent(jsonPath)
	if err != nil {
		return fmt.Errorf("check file store: %w", err)
	}
	if !hasData {
		return nil
	}

	colors.Info("Detected file storage. Starting SQLite migration...")
	stats, migrateErr := migrateFileToSQLite(sqlite.MigrationOptions{FilePath: jsonPath, SQLitePath: dbPath})
	if migrateErr != nil {
		if rollbackErr := rollbackFileMigration(jsonPath, dbPath, sqlite.DefaultBackupPath(jsonPath)); rollbackErr != nil {
			return fmt.Errorf("migrate file to sqlite: %w (rollback failed: %v)", migrateErr, rollbackErr)
		}
		return fmt.Errorf("migrate file to sqlite: %w", migrateErr)
	}
	for _, w := range stats.Warnings {
		colors.Warning("migration: " + w)
	}
	colors.Success(fmt.Sprintf("SQLite migration complete: %d migrated, %d skipped", stats.MigratedKeys, stats.SkippedKeys))
	return nil
}

func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func fileHasContent(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("expected file but found directory: %s", path)
	}
	return info.Size() > 0, nil
}
