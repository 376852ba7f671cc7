/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"fmt"
	"path/filepath"

	"github.com/cristianoliveira/appwish/cmd"
	"github.com/cristianoliveira/appwish/internal/config"
	"github.com/cristianoliveira/appwish/internal/storage"
	"github.com/cristianoliveira/appwish/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

type migrateRunner struct {
	migrate  func(sqlite.MigrationOptions) (sqlite.MigrationStats, error)
	rollback func(filePath, sqlitePath, backupPath string) error
	stateDir func() string
}

var defaultMigrateRunner = migrateRunner{
	migrate:  sqlite.MigrateFileToSQLite,
	rollback: sqlite.RollbackFileMigration,
	stateDir: func() string { return config.Get("state_dir", "") },
}

// NewMigrateCmd creates the migrate command with explicit dependencies.
func NewMigrateCmd(runner migrateRunner) *cobra.Command {
	if runner.migrate == nil || runner.rollback == nil || runner.stateDir == nil {
		panic("NewMigrateCmd: runner dependencies cannot be nil")
	}

	var (
		filePathFlag   string
		sqlitePathFlag string
		backupPathFlag string
		dryRunFlag     bool
		rollbackFlag   bool
	)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the JSON file store to SQLite",
		Long: `Migrate the JSON file store to SQLite safely.

The migration validates each key, skips unknown keys and unreadable
wishlists with warnings, creates a backup before writing, and imports
inside a single transaction.

Use --dry-run to preview migration statistics without creating backups or
writing to SQLite.

Use --rollback to restore the JSON file from backup and remove the SQLite DB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stateDir := runner.stateDir()
			if stateDir == "" {
				return fmt.Errorf("migrate: state directory is not configured")
			}

			filePath := filePathFlag
			if filePath == "" {
				filePath = filepath.Join(stateDir, storage.JSONFileName)
			}
			sqlitePath := sqlitePathFlag
			if sqlitePath == "" {
				sqlitePath = filepath.Join(stateDir, storage.DBFileName)
			}
			backupPath := backupPathFlag
			if backupPath == "" {
				backupPath = sqlite.DefaultBackupPath(filePath)
			}

			if rollbackFlag {
				if dryRunFlag {
					return fmt.Errorf("migrate: --dry-run cannot be combined with --rollback")
				}
				if err := runner.rollback(filePath, sqlitePath, backupPath); err != nil {
					return err
				}
				cmd.Printf("rollback completed: restored %s and removed %s\n", filePath, sqlitePath)
				return nil
			}

			stats, err := runner.migrate(sqlite.MigrationOptions{
				FilePath:   filePath,
				SQLitePath: sqlitePath,
				BackupPath: backupPath,
				DryRun:     dryRunFlag,
			})
			if err != nil {
				return err
			}

			cmd.Printf("migration completed\n")
			cmd.Printf("total=%d migrated=%d skipped=%d\n", stats.TotalKeys, stats.MigratedKeys, stats.SkippedKeys)
			if stats.BackupCreated {
				cmd.Printf("backup=%s\n", stats.BackupPath)
			}
			for _, warning := range stats.Warnings {
				cmd.Printf("warning: %s\n", warning)
			}
			return nil
		},
	}

	migrateCmd.Flags().StringVar(&filePathFlag, "file-path", "", "Path to the source JSON file store")
	migrateCmd.Flags().StringVar(&sqlitePathFlag, "sqlite-path", "", "Path to destination SQLite database")
	migrateCmd.Flags().StringVar(&backupPathFlag, "backup-path", "", "Path for the JSON backup (default: <file-path>.sqlite-migration.bak)")
	migrateCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Validate and report migration without writing files")
	migrateCmd.Flags().BoolVar(&rollbackFlag, "rollback", false, "Restore the JSON file from backup and remove the SQLite database")
	return migrateCmd
}

var migrateCmd = NewMigrateCmd(defaultMigrateRunner)

func init() {
	cmd.RootCmd.AddCommand(migrateCmd)
}
