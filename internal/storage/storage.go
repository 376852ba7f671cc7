// Package storage provides the key-value backends that hold appwish state.
package storage

import (
	"os"

	"github.com/cristianoliveira/appwish/internal/ports"
	"github.com/cristianoliveira/appwish/internal/storage/sqlite"
)

// File permission constants
const (
	// FileModeDir is the permission for directories (rwxr-xr-x)
	FileModeDir os.FileMode = 0755
	// FileModeFile is the permission for data files (rw-------)
	FileModeFile os.FileMode = 0600
)

// ErrKeyNotFound is returned by Get for a key that was never set. Every
// backend wraps the same value.
var ErrKeyNotFound = sqlite.ErrKeyNotFound

// Store is a flat key-value namespace that can be closed.
type Store interface {
	ports.KVStore
	Close() error
}
