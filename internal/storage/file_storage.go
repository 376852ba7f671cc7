package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStorage keeps the namespace in a single JSON object on disk. Every
// operation re-reads the file under a directory lock so separate processes
// (a watch daemon and an interactive command) see each other's writes.
type FileStorage struct {
	path    string
	lockDir string
}

// NewFileStorage opens (creating if needed) the JSON store at path.
func NewFileStorage(path string) (*FileStorage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("file storage: path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return nil, fmt.Errorf("file storage: create directory: %w", err)
	}
	return &FileStorage{path: path, lockDir: path + ".lock"}, nil
}

// Path returns the file backing the store.
func (fs *FileStorage) Path() string { return fs.path }

func (fs *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := WithLock(fs.lockDir, func() error {
		data, err := fs.read()
		if err != nil {
			return err
		}
		v, ok := data[key]
		if !ok {
			return fmt.Errorf("file storage: %w: %s", ErrKeyNotFound, key)
		}
		value = []byte(v)
		return nil
	})
	return value, err
}

func (fs *FileStorage) Set(ctx context.Context, key string, value []byte) error {
	return fs.SetMany(ctx, map[string][]byte{key: value})
}

func (fs *FileStorage) SetMany(ctx context.Context, values map[string][]byte) error {
	return WithLock(fs.lockDir, func() error {
		data, err := fs.read()
		if err != nil {
			return err
		}
		for k, v := range values {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("file storage: key cannot be empty")
			}
			data[k] = string(v)
		}
		return fs.write(data)
	})
}

func (fs *FileStorage) Delete(ctx context.Context, key string) error {
	return WithLock(fs.lockDir, func() error {
		data, err := fs.read()
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return fs.write(data)
	})
}

func (fs *FileStorage) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := WithLock(fs.lockDir, func() error {
		data, err := fs.read()
		if err != nil {
			return err
		}
		for k := range data {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	sort.Strings(keys)
	return keys, err
}

func (fs *FileStorage) Close() error { return nil }

// ReadAll returns a snapshot of every key.
func (fs *FileStorage) ReadAll() (map[string]string, error) {
	var out map[string]string
	err := WithLock(fs.lockDir, func() error {
		var err error
		out, err = fs.read()
		return err
	})
	return out, err
}

func (fs *FileStorage) read() (map[string]string, error) {
	raw, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: read: %w", err)
	}
	data := make(map[string]string)
	if len(strings.TrimSpace(string(raw))) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("file storage: decode %s: %w", fs.path, err)
	}
	return data, nil
}

func (fs *FileStorage) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("file storage: encode: %w", err)
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, FileModeFile); err != nil {
		return fmt.Errorf("file storage: write: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("file storage: replace: %w", err)
	}
	return nil
}
