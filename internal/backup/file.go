package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileTarget writes the snapshot to a local path.
type FileTarget struct {
	Path string
}

func NewFileTarget(path string) *FileTarget {
	return &FileTarget{Path: path}
}

func (t *FileTarget) Name() string { return "file" }

// Save replaces the file atomically via a temp file in the same directory.
func (t *FileTarget) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cashflow-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}
	if err := os.Rename(tmp.Name(), t.Path); err != nil {
		return fmt.Errorf("replace backup: %w", err)
	}
	return nil
}

func (t *FileTarget) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(t.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoBackup
	}
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return data, nil
}
