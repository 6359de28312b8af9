package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes images under a local directory served at /uploads.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if it does not exist.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory the store writes into.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(_ context.Context, name string, _ string, r io.Reader, _ int64) (string, error) {
	// Object names are generated server-side; reject anything that could
	// escape the upload directory.
	if filepath.Base(name) != name {
		return "", fmt.Errorf("storage: invalid object name %q", name)
	}
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("storage: write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", name, err)
	}
	return "/uploads/" + name, nil
}

func (s *DiskStore) Remove(_ context.Context, name string) error {
	if filepath.Base(name) != name {
		return fmt.Errorf("storage: invalid object name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}
