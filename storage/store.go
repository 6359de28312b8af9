// Package storage persists uploaded property images behind a narrow
// interface so the registry never touches a filesystem or bucket directly.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"
)

// ImageStore saves an uploaded image and returns the relative URL clients
// resolve against the API host. Remove discards an object whose listing was
// never persisted.
type ImageStore interface {
	Save(ctx context.Context, name string, contentType string, r io.Reader, size int64) (string, error)
	Remove(ctx context.Context, name string) error
}

// NewObjectName generates a unique object name preserving the original
// file extension.
func NewObjectName(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	return ksuid.New().String() + ext
}
