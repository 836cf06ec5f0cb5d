// Package storage provides the blob storage adapters: Google Cloud Storage
// for production and the local filesystem for development and tests.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chartsnap-backend/internal/domain"
)

// FilesystemStorage writes artifacts under a root directory, mirroring the
// storage key as a relative path. The returned path is the key itself so
// records stay portable between backends.
type FilesystemStorage struct {
	rootDir string
}

func NewFilesystemStorage(rootDir string) *FilesystemStorage {
	return &FilesystemStorage{rootDir: rootDir}
}

func (s *FilesystemStorage) Upload(_ context.Context, key string, data []byte) (string, error) {
	fullPath := filepath.Join(s.rootDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir for %s: %w", key, err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	return key, nil
}

var _ domain.Storage = (*FilesystemStorage)(nil)
