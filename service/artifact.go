package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sharanry/legal-assistant/config"
)

// ArtifactStore holds uploaded files for the lifetime of their job.
// Delete is idempotent: removing a missing artifact is not an error.
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewArtifactStore builds the backend selected by configuration.
func NewArtifactStore(cfg *config.StorageConfig) (ArtifactStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalArtifactStore(cfg.TempDir)
	case "minio":
		return NewMinioArtifactStore(&cfg.Minio)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// LocalArtifactStore keeps artifacts as files under a temp directory.
type LocalArtifactStore struct {
	dir string
}

func NewLocalArtifactStore(dir string) (*LocalArtifactStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &LocalArtifactStore{dir: dir}, nil
}

func (s *LocalArtifactStore) path(key string) string {
	// Keys are generated internally, but never trust them as paths.
	return filepath.Join(s.dir, filepath.Base(strings.TrimSpace(key)))
}

func (s *LocalArtifactStore) Put(ctx context.Context, key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

func (s *LocalArtifactStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return data, nil
}

func (s *LocalArtifactStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete artifact: %w", err)
	}
	return nil
}
