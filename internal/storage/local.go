package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"edulake/internal/errors"
)

// LocalStore maps logical paths onto the local filesystem under a base
// directory. The optional prefix mirrors the object-store prefix so the same
// relative paths work in both modes.
type LocalStore struct {
	baseDir string
	prefix  string
	logger  *slog.Logger
}

// NewLocalStore creates a filesystem-backed store rooted at baseDir.
func NewLocalStore(baseDir, prefix string, logger *slog.Logger) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		prefix:  prefix,
		logger:  logger.With(slog.String("component", "storage.local")),
	}
}

// ReadBytes reads the whole file at the logical path.
func (s *LocalStore) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	full := s.resolve(path)

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, errors.NewStorageError("failed to read "+path, err)
	}

	s.logger.DebugContext(ctx, "read file",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return data, nil
}

// WriteBytes writes data to the logical path, creating parent directories and
// overwriting any existing file.
func (s *LocalStore) WriteBytes(ctx context.Context, path string, data []byte) error {
	full := s.resolve(path)

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for "+path, err)
	}

	if err := os.WriteFile(full, data, 0644); err != nil {
		return errors.NewStorageError("failed to write "+path, err)
	}

	s.logger.InfoContext(ctx, "wrote file",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return nil
}

func (s *LocalStore) resolve(path string) string {
	if s.prefix != "" {
		return filepath.Join(s.baseDir, s.prefix, filepath.FromSlash(path))
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(path))
}
