// Package storage provides the byte store behind the pipeline's logical lake
// paths. The pipeline core never touches I/O directly; it reads and writes
// whole files through Store, addressed by relative paths like
// "bronze/housing_affordability/ingest_date=2025-01-31/housing2019-23.csv".
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"edulake/internal/config"
	"edulake/internal/errors"
)

// Store reads and writes whole files by logical path. Reads and writes are
// blocking and all-or-nothing; writes overwrite any existing file.
type Store interface {
	ReadBytes(ctx context.Context, path string) ([]byte, error)
	WriteBytes(ctx context.Context, path string, data []byte) error
}

// New builds the Store selected by the storage configuration.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Mode {
	case config.StorageModeLocal:
		return NewLocalStore(cfg.BaseDir, cfg.Prefix, logger), nil
	case config.StorageModeGCS:
		return NewGCSStore(ctx, cfg, logger)
	default:
		return nil, errors.NewConfigError(fmt.Sprintf("unsupported storage mode: %q", cfg.Mode), nil)
	}
}
