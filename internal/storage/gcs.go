package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	storagev1 "google.golang.org/api/storage/v1"

	"edulake/internal/config"
	"edulake/internal/errors"
)

// GCSStore reads and writes whole objects in a Cloud Storage bucket. Logical
// paths become object names, prefixed with the configured prefix.
type GCSStore struct {
	service *storagev1.Service
	bucket  string
	prefix  string
	logger  *slog.Logger
}

// NewGCSStore builds the Cloud Storage client. Credentials come from the
// configured service-account file, or application default credentials when
// none is set.
func NewGCSStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*GCSStore, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	service, err := storagev1.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewConfigError("failed to create cloud storage client", err)
	}

	return &GCSStore{
		service: service,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		logger:  logger.With(slog.String("component", "storage.gcs"), slog.String("bucket", cfg.Bucket)),
	}, nil
}

// ReadBytes downloads the whole object at the logical path.
func (s *GCSStore) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	object := s.objectName(path)

	resp, err := s.service.Objects.Get(s.bucket, object).Context(ctx).Download()
	if err != nil {
		return nil, errors.NewStorageError("failed to download "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewStorageError("failed to read body of "+path, err)
	}

	s.logger.DebugContext(ctx, "downloaded object",
		slog.String("object", object),
		slog.Int("bytes", len(data)))

	return data, nil
}

// WriteBytes uploads data to the logical path, overwriting any existing
// object.
func (s *GCSStore) WriteBytes(ctx context.Context, path string, data []byte) error {
	object := s.objectName(path)

	_, err := s.service.Objects.
		Insert(s.bucket, &storagev1.Object{Name: object}).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return errors.NewStorageError("failed to upload "+path, err)
	}

	s.logger.InfoContext(ctx, "uploaded object",
		slog.String("object", object),
		slog.Int("bytes", len(data)))

	return nil
}

func (s *GCSStore) objectName(path string) string {
	p := strings.TrimPrefix(path, "/")
	if s.prefix != "" {
		return s.prefix + "/" + p
	}
	return p
}
