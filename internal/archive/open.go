package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/deliberate/deliberate/pkg/config"
)

// Open constructs the backend selected by cfg.Archive.Backend. The returned
// close func releases clients and connections; it is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Store, func() error, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	noop := func() error { return nil }
	ac := cfg.Archive

	switch ac.Backend {
	case "", "file":
		path := cfg.ArchiveFile()
		logger.Debug("using file archive", "path", path)
		return NewFileStore(path), noop, nil

	case "memory":
		logger.Debug("using in-memory archive")
		return NewMemoryStore(), noop, nil

	case "s3":
		store, err := NewS3Store(ctx, S3Config{
			Bucket:       ac.S3.Bucket,
			Key:          ac.S3.Key,
			Region:       ac.S3.Region,
			Endpoint:     ac.S3.Endpoint,
			AccessKey:    ac.S3.AccessKeyID,
			SecretKey:    ac.S3.SecretAccessKey,
			UsePathStyle: ac.S3.UsePathStyle,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 archive: %w", err)
		}
		logger.Debug("using s3 archive", "bucket", ac.S3.Bucket, "key", ac.S3.Key)
		return store, noop, nil

	case "gcs":
		store, closeFn, err := NewGCSStore(ctx, ac.GCS.Bucket, ac.GCS.Object)
		if err != nil {
			return nil, nil, fmt.Errorf("open gcs archive: %w", err)
		}
		logger.Debug("using gcs archive", "bucket", ac.GCS.Bucket, "object", ac.GCS.Object)
		return store, closeFn, nil

	case "postgres":
		store, err := NewPostgresStore(ctx, ac.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres archive: %w", err)
		}
		logger.Debug("using postgres archive")
		return store, store.Close, nil

	case "sqlite":
		path := cfg.SQLiteFile()
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite archive: %w", err)
		}
		logger.Debug("using sqlite archive", "path", path)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown archive backend %q", ac.Backend)
	}
}
