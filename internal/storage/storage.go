// Package storage implements the record store: durable persistence of the
// entire subscriber collection as a single JSON file. The store has no
// concept of individual records; callers load and save the whole mapping.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ignite/listkeeper/internal/config"
	"github.com/ignite/listkeeper/internal/domain"
	"github.com/ignite/listkeeper/internal/pkg/logger"
)

// FileStore persists the subscriber collection to a single JSON file whose
// keys are lower-cased email addresses. Saves are full rewrites through a
// temp-file-plus-rename so a crash never leaves a half-written file behind.
type FileStore struct {
	path   string
	backup *S3Backup // optional mirror, nil when not configured
}

// New creates a file store from storage configuration. When an S3 bucket is
// configured, every successful save is also mirrored there (best-effort).
func New(ctx context.Context, cfg config.StorageConfig) (*FileStore, error) {
	fs := &FileStore{path: cfg.Path}

	if cfg.S3Bucket != "" {
		backup, err := NewS3Backup(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Profile, cfg.S3Key)
		if err != nil {
			return nil, fmt.Errorf("initializing s3 backup: %w", err)
		}
		fs.backup = backup
		logger.Info("s3 mirror enabled for subscriber file", "bucket", cfg.S3Bucket, "key", cfg.S3Key)
	}

	return fs, nil
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string { return s.path }

// Load reads the backing file into the record mapping. A missing file is
// the expected first-run state and yields an empty mapping. An unreadable
// or corrupt file is logged and also yields an empty mapping; this design
// accepts the data loss rather than refusing to start.
func (s *FileStore) Load(ctx context.Context) map[string]*domain.Subscriber {
	subs := make(map[string]*domain.Subscriber)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return subs
	}
	if err != nil {
		logger.Error("failed to read subscriber file", "path", s.path, "error", err)
		return subs
	}

	if err := json.Unmarshal(data, &subs); err != nil {
		logger.Error("subscriber file is corrupt, starting with empty collection",
			"path", s.path, "error", err)
		return make(map[string]*domain.Subscriber)
	}

	logger.Info("loaded subscriber collection", "path", s.path, "count", len(subs))
	return subs
}

// Save serializes the entire mapping and atomically replaces the backing
// file. Every save is a full rewrite; there are no partial or append
// writes. The caller decides what to do with a failure.
func (s *FileStore) Save(ctx context.Context, subs map[string]*domain.Subscriber) error {
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling subscriber collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	// Write to a temp file in the same directory, then rename over the
	// target. Rename within one filesystem is atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing subscriber file: %w", err)
	}

	if s.backup != nil {
		// Mirror failures never fail the save; local disk is the source
		// of truth.
		if err := s.backup.Upload(ctx, data); err != nil {
			logger.Error("s3 mirror upload failed", "bucket", s.backup.Bucket(), "error", err)
		}
	}

	return nil
}
