// Package cache persists the last-known-good synchronized dataset to a JSON
// file shared between replicas. Writers serialize on an exclusive advisory
// lock and publish via temp-file-plus-atomic-rename; readers take a shared
// lock so a partial write is never observed.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/ocpnav/cluster-navigator/internal/domain"
)

const (
	writeAttempts = 5
	writeBackoff  = 200 * time.Millisecond
	readAttempts  = 3
	readBackoff   = 100 * time.Millisecond
)

// envelope is the on-disk cache layout.
type envelope struct {
	LastUpdated time.Time      `json:"last_updated"`
	Data        domain.Dataset `json:"data"`
}

// Store reads and writes the sync cache file.
type Store struct {
	path   string
	logger *zap.Logger
}

// New creates a cache store for the given file path.
func New(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the cache file path.
func (s *Store) Path() string {
	return s.path
}

// Save serializes the dataset with a fresh last-updated timestamp and writes
// it to disk. I/O failures are retried a bounded number of times with a
// short backoff before the error is reported.
func (s *Store) Save(ctx context.Context, data *domain.Dataset) error {
	env := envelope{
		LastUpdated: time.Now().UTC(),
		Data:        *data,
	}

	buf, err := json.MarshalIndent(&env, "", "  ")
	if err != nil {
		return err
	}

	backoff := retry.WithMaxRetries(writeAttempts-1, retry.NewConstant(writeBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.writeLocked(buf); err != nil {
			s.logger.Warn("cache write failed, retrying",
				zap.String("path", s.path), zap.Error(err))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to save cache",
			zap.String("path", s.path), zap.Error(err))
		return err
	}

	s.logger.Info("cache updated",
		zap.String("path", s.path),
		zap.Time("last_updated", env.LastUpdated))
	return nil
}

// writeLocked writes the serialized cache to a temporary file under an
// exclusive lock, forces it to stable storage, and atomically replaces the
// target path.
func (s *Store) writeLocked(buf []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	lock := flock.New(tmp)
	if err := lock.Lock(); err != nil {
		f.Close()
		return err
	}
	defer lock.Unlock()

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}

// Load reads the cached dataset. Returns false when no cache file exists or
// its content is malformed; a parse fault is logged, never propagated.
func (s *Store) Load() (*domain.Dataset, bool) {
	env, ok := s.read()
	if !ok {
		return nil, false
	}
	s.logger.Info("loaded cache",
		zap.String("path", s.path),
		zap.Time("last_updated", env.LastUpdated))
	return &env.Data, true
}

// LastUpdated reports the timestamp of the last successful save, if a cache
// file exists.
func (s *Store) LastUpdated() (time.Time, bool) {
	env, ok := s.read()
	if !ok {
		return time.Time{}, false
	}
	return env.LastUpdated, true
}

func (s *Store) read() (*envelope, bool) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, false
	}

	var buf []byte
	backoff := retry.WithMaxRetries(readAttempts-1, retry.NewConstant(readBackoff))
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		b, err := s.readLocked()
		if err != nil {
			s.logger.Warn("cache read failed, retrying",
				zap.String("path", s.path), zap.Error(err))
			return retry.RetryableError(err)
		}
		buf = b
		return nil
	})
	if err != nil {
		s.logger.Error("failed to read cache",
			zap.String("path", s.path), zap.Error(err))
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		s.logger.Error("malformed cache file, treating as absent",
			zap.String("path", s.path), zap.Error(err))
		return nil, false
	}

	return &env, true
}

// readLocked reads the cache file under a shared lock so that concurrent
// readers never observe a write in progress.
func (s *Store) readLocked() ([]byte, error) {
	lock := flock.New(s.path)
	if err := lock.RLock(); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	return os.ReadFile(s.path)
}
