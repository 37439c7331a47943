package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"taskboard/internal/fsutil"
	"taskboard/internal/logging"
)

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// CheckFunc reports why the blob stored under key cannot be used, or nil.
type CheckFunc func(key string, data []byte) error

// FileStore keeps each key in <dir>/<key>.json. Writes are atomic and keep
// the previous contents in a .bak file, which is used to recover from a
// blob that no longer parses.
type FileStore struct {
	dir   string
	log   *logging.Logger
	now   func() time.Time // injectable clock for deterministic tests
	check CheckFunc
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir string, log *logging.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{
		dir: dir,
		log: logging.OrNop(log).WithComponent("filestore"),
		now: time.Now,
	}, nil
}

// SetNowFunc overrides the clock used to name corrupt files.
// Passing nil resets it to time.Now.
func (s *FileStore) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// SetCheck installs a decoder-level check run on every blob Get reads, on top
// of the JSON syntax check. A blob failing it is treated like a corrupt file:
// replaced from .bak when that passes, otherwise moved aside.
func (s *FileStore) SetCheck(check CheckFunc) {
	s.check = check
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	path := s.Path(key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	err = s.usable(key, data)
	if err == nil {
		return data, nil
	}
	s.log.Warnw("blob unusable", "key", key, "error", err)
	return s.recoverBlob(key)
}

// recoverBlob replaces a broken blob with its backup when that one parses, and
// otherwise moves the broken file aside so the caller starts fresh.
func (s *FileStore) recoverBlob(key string) ([]byte, error) {
	path := s.Path(key)
	corrupt := fsutil.MoveAside(path, s.now())

	bak, err := os.ReadFile(fsutil.BackupPath(path))
	if err == nil && s.usable(key, bak) == nil {
		if err := fsutil.WriteFileAtomic(path, bak, dataFilePerm); err != nil {
			return nil, fmt.Errorf("restore %s from backup: %w", filepath.Base(path), err)
		}
		s.log.Warnw("recovered blob from backup", "key", key, "corrupt", corrupt)
		return bak, nil
	}

	s.log.Warnw("blob unreadable and no usable backup, starting empty", "key", key, "corrupt", corrupt)
	return nil, ErrNotFound
}

func (s *FileStore) usable(key string, data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty file")
	}
	if !json.Valid(trimmed) {
		return errors.New("invalid JSON")
	}
	if s.check != nil {
		return s.check(key, data)
	}
	return nil
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	path := s.Path(key)

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, value, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
