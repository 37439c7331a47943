// Package backup keeps timestamped copies of the board and history snapshots.
// Copies are read from and restored through a storage.Store, so they work for
// every backend; the copies themselves always live on disk.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/fsutil"
	"taskboard/internal/storage"
)

// Version constants for the backup format.
const (
	ManifestVersion = "2.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"
)

// Snapshot keys that are backed up.
var snapshotKeys = []string{storage.KeyStructure, storage.KeyHistory}

// Manager handles backup and restore operations.
type Manager struct {
	store      storage.Store
	backupDir  string // e.g. ~/.taskboard/backups
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Keys       []string       `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// BackupInfo contains summary information about a backup.
type BackupInfo struct {
	Name      string         // Directory name (2026-10-16_143022_123)
	Path      string         // Full path to backup directory
	CreatedAt time.Time      // When the backup was created
	Stats     map[string]int // sections, tasks, history_items
}

// NewManager creates a backup manager that copies snapshots out of store
// into dataDir/backups.
func NewManager(store storage.Store, dataDir, appVersion string) *Manager {
	return &Manager{
		store:      store,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name backups. nil resets it.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Create copies every stored snapshot into a new backup and returns its name.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Milliseconds keep two backups in the same second apart.
	now := m.now()
	name := fmt.Sprintf("%s_%03d", now.Format("2006-01-02_150405"), now.Nanosecond()/1e6)
	backupPath := filepath.Join(m.backupDir, name)
	if err := os.MkdirAll(backupPath, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	var keys []string
	stats := make(map[string]int)
	for _, key := range snapshotKeys {
		data, err := m.store.Get(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, key+".json"), data, 0600); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		keys = append(keys, key)
		addStats(stats, key, data)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Keys:       keys,
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.GetBackup(entry.Name())
		if err != nil {
			continue // not one of ours
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore writes a backup's snapshots back into the store. Every snapshot is
// checked before anything is written, and a safety backup of the current
// state is taken first.
func (m *Manager) Restore(ctx context.Context, name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		manifest.Keys = snapshotKeys
	}

	blobs := make(map[string][]byte)
	for _, key := range manifest.Keys {
		data, err := os.ReadFile(filepath.Join(backupPath, key+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s from backup: %w", key, err)
		}
		if err := checkSnapshot(key, data); err != nil {
			return fmt.Errorf("backup %s is invalid: %w", name, err)
		}
		blobs[key] = data
	}

	safetyName, err := m.Create(ctx)
	if err != nil {
		return fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, key := range snapshotKeys {
		data, ok := blobs[key]
		if !ok {
			continue
		}
		if err := m.store.Put(ctx, key, data); err != nil {
			return fmt.Errorf("failed to restore %s (safety backup: %s): %w", key, safetyName, err)
		}
	}
	return nil
}

// RestoreLatest restores from the most recent backup.
func (m *Manager) RestoreLatest(ctx context.Context) error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups available")
	}
	return m.Restore(ctx, backups[0].Name)
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the N most recent.
func (m *Manager) Prune(keepCount int) (int, error) {
	if keepCount < 0 {
		return 0, fmt.Errorf("keepCount must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keepCount {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keepCount:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// GetBackup returns information about a specific backup.
func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseBackupName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return &BackupInfo{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

func validateBackupName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// checkSnapshot makes sure data decodes as the snapshot stored under key.
func checkSnapshot(key string, data []byte) error {
	switch key {
	case storage.KeyStructure:
		_, err := storage.UnmarshalBoard(data)
		return err
	case storage.KeyHistory:
		_, err := storage.UnmarshalHistory(data, time.Local)
		return err
	}
	return nil
}

// addStats records item counts for a snapshot. Unreadable snapshots are
// backed up anyway, just without stats.
func addStats(stats map[string]int, key string, data []byte) {
	switch key {
	case storage.KeyStructure:
		if b, err := storage.UnmarshalBoard(data); err == nil {
			stats["sections"] = len(b.Sections())
			stats["tasks"] = b.TaskCount()
		}
	case storage.KeyHistory:
		if l, err := storage.UnmarshalHistory(data, time.Local); err == nil {
			stats["history_items"] = l.Len()
		}
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// parseBackupName parses a backup directory name into a timestamp.
// Names are 2006-01-02_150405_XXX; the millisecond suffix is optional.
func parseBackupName(name string) (time.Time, error) {
	const layout = "2006-01-02_150405"
	if len(name) == len(layout)+4 {
		base, err := time.Parse(layout, name[:len(layout)])
		if err != nil {
			return time.Time{}, err
		}
		if name[len(layout)] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[len(layout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Parse(layout, name)
}
