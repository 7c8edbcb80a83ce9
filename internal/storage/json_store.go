package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sprintdeck/internal/constants"
	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// JSONStore persists the snapshot as a single JSON file, with the backup
// ring in a sibling file next to it.
type JSONStore struct {
	path        string
	backupsPath string
}

var _ Provider = (*JSONStore)(nil)

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path:        path,
		backupsPath: strings.TrimSuffix(path, ".json") + constants.BackupsFileSuffix,
	}
}

// Init creates the config directory and writes a default snapshot. It fails
// if a snapshot already exists so a stray init cannot clobber data.
func (s *JSONStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("already initialized at %s", s.path)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	snap := &models.Snapshot{
		Sprints:         models.DefaultSprints(),
		ArchivedSprints: []models.Sprint{},
		Settings:        models.DefaultSettings(),
		LastSaved:       time.Now(),
		Version:         constants.SnapshotVersion,
	}
	text, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.writeFile(s.path, text)
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) ConfigPath() string { return s.path }

// Load reads the snapshot. A missing file yields (nil, nil) for the caller
// to seed defaults. A corrupt file triggers recovery: the ring is walked
// newest first and the first parsable backup is restored as the current
// snapshot.
func (s *JSONStore) Load() (*models.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap, derr := decodeSnapshot(string(raw))
	if derr == nil {
		return snap, nil
	}

	logger.Warn("snapshot is corrupt, attempting backup recovery", "err", derr)
	ring, rerr := s.readRing()
	if rerr != nil || len(ring) == 0 {
		return nil, fmt.Errorf("snapshot is corrupt and no backups are available: %w", derr)
	}
	for _, entry := range ring {
		snap, err := decodeSnapshot(entry.Data)
		if err != nil {
			logger.Warn("skipping unparsable backup", "id", entry.ID)
			continue
		}
		if werr := s.writeFile(s.path, entry.Data); werr != nil {
			return nil, fmt.Errorf("failed to restore backup %s: %w", entry.ID, werr)
		}
		logger.Info("recovered snapshot from backup", "id", entry.ID, "timestamp", entry.Timestamp)
		return snap, nil
	}
	return nil, fmt.Errorf("snapshot is corrupt and every backup is unparsable: %w", derr)
}

// Save pushes the previous file contents into the backup ring, then writes
// the new snapshot with a fresh lastSaved stamp.
func (s *JSONStore) Save(sprints, archived []models.Sprint, settings models.Settings) error {
	snap := &models.Snapshot{
		Sprints:         sprints,
		ArchivedSprints: archived,
		Settings:        settings,
		LastSaved:       time.Now(),
		Version:         constants.SnapshotVersion,
	}
	text, err := encodeSnapshot(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}

	if prev, err := os.ReadFile(s.path); err == nil {
		if err := s.pushBackup(string(prev), settings.MaxBackups); err != nil {
			logger.Warn("failed to record backup before save", "err", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	if err := s.writeFile(s.path, text); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	return nil
}

func (s *JSONStore) Export() (string, error) {
	snap, err := s.Load()
	if err != nil {
		return "", err
	}
	if snap == nil {
		return "", errs.ErrNoData
	}
	return buildExport(snap)
}

// Import validates the payload, backs up the current snapshot, then replaces
// it wholesale.
func (s *JSONStore) Import(data string) (*models.Snapshot, error) {
	snap, err := parseImport(data)
	if err != nil {
		return nil, err
	}
	if prev, err := os.ReadFile(s.path); err == nil {
		if err := s.pushBackup(string(prev), snap.Settings.MaxBackups); err != nil {
			logger.Warn("failed to record backup before import", "err", err)
		}
	}
	text, err := encodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	if err := s.writeFile(s.path, text); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	return snap, nil
}

func (s *JSONStore) ListBackups() ([]BackupInfo, error) {
	ring, err := s.readRing()
	if err != nil {
		return nil, err
	}
	infos := make([]BackupInfo, 0, len(ring))
	for _, entry := range ring {
		infos = append(infos, BackupInfo{
			ID:        entry.ID,
			Timestamp: entry.Timestamp,
			Size:      int64(len(entry.Data)),
		})
	}
	return infos, nil
}

// RestoreFromBackup replaces the current snapshot with the named ring entry.
// The pre-restore snapshot is itself pushed into the ring first.
func (s *JSONStore) RestoreFromBackup(id string) (*models.Snapshot, error) {
	ring, err := s.readRing()
	if err != nil {
		return nil, err
	}
	for _, entry := range ring {
		if entry.ID != id {
			continue
		}
		snap, err := decodeSnapshot(entry.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errs.ErrBackupCorrupt, err)
		}
		if prev, rerr := os.ReadFile(s.path); rerr == nil {
			if err := s.pushBackup(string(prev), snap.Settings.MaxBackups); err != nil {
				logger.Warn("failed to record backup before restore", "err", err)
			}
		}
		if err := s.writeFile(s.path, entry.Data); err != nil {
			return nil, fmt.Errorf("failed to restore backup: %w", err)
		}
		return snap, nil
	}
	return nil, fmt.Errorf("%w: %s", errs.ErrBackupNotFound, id)
}

func (s *JSONStore) Info() (Info, error) {
	info := Info{}
	if st, err := os.Stat(s.path); err == nil {
		info.Size = st.Size()
	}
	if snap, err := s.Load(); err == nil && snap != nil {
		info.LastSaved = snap.LastSaved
	}
	ring, err := s.readRing()
	if err == nil {
		info.BackupCount = len(ring)
	}
	return info, nil
}

// ClearAll removes the snapshot and its backups.
func (s *JSONStore) ClearAll() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove snapshot: %w", err)
	}
	if err := os.Remove(s.backupsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove backups: %w", err)
	}
	return nil
}

// pushBackup prepends the raw text to the ring and trims to the bound.
// Unparsable ring files start fresh rather than blocking the save.
func (s *JSONStore) pushBackup(data string, maxBackups int) error {
	ring, err := s.readRing()
	if err != nil {
		logger.Warn("backup ring is unreadable, starting a new one", "err", err)
		ring = nil
	}
	entry := backupEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Data:      data,
	}
	ring = append([]backupEntry{entry}, ring...)
	bound := clampBackupBound(maxBackups)
	if len(ring) > bound {
		ring = ring[:bound]
	}
	return s.writeRing(ring)
}

func (s *JSONStore) readRing() ([]backupEntry, error) {
	raw, err := os.ReadFile(s.backupsPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backups: %w", err)
	}
	var ring []backupEntry
	if err := json.Unmarshal(raw, &ring); err != nil {
		return nil, fmt.Errorf("failed to parse backups: %w", err)
	}
	return ring, nil
}

func (s *JSONStore) writeRing(ring []backupEntry) error {
	data, err := json.MarshalIndent(ring, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize backups: %w", err)
	}
	return s.writeFile(s.backupsPath, string(data))
}

// writeFile writes via a temp file and rename so a crash mid-write cannot
// leave a truncated snapshot.
func (s *JSONStore) writeFile(path, data string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(data), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
