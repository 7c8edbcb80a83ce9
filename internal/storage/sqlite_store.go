package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/sprintdeck/internal/constants"
	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// SQLiteStore persists the snapshot in a single-row table with the backup
// ring alongside it. The snapshot is stored as serialized JSON so the file
// and database backends stay interchangeable.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

var _ Provider = (*SQLiteStore)(nil)

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM snapshot").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("already initialized at %s", s.path)
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
	return s.writeSnapshot(text, snap.LastSaved)
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) ConfigPath() string { return s.path }

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return s.createSchema()
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshot (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS backups (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			data TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) writeSnapshot(text string, savedAt time.Time) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO snapshot (id, data, saved_at) VALUES (1, ?, ?)",
		text, savedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) readSnapshot() (string, error) {
	var text string
	err := s.db.QueryRow("SELECT data FROM snapshot WHERE id = 1").Scan(&text)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return text, err
}

// Load returns (nil, nil) when no snapshot row exists. A corrupt row walks
// the backup ring newest first and restores the first parsable entry.
func (s *SQLiteStore) Load() (*models.Snapshot, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}
	if err := s.open(); err != nil {
		return nil, err
	}

	text, err := s.readSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if text == "" {
		return nil, nil
	}

	snap, derr := decodeSnapshot(text)
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
		if werr := s.writeSnapshot(entry.Data, snap.LastSaved); werr != nil {
			return nil, fmt.Errorf("failed to restore backup %s: %w", entry.ID, werr)
		}
		logger.Info("recovered snapshot from backup", "id", entry.ID, "timestamp", entry.Timestamp)
		return snap, nil
	}
	return nil, fmt.Errorf("snapshot is corrupt and every backup is unparsable: %w", derr)
}

func (s *SQLiteStore) Save(sprints, archived []models.Sprint, settings models.Settings) error {
	if err := s.open(); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
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

	if prev, err := s.readSnapshot(); err == nil && prev != "" {
		if err := s.pushBackup(prev, settings.MaxBackups); err != nil {
			logger.Warn("failed to record backup before save", "err", err)
		}
	}

	if err := s.writeSnapshot(text, snap.LastSaved); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Export() (string, error) {
	snap, err := s.Load()
	if err != nil {
		return "", err
	}
	if snap == nil {
		return "", errs.ErrNoData
	}
	return buildExport(snap)
}

func (s *SQLiteStore) Import(data string) (*models.Snapshot, error) {
	snap, err := parseImport(data)
	if err != nil {
		return nil, err
	}
	if err := s.open(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	if prev, err := s.readSnapshot(); err == nil && prev != "" {
		if err := s.pushBackup(prev, snap.Settings.MaxBackups); err != nil {
			logger.Warn("failed to record backup before import", "err", err)
		}
	}
	text, err := encodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	if err := s.writeSnapshot(text, snap.LastSaved); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSaveFailed, err)
	}
	return snap, nil
}

func (s *SQLiteStore) ListBackups() ([]BackupInfo, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
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

func (s *SQLiteStore) RestoreFromBackup(id string) (*models.Snapshot, error) {
	if err := s.open(); err != nil {
		return nil, err
	}
	var timestamp, data string
	err := s.db.QueryRow("SELECT timestamp, data FROM backups WHERE id = ?", id).Scan(&timestamp, &data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", errs.ErrBackupNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrBackupCorrupt, err)
	}
	if prev, rerr := s.readSnapshot(); rerr == nil && prev != "" {
		if err := s.pushBackup(prev, snap.Settings.MaxBackups); err != nil {
			logger.Warn("failed to record backup before restore", "err", err)
		}
	}
	if err := s.writeSnapshot(data, snap.LastSaved); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) Info() (Info, error) {
	info := Info{}
	if st, err := os.Stat(s.path); err == nil {
		info.Size = st.Size()
	}
	if snap, err := s.Load(); err == nil && snap != nil {
		info.LastSaved = snap.LastSaved
	}
	if s.db != nil {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM backups").Scan(&count); err == nil {
			info.BackupCount = count
		}
	}
	return info, nil
}

func (s *SQLiteStore) ClearAll() error {
	if err := s.open(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM snapshot"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM backups"); err != nil {
		return err
	}
	return tx.Commit()
}

// pushBackup inserts the previous snapshot text and trims the ring to the
// bound, oldest entries first.
func (s *SQLiteStore) pushBackup(data string, maxBackups int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO backups (id, timestamp, data) VALUES (?, ?, ?)",
		uuid.NewString(), time.Now().UTC().Format(time.RFC3339Nano), data,
	)
	if err != nil {
		return err
	}

	bound := clampBackupBound(maxBackups)
	_, err = tx.Exec(`
		DELETE FROM backups WHERE id NOT IN (
			SELECT id FROM backups ORDER BY timestamp DESC LIMIT ?
		)`, bound)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) readRing() ([]backupEntry, error) {
	rows, err := s.db.Query("SELECT id, timestamp, data FROM backups ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to read backups: %w", err)
	}
	defer rows.Close()

	var ring []backupEntry
	for rows.Next() {
		var entry backupEntry
		var timestamp string
		if err := rows.Scan(&entry.ID, &timestamp, &entry.Data); err != nil {
			return nil, err
		}
		entry.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, fmt.Errorf("failed to parse backup timestamp: %w", err)
		}
		ring = append(ring, entry)
	}
	return ring, rows.Err()
}
