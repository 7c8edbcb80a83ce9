package storage

import (
	"time"

	"github.com/julianstephens/sprintdeck/internal/models"
)

// Info describes the stored snapshot for display.
type Info struct {
	Size        int64
	LastSaved   time.Time // zero when nothing has been saved
	BackupCount int
}

// BackupInfo describes one backup ring entry for display.
type BackupInfo struct {
	ID        string
	Timestamp time.Time
	Size      int64
}

// Provider is the local persistence contract. Save backs the previous value
// into a bounded ring before overwriting; Load recovers from the ring when
// the primary value is corrupt.
type Provider interface {
	// Lifecycle
	Init() error
	Close() error

	// Snapshot
	Load() (*models.Snapshot, error)
	Save(sprints, archived []models.Sprint, settings models.Settings) error

	// Export/Import
	Export() (string, error)
	Import(data string) (*models.Snapshot, error)

	// Backups
	ListBackups() ([]BackupInfo, error)
	RestoreFromBackup(id string) (*models.Snapshot, error)

	// Utils
	Info() (Info, error)
	ClearAll() error
	ConfigPath() string
}
