package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/sprintdeck/internal/codec"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// backupEntry is one ring slot: the raw serialized snapshot text as it was
// before an overwrite, tagged with a random id and its creation time.
type backupEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Data      string    `json:"data"`
}

// exportEnvelope is the JSON export shape: the snapshot plus export
// metadata. The API key is stripped before encoding.
type exportEnvelope struct {
	Sprints         []models.Sprint `json:"sprints"`
	ArchivedSprints []models.Sprint `json:"archivedSprints"`
	Settings        models.Settings `json:"settings"`
	LastSaved       time.Time       `json:"lastSaved"`
	Version         string          `json:"version"`
	ExportedAt      time.Time       `json:"exportedAt"`
	ExportVersion   string          `json:"exportVersion"`
}

func encodeSnapshot(snap *models.Snapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return string(data), nil
}

func decodeSnapshot(text string) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	if err := json.Unmarshal([]byte(text), snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}

func buildExport(snap *models.Snapshot) (string, error) {
	settings := snap.Settings
	settings.OpenAIAPIKey = ""
	env := exportEnvelope{
		Sprints:         snap.Sprints,
		ArchivedSprints: snap.ArchivedSprints,
		Settings:        settings,
		LastSaved:       snap.LastSaved,
		Version:         snap.Version,
		ExportedAt:      time.Now(),
		ExportVersion:   constants.ExportVersion,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize export: %w", err)
	}
	return string(data), nil
}

// parseImport delegates to the codec so import validation lives in one
// place for file uploads and store imports alike.
func parseImport(data string) (*models.Snapshot, error) {
	return codec.ParseImport(data)
}

func clampBackupBound(n int) int {
	if n < constants.MinBackups {
		return constants.DefaultMaxBackups
	}
	if n > constants.MaxBackupsLimit {
		return constants.MaxBackupsLimit
	}
	return n
}
