package storage

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/sprintdeck/internal/models"
)

func setupTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "board.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteInitAndRoundTrip(t *testing.T) {
	store := setupTestSQLiteStore(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if snap == nil || len(snap.Sprints) != 2 {
		t.Fatalf("expected default snapshot, got %+v", snap)
	}

	snap.Sprints[1].Stories = append(snap.Sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: "DB story", Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{}, SprintID: "backlog",
	})
	if err := store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if len(got.Sprints[1].Stories) != 1 || got.Sprints[1].Stories[0].Title != "DB story" {
		t.Errorf("story did not survive round trip: %+v", got.Sprints[1].Stories)
	}
}

func TestSQLiteInitRefusesRepeat(t *testing.T) {
	store := setupTestSQLiteStore(t)
	if err := store.Init(); err == nil {
		t.Error("expected error when initializing twice")
	}
}

func TestSQLiteBackupRingBounded(t *testing.T) {
	store := setupTestSQLiteStore(t)
	snap, _ := store.Load()
	settings := snap.Settings
	settings.MaxBackups = 2

	for i := 0; i < 5; i++ {
		if err := store.Save(snap.Sprints, snap.ArchivedSprints, settings); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	backups, err := store.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 2 {
		t.Errorf("expected ring bounded to 2, got %d", len(backups))
	}
}

func TestSQLiteRestoreFromBackup(t *testing.T) {
	store := setupTestSQLiteStore(t)
	snap, _ := store.Load()
	snap.Sprints[1].Stories = append(snap.Sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: "Old state", Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{}, SprintID: "backlog",
	})
	store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)
	snap.Sprints[1].Stories = []models.Story{}
	store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)

	backups, _ := store.ListBackups()
	if len(backups) == 0 {
		t.Fatal("expected backups")
	}
	restored, err := store.RestoreFromBackup(backups[0].ID)
	if err != nil {
		t.Fatalf("failed to restore: %v", err)
	}
	if len(restored.Sprints[1].Stories) != 1 {
		t.Errorf("expected old state back, got %+v", restored.Sprints[1].Stories)
	}
}

func TestSQLiteClearAll(t *testing.T) {
	store := setupTestSQLiteStore(t)
	if err := store.ClearAll(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	snap, err := store.Load()
	if err != nil || snap != nil {
		t.Errorf("expected empty store after clear, got %v, %v", snap, err)
	}
}
