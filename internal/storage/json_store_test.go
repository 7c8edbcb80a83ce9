package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/models"
)

func setupTestJSONStore(t *testing.T) *JSONStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return store
}

func TestInitCreatesDefaultsAndRefusesRepeat(t *testing.T) {
	store := setupTestJSONStore(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot after init")
	}
	if len(snap.Sprints) != 2 {
		t.Errorf("expected 2 default sprints, got %d", len(snap.Sprints))
	}

	if err := store.Init(); err == nil {
		t.Error("expected error when initializing twice")
	}
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	snap, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap != nil {
		t.Error("expected nil snapshot for missing file")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()

	snap.Sprints[1].Stories = append(snap.Sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: "Round trip", Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{"a", "b"}, SprintID: "backlog",
	})
	if err := store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	stories := got.Sprints[1].Stories
	if len(stories) != 1 || stories[0].Title != "Round trip" {
		t.Errorf("story did not survive round trip: %+v", stories)
	}
	if got.LastSaved.IsZero() {
		t.Error("expected LastSaved stamped")
	}
}

func TestSaveRecordsBackupAndBoundsRing(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()
	settings := snap.Settings
	settings.MaxBackups = 3

	for i := 0; i < 6; i++ {
		if err := store.Save(snap.Sprints, snap.ArchivedSprints, settings); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	backups, err := store.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected ring bounded to 3, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Error("backups not ordered newest first")
		}
	}
}

func TestLoadRecoversFromBackupOnCorruption(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()
	snap.Sprints[1].Stories = append(snap.Sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: "Keep me", Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{}, SprintID: "backlog",
	})
	if err := store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	// One more save pushes the good state into the ring.
	if err := store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	if err := os.WriteFile(store.ConfigPath(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to corrupt file: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("expected recovery, got error: %v", err)
	}
	if len(got.Sprints[1].Stories) != 1 || got.Sprints[1].Stories[0].Title != "Keep me" {
		t.Errorf("recovered snapshot missing story: %+v", got.Sprints[1].Stories)
	}

	// The recovered state must now be the primary file.
	raw, _ := os.ReadFile(store.ConfigPath())
	if !strings.Contains(string(raw), "Keep me") {
		t.Error("primary file not rewritten with recovered snapshot")
	}
}

func TestLoadCorruptWithoutBackupsFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.json")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Error("expected error for corrupt file with no backups")
	}
}

func TestRestoreFromBackup(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()

	snap.Sprints[1].Stories = append(snap.Sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: "Old state", Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{}, SprintID: "backlog",
	})
	store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)
	// Overwrite so "Old state" lives only in the ring.
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

	if _, err := store.RestoreFromBackup("no-such-id"); !errors.Is(err, errs.ErrBackupNotFound) {
		t.Errorf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestExportStripsAPIKey(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()
	settings := snap.Settings
	settings.OpenAIAPIKey = "sk-secret"
	store.Save(snap.Sprints, snap.ArchivedSprints, settings)

	out, err := store.Export()
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if strings.Contains(out, "sk-secret") {
		t.Error("API key leaked into export")
	}
	if !strings.Contains(out, "exportedAt") || !strings.Contains(out, "exportVersion") {
		t.Error("export metadata missing")
	}
}

func TestImportValidation(t *testing.T) {
	store := setupTestJSONStore(t)

	if _, err := store.Import("not json"); !errors.Is(err, errs.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for garbage, got %v", err)
	}
	if _, err := store.Import(`{"settings":{}}`); !errors.Is(err, errs.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for missing sprints, got %v", err)
	}
	if _, err := store.Import(`{"version":"1.0","sprints":"nope"}`); !errors.Is(err, errs.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for non-array sprints, got %v", err)
	}
	if _, err := store.Import(`{"sprints":[]}`); !errors.Is(err, errs.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for missing version, got %v", err)
	}

	snap, err := store.Import(`{"version":"1.0","sprints":[{"id":"priority","name":"Priority Sprint","type":"priority","position":0,"isActive":true,"stories":[]}]}`)
	if err != nil {
		t.Fatalf("valid import rejected: %v", err)
	}
	if snap.Settings.StoryPrefix == "" {
		t.Error("expected default settings merged on import")
	}
	if snap.ArchivedSprints == nil {
		t.Error("expected archived sprints defaulted to empty")
	}
}

func TestImportBacksUpCurrentState(t *testing.T) {
	store := setupTestJSONStore(t)
	before, _ := store.ListBackups()

	_, err := store.Import(`{"version":"1.0","sprints":[]}`)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	after, _ := store.ListBackups()
	if len(after) != len(before)+1 {
		t.Errorf("expected one new backup, had %d now %d", len(before), len(after))
	}
}

func TestClearAllRemovesEverything(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()
	store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)

	if err := store.ClearAll(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	got, err := store.Load()
	if err != nil || got != nil {
		t.Errorf("expected empty store after clear, got %v, %v", got, err)
	}
	backups, _ := store.ListBackups()
	if len(backups) != 0 {
		t.Errorf("expected no backups after clear, got %d", len(backups))
	}
}

func TestInfoReportsState(t *testing.T) {
	store := setupTestJSONStore(t)
	snap, _ := store.Load()
	store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)

	info, err := store.Info()
	if err != nil {
		t.Fatalf("failed to get info: %v", err)
	}
	if info.Size == 0 {
		t.Error("expected non-zero size")
	}
	if info.LastSaved.IsZero() {
		t.Error("expected LastSaved set")
	}
	if info.BackupCount != 1 {
		t.Errorf("expected 1 backup, got %d", info.BackupCount)
	}
}
