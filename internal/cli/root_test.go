package cli

import (
	"errors"
	"testing"

	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/storage"
)

type fakeStore struct {
	snap  *models.Snapshot
	saves int
}

func (f *fakeStore) Init() error  { return nil }
func (f *fakeStore) Close() error { return nil }
func (f *fakeStore) Load() (*models.Snapshot, error) {
	return f.snap, nil
}
func (f *fakeStore) Save(sprints, archived []models.Sprint, settings models.Settings) error {
	f.saves++
	return nil
}
func (f *fakeStore) Export() (string, error)                        { return "", nil }
func (f *fakeStore) Import(data string) (*models.Snapshot, error)   { return nil, nil }
func (f *fakeStore) ListBackups() ([]storage.BackupInfo, error)     { return nil, nil }
func (f *fakeStore) RestoreFromBackup(string) (*models.Snapshot, error) {
	return nil, nil
}
func (f *fakeStore) Info() (storage.Info, error) { return storage.Info{}, nil }
func (f *fakeStore) ClearAll() error             { return nil }
func (f *fakeStore) ConfigPath() string          { return "" }

type fakeMirror struct {
	available  bool
	snap       *models.Snapshot
	loadErr    error
	replicated int
}

func (f *fakeMirror) Available() bool   { return f.available }
func (f *fakeMirror) Workspace() string { return "default" }
func (f *fakeMirror) Load() (*models.Snapshot, error) {
	return f.snap, f.loadErr
}
func (f *fakeMirror) Replicate(snap *models.Snapshot) error {
	f.replicated++
	return nil
}

func snapshotWithStory(title string) *models.Snapshot {
	sprints := models.DefaultSprints()
	sprints[1].Stories = append(sprints[1].Stories, models.Story{
		ID: "s1", Number: "TUNE-001", Title: title, Status: models.StatusOpen,
		Priority: models.PriorityMedium, Tags: []string{}, SprintID: "backlog",
	})
	return &models.Snapshot{
		Sprints:         sprints,
		ArchivedSprints: []models.Sprint{},
		Settings:        models.DefaultSettings(),
	}
}

func TestBoardPrefersReachableMirror(t *testing.T) {
	ctx := &Context{
		Store:  &fakeStore{snap: snapshotWithStory("local")},
		Mirror: &fakeMirror{available: true, snap: snapshotWithStory("remote")},
	}

	b, err := ctx.Board()
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}
	if got := b.Sprints[1].Stories[0].Title; got != "remote" {
		t.Errorf("expected the workspace snapshot, got story %q", got)
	}
}

func TestBoardFallsBackToLocalOnMirrorFailure(t *testing.T) {
	ctx := &Context{
		Store:  &fakeStore{snap: snapshotWithStory("local")},
		Mirror: &fakeMirror{available: true, loadErr: errors.New("connection reset")},
	}

	b, err := ctx.Board()
	if err != nil {
		t.Fatalf("remote failure should not surface: %v", err)
	}
	if got := b.Sprints[1].Stories[0].Title; got != "local" {
		t.Errorf("expected the local snapshot, got story %q", got)
	}
}

func TestBoardFallsBackToLocalWhenWorkspaceEmpty(t *testing.T) {
	ctx := &Context{
		Store:  &fakeStore{snap: snapshotWithStory("local")},
		Mirror: &fakeMirror{available: true},
	}

	b, err := ctx.Board()
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}
	if got := b.Sprints[1].Stories[0].Title; got != "local" {
		t.Errorf("expected the local snapshot, got story %q", got)
	}
}

func TestBoardSkipsUnreachableMirror(t *testing.T) {
	ctx := &Context{
		Store:  &fakeStore{snap: snapshotWithStory("local")},
		Mirror: &fakeMirror{available: false, snap: snapshotWithStory("remote")},
	}

	b, err := ctx.Board()
	if err != nil {
		t.Fatalf("failed to load board: %v", err)
	}
	if got := b.Sprints[1].Stories[0].Title; got != "local" {
		t.Errorf("expected the local snapshot, got story %q", got)
	}
}

func TestSaveBoardReplicatesBestEffort(t *testing.T) {
	store := &fakeStore{snap: snapshotWithStory("local")}
	mirror := &fakeMirror{available: true, snap: snapshotWithStory("remote")}
	ctx := &Context{Store: store, Mirror: mirror}

	if _, err := ctx.Board(); err != nil {
		t.Fatalf("failed to load board: %v", err)
	}
	if err := ctx.SaveBoard(); err != nil {
		t.Fatalf("failed to save board: %v", err)
	}
	if store.saves != 1 {
		t.Errorf("expected 1 local save, got %d", store.saves)
	}
	if mirror.replicated != 1 {
		t.Errorf("expected 1 replication, got %d", mirror.replicated)
	}
}
