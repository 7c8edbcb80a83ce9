package board

import (
	"errors"
	"testing"

	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/models"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	return New(nil)
}

func TestNewBoardDefaults(t *testing.T) {
	b := newTestBoard(t)

	if len(b.Sprints) != 2 {
		t.Fatalf("expected 2 default sprints, got %d", len(b.Sprints))
	}
	if b.Sprints[0].Type != models.SprintTypePriority {
		t.Errorf("expected priority sprint first, got %s", b.Sprints[0].Type)
	}
	if b.Sprints[1].Type != models.SprintTypeBacklog {
		t.Errorf("expected backlog sprint second, got %s", b.Sprints[1].Type)
	}
	if b.Settings.StoryPrefix == "" {
		t.Error("expected default story prefix")
	}
}

func TestAddStoryAssignsNumberAndDefaults(t *testing.T) {
	b := newTestBoard(t)

	story, err := b.AddStory("backlog", StoryInput{Title: "First"})
	if err != nil {
		t.Fatalf("failed to add story: %v", err)
	}
	if story.Number != b.Settings.StoryPrefix+"-001" {
		t.Errorf("expected first number %s-001, got %s", b.Settings.StoryPrefix, story.Number)
	}
	if story.Status != models.StatusOpen {
		t.Errorf("expected new story open, got %s", story.Status)
	}
	if story.SprintID != "backlog" {
		t.Errorf("expected sprint id backlog, got %s", story.SprintID)
	}
	if story.Tags == nil {
		t.Error("expected non-nil tags")
	}
}

func TestAddStoryRejectsUnknownSprintAndEmptyTitle(t *testing.T) {
	b := newTestBoard(t)

	if _, err := b.AddStory("nope", StoryInput{Title: "x"}); err == nil {
		t.Error("expected error for unknown sprint")
	}
	if _, err := b.AddStory("backlog", StoryInput{}); err == nil {
		t.Error("expected error for empty title")
	}
}

func TestStoryNumbersNeverReused(t *testing.T) {
	b := newTestBoard(t)

	first, _ := b.AddStory("backlog", StoryInput{Title: "one"})
	second, _ := b.AddStory("backlog", StoryInput{Title: "two"})
	if second.Number <= first.Number {
		t.Fatalf("expected increasing numbers, got %s then %s", first.Number, second.Number)
	}

	if err := b.DeleteStory(second.ID); err != nil {
		t.Fatalf("failed to delete story: %v", err)
	}
	third, _ := b.AddStory("backlog", StoryInput{Title: "three"})
	if third.Number == second.Number {
		t.Errorf("number %s was reused after delete", second.Number)
	}
	if want := b.Settings.StoryPrefix + "-003"; third.Number != want {
		t.Errorf("expected %s after deleting the highest number, got %s", want, third.Number)
	}
}

func TestNumberingSeedsFromLoadedSnapshot(t *testing.T) {
	snap := &models.Snapshot{
		Sprints: []models.Sprint{
			{
				ID: "backlog", Name: "Backlog", Type: models.SprintTypeBacklog,
				Stories: []models.Story{
					{ID: "s7", Number: "TUNE-007", Title: "highest", SprintID: "backlog"},
				},
			},
		},
	}
	b := New(snap)

	// Deleting the highest-numbered story must not roll the counter back.
	if err := b.DeleteStory("s7"); err != nil {
		t.Fatalf("failed to delete story: %v", err)
	}
	story, err := b.AddStory("backlog", StoryInput{Title: "next"})
	if err != nil {
		t.Fatalf("failed to add story: %v", err)
	}
	if story.Number != "TUNE-008" {
		t.Errorf("expected TUNE-008, got %s", story.Number)
	}
}

func TestNumberingReseedsOnPrefixChange(t *testing.T) {
	b := newTestBoard(t)
	b.AddStory("backlog", StoryInput{Title: "one"})

	s := b.Settings
	s.StoryPrefix = "APP"
	if err := b.UpdateSettings(s); err != nil {
		t.Fatalf("failed to change prefix: %v", err)
	}
	story, _ := b.AddStory("backlog", StoryInput{Title: "fresh prefix"})
	if story.Number != "APP-001" {
		t.Errorf("expected APP-001 under the new prefix, got %s", story.Number)
	}
}

func TestNumberingCountsArchivedStories(t *testing.T) {
	b := newTestBoard(t)
	sp, _ := b.AddSprint(SprintInput{Name: "Sprint 1"})
	b.AddStory(sp.ID, StoryInput{Title: "one"})
	b.AddStory(sp.ID, StoryInput{Title: "two"})

	if err := b.ArchiveSprint(sp.ID); err != nil {
		t.Fatalf("failed to archive: %v", err)
	}

	story, _ := b.AddStory("backlog", StoryInput{Title: "three"})
	want := b.Settings.StoryPrefix + "-003"
	if story.Number != want {
		t.Errorf("expected %s, got %s", want, story.Number)
	}
}

func TestNumberingIgnoresForeignPrefixes(t *testing.T) {
	b := newTestBoard(t)
	b.Sprints[1].Stories = append(b.Sprints[1].Stories, models.Story{
		ID: "x", Number: "OTHER-900", Title: "foreign",
	})

	story, _ := b.AddStory("backlog", StoryInput{Title: "mine"})
	want := b.Settings.StoryPrefix + "-001"
	if story.Number != want {
		t.Errorf("expected %s, got %s", want, story.Number)
	}
}

func TestUpdateStoryStatusStampsCompletedAt(t *testing.T) {
	b := newTestBoard(t)
	story, _ := b.AddStory("backlog", StoryInput{Title: "work"})

	updated, err := b.UpdateStory(story.ID, SetStatus{Status: models.StatusCompleted})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("expected CompletedAt set on completion")
	}

	updated, err = b.UpdateStory(story.ID, SetStatus{Status: models.StatusOpen})
	if err != nil {
		t.Fatalf("failed to update: %v", err)
	}
	if updated.CompletedAt != nil {
		t.Error("expected CompletedAt cleared when reopened")
	}
}

func TestMoveStoryRewritesOwnership(t *testing.T) {
	b := newTestBoard(t)
	story, _ := b.AddStory("backlog", StoryInput{Title: "move me"})

	if err := b.MoveStory(story.ID, "priority"); err != nil {
		t.Fatalf("failed to move: %v", err)
	}
	if len(b.Sprint("backlog").Stories) != 0 {
		t.Error("story still present in source sprint")
	}
	got := b.Sprint("priority").Stories
	if len(got) != 1 || got[0].SprintID != "priority" {
		t.Errorf("expected story owned by priority sprint, got %+v", got)
	}

	// Moving to the owning sprint is a no-op, not an error.
	if err := b.MoveStory(story.ID, "priority"); err != nil {
		t.Errorf("same-sprint move should be a no-op: %v", err)
	}
	if len(b.Sprint("priority").Stories) != 1 {
		t.Error("same-sprint move duplicated the story")
	}
}

func TestDeleteProtectedSprintRefused(t *testing.T) {
	b := newTestBoard(t)

	for _, id := range []string{"priority", "backlog"} {
		if err := b.DeleteSprint(id, ""); !errors.Is(err, errs.ErrProtectedSprint) {
			t.Errorf("DeleteSprint(%s): expected ErrProtectedSprint, got %v", id, err)
		}
		if err := b.ArchiveSprint(id); !errors.Is(err, errs.ErrProtectedSprint) {
			t.Errorf("ArchiveSprint(%s): expected ErrProtectedSprint, got %v", id, err)
		}
	}
}

func TestDeleteSprintMovesStories(t *testing.T) {
	b := newTestBoard(t)
	sp, _ := b.AddSprint(SprintInput{Name: "Doomed"})
	b.AddStory(sp.ID, StoryInput{Title: "survivor"})

	if err := b.DeleteSprint(sp.ID, "backlog"); err != nil {
		t.Fatalf("failed to delete sprint: %v", err)
	}
	got := b.Sprint("backlog").Stories
	if len(got) != 1 || got[0].SprintID != "backlog" {
		t.Errorf("expected story relocated to backlog, got %+v", got)
	}
}

func TestArchiveSprintForcesCompletion(t *testing.T) {
	b := newTestBoard(t)
	sp, _ := b.AddSprint(SprintInput{Name: "Done soon"})
	b.AddStory(sp.ID, StoryInput{Title: "open one"})
	st2, _ := b.AddStory(sp.ID, StoryInput{Title: "in progress one"})
	b.UpdateStory(st2.ID, SetStatus{Status: models.StatusInProgress})

	if err := b.ArchiveSprint(sp.ID); err != nil {
		t.Fatalf("failed to archive: %v", err)
	}

	archived := b.ArchivedSprint(sp.ID)
	if archived == nil {
		t.Fatal("sprint missing from archive")
	}
	if archived.IsActive {
		t.Error("archived sprint still active")
	}
	for _, st := range archived.Stories {
		if st.Status != models.StatusCompleted {
			t.Errorf("story %s not completed after archive", st.Number)
		}
		if st.CompletedAt == nil {
			t.Errorf("story %s missing CompletedAt after archive", st.Number)
		}
	}
}

func TestRestoreSprintKeepsStoryStatuses(t *testing.T) {
	b := newTestBoard(t)
	sp, _ := b.AddSprint(SprintInput{Name: "Round trip"})
	b.AddStory(sp.ID, StoryInput{Title: "story"})
	b.ArchiveSprint(sp.ID)

	if err := b.RestoreSprint(sp.ID); err != nil {
		t.Fatalf("failed to restore: %v", err)
	}
	restored := b.Sprint(sp.ID)
	if restored == nil {
		t.Fatal("sprint missing after restore")
	}
	if !restored.IsActive {
		t.Error("restored sprint not active")
	}
	if restored.Stories[0].Status != models.StatusCompleted {
		t.Error("archived completion status should survive restore")
	}
}

func TestReorderSprintsPinsProtectedPositions(t *testing.T) {
	b := newTestBoard(t)
	s1, _ := b.AddSprint(SprintInput{Name: "A"})
	s2, _ := b.AddSprint(SprintInput{Name: "B"})

	if err := b.ReorderSprints([]string{"backlog", s2.ID, s1.ID, "priority"}); err != nil {
		t.Fatalf("failed to reorder: %v", err)
	}

	if b.Sprints[0].ID != "priority" {
		t.Errorf("priority sprint not first, got %s", b.Sprints[0].ID)
	}
	if b.Sprints[len(b.Sprints)-1].ID != "backlog" {
		t.Errorf("backlog sprint not last, got %s", b.Sprints[len(b.Sprints)-1].ID)
	}
	if b.Sprints[1].ID != s2.ID || b.Sprints[2].ID != s1.ID {
		t.Errorf("custom order not applied: %s, %s", b.Sprints[1].ID, b.Sprints[2].ID)
	}
}

func TestSprintProgress(t *testing.T) {
	b := newTestBoard(t)
	st1, _ := b.AddStory("backlog", StoryInput{Title: "a"})
	b.AddStory("backlog", StoryInput{Title: "b"})
	b.UpdateStory(st1.ID, SetStatus{Status: models.StatusCompleted})

	if got := b.SprintProgress("backlog"); got != 50 {
		t.Errorf("expected 50%%, got %d%%", got)
	}
	if got := b.SprintProgress("priority"); got != 0 {
		t.Errorf("expected 0%% for empty sprint, got %d%%", got)
	}
}

func TestUpdateSettingsValidation(t *testing.T) {
	b := newTestBoard(t)

	bad := b.Settings
	bad.AutoSaveInterval = 1234
	if err := b.UpdateSettings(bad); err == nil {
		t.Error("expected error for unsupported interval")
	}

	bad = b.Settings
	bad.MaxBackups = 0
	if err := b.UpdateSettings(bad); err == nil {
		t.Error("expected error for out-of-range max backups")
	}

	good := b.Settings
	good.StoryPrefix = "APP"
	good.AutoSaveInterval = 60000
	if err := b.UpdateSettings(good); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	if b.Settings.StoryPrefix != "APP" {
		t.Error("settings not applied")
	}
}

func TestSearchFilters(t *testing.T) {
	b := newTestBoard(t)
	b.AddStory("backlog", StoryInput{Title: "Fix login bug", Tags: []string{"auth"}})
	st, _ := b.AddStory("backlog", StoryInput{Title: "Write docs", Priority: models.PriorityHigh})
	b.UpdateStory(st.ID, SetStatus{Status: models.StatusInProgress})

	if got := b.Search(Filter{Query: "login"}); len(got) != 1 {
		t.Errorf("query filter: expected 1 match, got %d", len(got))
	}
	if got := b.Search(Filter{Tag: "auth"}); len(got) != 1 {
		t.Errorf("tag filter: expected 1 match, got %d", len(got))
	}
	if got := b.Search(Filter{Status: models.StatusInProgress}); len(got) != 1 {
		t.Errorf("status filter: expected 1 match, got %d", len(got))
	}
	if got := b.Search(Filter{Priority: models.PriorityHigh}); len(got) != 1 {
		t.Errorf("priority filter: expected 1 match, got %d", len(got))
	}
}
