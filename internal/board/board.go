// Package board holds the pure board-state operations: story and sprint
// CRUD, moves, archive/restore and reordering. Operations mutate an
// in-memory Board and report rule violations as error values; persistence is
// the caller's concern.
package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/models"
)

type Board struct {
	Sprints         []models.Sprint
	ArchivedSprints []models.Sprint
	Settings        models.Settings

	// counter is the highest story number issued for the current prefix.
	// It never decreases while the prefix stays the same.
	counter int
}

// New builds a board from a loaded snapshot. A nil snapshot (first run)
// yields the two default sprints and default settings.
func New(snap *models.Snapshot) *Board {
	if snap == nil {
		return &Board{
			Sprints:         models.DefaultSprints(),
			ArchivedSprints: []models.Sprint{},
			Settings:        models.DefaultSettings(),
		}
	}
	snap.Normalize()
	b := &Board{
		Sprints:         snap.Sprints,
		ArchivedSprints: snap.ArchivedSprints,
		Settings:        snap.Settings,
	}
	if len(b.Sprints) == 0 {
		b.Sprints = models.DefaultSprints()
	}
	b.seedCounter()
	return b
}

// Snapshot captures the board as the persistence unit. LastSaved and Version
// are stamped by the store on write.
func (b *Board) Snapshot() *models.Snapshot {
	return &models.Snapshot{
		Sprints:         b.Sprints,
		ArchivedSprints: b.ArchivedSprints,
		Settings:        b.Settings,
		Version:         constants.SnapshotVersion,
	}
}

// Sprint returns a pointer into the active collection, or nil.
func (b *Board) Sprint(id string) *models.Sprint {
	for i := range b.Sprints {
		if b.Sprints[i].ID == id {
			return &b.Sprints[i]
		}
	}
	return nil
}

// ArchivedSprint returns a pointer into the archived collection, or nil.
func (b *Board) ArchivedSprint(id string) *models.Sprint {
	for i := range b.ArchivedSprints {
		if b.ArchivedSprints[i].ID == id {
			return &b.ArchivedSprints[i]
		}
	}
	return nil
}

// AllStories returns every story across active sprints, in sprint order.
func (b *Board) AllStories() []models.Story {
	var stories []models.Story
	for i := range b.Sprints {
		stories = append(stories, b.Sprints[i].Stories...)
	}
	return stories
}

// SprintProgress returns the completed percentage for a sprint, 0 when the
// sprint is unknown or empty.
func (b *Board) SprintProgress(sprintID string) int {
	sp := b.Sprint(sprintID)
	if sp == nil || len(sp.Stories) == 0 {
		return 0
	}
	completed := 0
	for i := range sp.Stories {
		if sp.Stories[i].Status == models.StatusCompleted {
			completed++
		}
	}
	return int(float64(completed)/float64(len(sp.Stories))*100 + 0.5)
}

func (b *Board) sortSprints() {
	sort.SliceStable(b.Sprints, func(i, j int) bool {
		return b.Sprints[i].Position < b.Sprints[j].Position
	})
}

// UpdateSettings applies a settings change, keeping the prefix uppercased and
// the backup bound within its limits.
func (b *Board) UpdateSettings(s models.Settings) error {
	if s.StoryPrefix == "" {
		return fmt.Errorf("story prefix cannot be empty")
	}
	valid := false
	for _, iv := range constants.AutoSaveIntervals {
		if s.AutoSaveInterval == iv {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("autosave interval %dms is not a supported preset", s.AutoSaveInterval)
	}
	if s.MaxBackups < constants.MinBackups || s.MaxBackups > constants.MaxBackupsLimit {
		return fmt.Errorf("max backups must be between %d and %d", constants.MinBackups, constants.MaxBackupsLimit)
	}
	switch s.Theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
	default:
		return fmt.Errorf("unknown theme: %s", s.Theme)
	}
	prefixChanged := !strings.EqualFold(b.Settings.StoryPrefix, s.StoryPrefix)
	b.Settings = s
	if prefixChanged {
		b.seedCounter()
	}
	return nil
}

// Replace swaps the whole board state for an imported snapshot.
func (b *Board) Replace(snap *models.Snapshot) {
	snap.Normalize()
	b.Sprints = snap.Sprints
	b.ArchivedSprints = snap.ArchivedSprints
	b.Settings = snap.Settings
	if len(b.Sprints) == 0 {
		b.Sprints = models.DefaultSprints()
	}
	b.sortSprints()
	b.seedCounter()
}
