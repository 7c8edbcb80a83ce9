package models

import (
	"time"

	"github.com/julianstephens/sprintdeck/internal/constants"
)

// Snapshot is the full persisted unit of state: active sprints, archived
// sprints and settings. It is the unit of load, save, export, import and
// backup.
type Snapshot struct {
	Sprints         []Sprint  `json:"sprints"`
	ArchivedSprints []Sprint  `json:"archivedSprints"`
	Settings        Settings  `json:"settings"`
	LastSaved       time.Time `json:"lastSaved"`
	Version         string    `json:"version"`
}

// Clone returns a deep copy. Stories carry only value types besides the tag
// slice and the CompletedAt pointer, so those are the only per-story copies.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Sprints = cloneSprints(s.Sprints)
	out.ArchivedSprints = cloneSprints(s.ArchivedSprints)
	return &out
}

func cloneSprints(sprints []Sprint) []Sprint {
	out := make([]Sprint, len(sprints))
	copy(out, sprints)
	for i := range out {
		stories := make([]Story, len(out[i].Stories))
		copy(stories, out[i].Stories)
		for j := range stories {
			stories[j].Tags = append([]string{}, stories[j].Tags...)
			if stories[j].CompletedAt != nil {
				done := *stories[j].CompletedAt
				stories[j].CompletedAt = &done
			}
		}
		out[i].Stories = stories
		if out[i].StartDate != nil {
			start := *out[i].StartDate
			out[i].StartDate = &start
		}
		if out[i].EndDate != nil {
			end := *out[i].EndDate
			out[i].EndDate = &end
		}
	}
	return out
}

// DefaultSprints returns the Priority and Backlog sprints created on first run.
func DefaultSprints() []Sprint {
	now := time.Now()
	return []Sprint{
		{
			ID:        "priority",
			Name:      constants.PrioritySprintName,
			Type:      SprintTypePriority,
			Position:  constants.PrioritySprintPosition,
			IsActive:  true,
			Stories:   []Story{},
			CreatedAt: now,
			Layout:    LayoutSingle,
		},
		{
			ID:        "backlog",
			Name:      constants.BacklogSprintName,
			Type:      SprintTypeBacklog,
			Position:  constants.BacklogSprintPosition,
			IsActive:  true,
			Stories:   []Story{},
			CreatedAt: now,
			Layout:    LayoutTwoColumn,
		},
	}
}

// DefaultSettings returns the settings used on first run and merged under
// imported settings for any missing key.
func DefaultSettings() Settings {
	return Settings{
		StoryPrefix:      constants.DefaultStoryPrefix,
		AutoSaveInterval: constants.DefaultAutoSaveInterval,
		Theme:            ThemeSystem,
		MaxBackups:       constants.DefaultMaxBackups,
	}
}

// MergeSettings fills zero-valued fields of s from the defaults.
func MergeSettings(s Settings) Settings {
	def := DefaultSettings()
	if s.StoryPrefix == "" {
		s.StoryPrefix = def.StoryPrefix
	}
	if s.AutoSaveInterval == 0 {
		s.AutoSaveInterval = def.AutoSaveInterval
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
	if s.MaxBackups == 0 {
		s.MaxBackups = def.MaxBackups
	}
	return s
}

// Normalize walks every sprint and nested story, repairing nil slices,
// unknown priorities and story ownership references after a load or import.
func (s *Snapshot) Normalize() {
	if s.Sprints == nil {
		s.Sprints = []Sprint{}
	}
	if s.ArchivedSprints == nil {
		s.ArchivedSprints = []Sprint{}
	}
	normalizeSprints(s.Sprints)
	normalizeSprints(s.ArchivedSprints)
	s.Settings = MergeSettings(s.Settings)
}

func normalizeSprints(sprints []Sprint) {
	for i := range sprints {
		sp := &sprints[i]
		if sp.Stories == nil {
			sp.Stories = []Story{}
		}
		if sp.Layout == "" {
			sp.Layout = LayoutSingle
		}
		for j := range sp.Stories {
			st := &sp.Stories[j]
			if st.Tags == nil {
				st.Tags = []string{}
			}
			st.Priority = NormalizePriority(st.Priority)
			st.SprintID = sp.ID
		}
	}
}

// StoryCount returns the number of stories across the given sprints.
func StoryCount(sprints []Sprint) int {
	n := 0
	for i := range sprints {
		n += len(sprints[i].Stories)
	}
	return n
}
