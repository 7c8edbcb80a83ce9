package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeRepairsNilSlicesAndOwnership(t *testing.T) {
	snap := &Snapshot{
		Sprints: []Sprint{
			{
				ID: "a", Name: "A", Type: SprintTypeCustom,
				Stories: []Story{
					{ID: "s1", Number: "X-001", Title: "t", SprintID: "wrong", Priority: "critical"},
				},
			},
			{ID: "b", Name: "B", Type: SprintTypeCustom},
		},
	}
	snap.Normalize()

	if snap.ArchivedSprints == nil {
		t.Error("archived sprints left nil")
	}
	if snap.Sprints[1].Stories == nil {
		t.Error("sprint stories left nil")
	}
	if snap.Sprints[1].Layout != LayoutSingle {
		t.Errorf("layout not defaulted: %s", snap.Sprints[1].Layout)
	}
	st := snap.Sprints[0].Stories[0]
	if st.SprintID != "a" {
		t.Errorf("ownership not repaired: %s", st.SprintID)
	}
	if st.Priority != PriorityMedium {
		t.Errorf("unknown priority not normalized: %s", st.Priority)
	}
	if st.Tags == nil {
		t.Error("tags left nil")
	}
	if snap.Settings.StoryPrefix == "" {
		t.Error("settings not merged with defaults")
	}
}

func TestMergeSettingsFillsZeroValues(t *testing.T) {
	got := MergeSettings(Settings{StoryPrefix: "APP"})
	def := DefaultSettings()

	if got.StoryPrefix != "APP" {
		t.Errorf("explicit value overwritten: %s", got.StoryPrefix)
	}
	if got.AutoSaveInterval != def.AutoSaveInterval {
		t.Errorf("interval not defaulted: %d", got.AutoSaveInterval)
	}
	if got.Theme != def.Theme {
		t.Errorf("theme not defaulted: %s", got.Theme)
	}
	if got.MaxBackups != def.MaxBackups {
		t.Errorf("max backups not defaulted: %d", got.MaxBackups)
	}
}

func TestStoryTimesSurviveJSON(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	done := now.Add(time.Hour)
	st := Story{
		ID: "s1", Number: "X-001", Title: "t", Status: StatusCompleted,
		Priority: PriorityHigh, Tags: []string{}, CreatedAt: now, UpdatedAt: now,
		CompletedAt: &done, SprintID: "a",
	}

	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var got Story
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt drifted: %v vs %v", got.CreatedAt, now)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt drifted: %v", got.CompletedAt)
	}
}

func TestStoryOmitsEmptyOptionalFields(t *testing.T) {
	st := Story{
		ID: "s1", Number: "X-001", Title: "t", Status: StatusOpen,
		Priority: PriorityLow, Tags: []string{}, SprintID: "a",
	}
	raw, _ := json.Marshal(st)
	for _, field := range []string{"completedAt", "assignee", "estimatedHours", "prompt"} {
		if jsonHasField(t, raw, field) {
			t.Errorf("empty %s serialized", field)
		}
	}
}

func jsonHasField(t *testing.T, raw []byte, field string) bool {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	_, ok := m[field]
	return ok
}

func TestNormalizePriority(t *testing.T) {
	cases := map[Priority]Priority{
		PriorityLow:    PriorityLow,
		PriorityMedium: PriorityMedium,
		PriorityHigh:   PriorityHigh,
		"critical":     PriorityMedium,
		"":             PriorityMedium,
		"urgent":       PriorityMedium,
	}
	for in, want := range cases {
		if got := NormalizePriority(in); got != want {
			t.Errorf("NormalizePriority(%q) = %q, want %q", in, got, want)
		}
	}
}
