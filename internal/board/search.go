package board

import (
	"strings"

	"github.com/julianstephens/sprintdeck/internal/models"
)

// Filter narrows a story search. Zero values match everything.
type Filter struct {
	Query           string // matched against number, title, description and tags, case-insensitive
	Status          models.Status
	Priority        models.Priority
	Tag             string
	IncludeArchived bool
}

// Search returns the stories matching the filter, active sprints first in
// sprint order, then archived when requested.
func (b *Board) Search(f Filter) []models.Story {
	query := strings.ToLower(f.Query)
	var out []models.Story

	match := func(st *models.Story) bool {
		if f.Status != "" && st.Status != f.Status {
			return false
		}
		if f.Priority != "" && st.Priority != f.Priority {
			return false
		}
		if f.Tag != "" && !hasTag(st.Tags, f.Tag) {
			return false
		}
		if query == "" {
			return true
		}
		if strings.Contains(strings.ToLower(st.Number), query) ||
			strings.Contains(strings.ToLower(st.Title), query) ||
			strings.Contains(strings.ToLower(st.Description), query) {
			return true
		}
		for _, tag := range st.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				return true
			}
		}
		return false
	}

	scan := func(sprints []models.Sprint) {
		for i := range sprints {
			for j := range sprints[i].Stories {
				if match(&sprints[i].Stories[j]) {
					out = append(out, sprints[i].Stories[j])
				}
			}
		}
	}
	scan(b.Sprints)
	if f.IncludeArchived {
		scan(b.ArchivedSprints)
	}
	return out
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
