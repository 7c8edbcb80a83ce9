package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sprintdeck/internal/models"
)

// StoryInput carries the user-supplied fields for a new story; id, number,
// status and timestamps are assigned by the board.
type StoryInput struct {
	Title          string
	Prompt         string
	Description    string
	Tags           []string
	Priority       models.Priority
	Assignee       string
	EstimatedHours float64
}

// StoryUpdate is a closed set of typed story mutations. Each variant applies
// one field change; free-form partial updates are not accepted.
type StoryUpdate interface {
	applyStory(s *models.Story, now time.Time)
}

type SetTitle struct{ Title string }

func (u SetTitle) applyStory(s *models.Story, _ time.Time) { s.Title = u.Title }

type SetDescription struct{ Description string }

func (u SetDescription) applyStory(s *models.Story, _ time.Time) { s.Description = u.Description }

type SetTags struct{ Tags []string }

func (u SetTags) applyStory(s *models.Story, _ time.Time) {
	if u.Tags == nil {
		s.Tags = []string{}
		return
	}
	s.Tags = u.Tags
}

type SetPrompt struct{ Prompt string }

func (u SetPrompt) applyStory(s *models.Story, _ time.Time) { s.Prompt = u.Prompt }

type SetPriority struct{ Priority models.Priority }

func (u SetPriority) applyStory(s *models.Story, _ time.Time) {
	s.Priority = models.NormalizePriority(u.Priority)
}

type SetAssignee struct{ Assignee string }

func (u SetAssignee) applyStory(s *models.Story, _ time.Time) { s.Assignee = u.Assignee }

type SetEstimate struct{ Hours float64 }

func (u SetEstimate) applyStory(s *models.Story, _ time.Time) { s.EstimatedHours = u.Hours }

// SetStatus transitions the story status, stamping CompletedAt when moving
// into completed and clearing it when moving back out.
type SetStatus struct{ Status models.Status }

func (u SetStatus) applyStory(s *models.Story, now time.Time) {
	if s.Status == u.Status {
		return
	}
	s.Status = u.Status
	if u.Status == models.StatusCompleted {
		t := now
		s.CompletedAt = &t
	} else {
		s.CompletedAt = nil
	}
}

// AddStory creates a story in the given sprint with the next generated
// number for the configured prefix.
func (b *Board) AddStory(sprintID string, in StoryInput) (models.Story, error) {
	sp := b.Sprint(sprintID)
	if sp == nil {
		return models.Story{}, fmt.Errorf("sprint not found: %s", sprintID)
	}
	if in.Title == "" {
		return models.Story{}, fmt.Errorf("story title cannot be empty")
	}

	now := time.Now()
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	story := models.Story{
		ID:             uuid.New().String(),
		Number:         b.NextStoryNumber(),
		Title:          in.Title,
		Prompt:         in.Prompt,
		Description:    in.Description,
		Tags:           tags,
		Status:         models.StatusOpen,
		Priority:       models.NormalizePriority(in.Priority),
		CreatedAt:      now,
		UpdatedAt:      now,
		SprintID:       sprintID,
		Assignee:       in.Assignee,
		EstimatedHours: in.EstimatedHours,
	}
	sp.Stories = append(sp.Stories, story)
	return story, nil
}

// UpdateStory applies one or more typed updates to a story in any active
// sprint and refreshes its updated timestamp.
func (b *Board) UpdateStory(storyID string, updates ...StoryUpdate) (models.Story, error) {
	if len(updates) == 0 {
		return models.Story{}, fmt.Errorf("no updates given")
	}
	now := time.Now()
	for i := range b.Sprints {
		sp := &b.Sprints[i]
		for j := range sp.Stories {
			if sp.Stories[j].ID != storyID {
				continue
			}
			st := &sp.Stories[j]
			for _, u := range updates {
				u.applyStory(st, now)
			}
			st.UpdatedAt = now
			return *st, nil
		}
	}
	return models.Story{}, fmt.Errorf("story not found: %s", storyID)
}

// DeleteStory removes a story from whichever active sprint owns it. The
// story's number is never reissued.
func (b *Board) DeleteStory(storyID string) error {
	for i := range b.Sprints {
		sp := &b.Sprints[i]
		for j := range sp.Stories {
			if sp.Stories[j].ID == storyID {
				sp.Stories = append(sp.Stories[:j], sp.Stories[j+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("story not found: %s", storyID)
}

// MoveStory transfers ownership of a story to the target sprint, appending
// it at the end and rewriting its sprint reference.
func (b *Board) MoveStory(storyID, targetSprintID string) error {
	target := b.Sprint(targetSprintID)
	if target == nil {
		return fmt.Errorf("sprint not found: %s", targetSprintID)
	}

	for i := range b.Sprints {
		sp := &b.Sprints[i]
		for j := range sp.Stories {
			if sp.Stories[j].ID != storyID {
				continue
			}
			if sp.ID == targetSprintID {
				return nil
			}
			story := sp.Stories[j]
			sp.Stories = append(sp.Stories[:j], sp.Stories[j+1:]...)
			story.SprintID = targetSprintID
			story.UpdatedAt = time.Now()
			target.Stories = append(target.Stories, story)
			return nil
		}
	}
	return fmt.Errorf("story not found: %s", storyID)
}

// FindStory locates a story by id across active and archived sprints.
func (b *Board) FindStory(storyID string) (models.Story, bool) {
	for _, group := range [][]models.Sprint{b.Sprints, b.ArchivedSprints} {
		for i := range group {
			for j := range group[i].Stories {
				if group[i].Stories[j].ID == storyID {
					return group[i].Stories[j], true
				}
			}
		}
	}
	return models.Story{}, false
}
