package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/sprintdeck/internal/constants"
	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// SprintInput carries the user-supplied fields for a new custom sprint.
type SprintInput struct {
	Name        string
	Description string
	Position    int
	Layout      models.Layout
	StartDate   *time.Time
	EndDate     *time.Time
}

// SprintUpdate is a closed set of typed sprint mutations.
type SprintUpdate interface {
	applySprint(s *models.Sprint)
}

type RenameSprint struct{ Name string }

func (u RenameSprint) applySprint(s *models.Sprint) { s.Name = u.Name }

type SetSprintDescription struct{ Description string }

func (u SetSprintDescription) applySprint(s *models.Sprint) { s.Description = u.Description }

type SetLayout struct{ Layout models.Layout }

func (u SetLayout) applySprint(s *models.Sprint) {
	if u.Layout == models.LayoutTwoColumn {
		s.Layout = models.LayoutTwoColumn
		return
	}
	s.Layout = models.LayoutSingle
}

type SetDates struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (u SetDates) applySprint(s *models.Sprint) {
	s.StartDate = u.StartDate
	s.EndDate = u.EndDate
}

// AddSprint creates a custom sprint. Position defaults to just after the
// highest existing custom position, keeping customs between priority (0) and
// backlog (999).
func (b *Board) AddSprint(in SprintInput) (models.Sprint, error) {
	if in.Name == "" {
		return models.Sprint{}, fmt.Errorf("sprint name cannot be empty")
	}
	pos := in.Position
	if pos <= constants.PrioritySprintPosition || pos >= constants.BacklogSprintPosition {
		pos = b.nextCustomPosition()
	}
	layout := in.Layout
	if layout == "" {
		layout = models.LayoutSingle
	}
	sp := models.Sprint{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Type:        models.SprintTypeCustom,
		Position:    pos,
		IsActive:    true,
		Stories:     []models.Story{},
		CreatedAt:   time.Now(),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Layout:      layout,
	}
	b.Sprints = append(b.Sprints, sp)
	b.sortSprints()
	return sp, nil
}

func (b *Board) nextCustomPosition() int {
	pos := constants.PrioritySprintPosition
	for i := range b.Sprints {
		if b.Sprints[i].Type == models.SprintTypeCustom && b.Sprints[i].Position > pos {
			pos = b.Sprints[i].Position
		}
	}
	return pos + 1
}

// UpdateSprint applies typed updates to an active sprint.
func (b *Board) UpdateSprint(sprintID string, updates ...SprintUpdate) error {
	sp := b.Sprint(sprintID)
	if sp == nil {
		return fmt.Errorf("sprint not found: %s", sprintID)
	}
	if len(updates) == 0 {
		return fmt.Errorf("no updates given")
	}
	for _, u := range updates {
		u.applySprint(sp)
	}
	return nil
}

// DeleteSprint removes a custom sprint. When moveStoriesTo names another
// active sprint, the deleted sprint's stories transfer there; otherwise they
// are dropped with the sprint. Priority and backlog sprints are refused.
func (b *Board) DeleteSprint(sprintID, moveStoriesTo string) error {
	idx := -1
	for i := range b.Sprints {
		if b.Sprints[i].ID == sprintID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("sprint not found: %s", sprintID)
	}
	if b.Sprints[idx].Protected() {
		return errs.ErrProtectedSprint
	}

	doomed := b.Sprints[idx]
	if moveStoriesTo != "" && len(doomed.Stories) > 0 {
		if moveStoriesTo == sprintID {
			return fmt.Errorf("cannot move stories into the sprint being deleted")
		}
		target := b.Sprint(moveStoriesTo)
		if target == nil {
			return fmt.Errorf("sprint not found: %s", moveStoriesTo)
		}
		for _, st := range doomed.Stories {
			st.SprintID = moveStoriesTo
			target.Stories = append(target.Stories, st)
		}
	}

	b.Sprints = append(b.Sprints[:idx], b.Sprints[idx+1:]...)
	return nil
}

// ArchiveSprint moves a custom sprint into the archived collection, marking
// it inactive and forcing every story to completed with a completion
// timestamp. Priority and backlog sprints are refused.
func (b *Board) ArchiveSprint(sprintID string) error {
	idx := -1
	for i := range b.Sprints {
		if b.Sprints[i].ID == sprintID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("sprint not found: %s", sprintID)
	}
	if b.Sprints[idx].Protected() {
		return errs.ErrProtectedSprint
	}

	sp := b.Sprints[idx]
	sp.IsActive = false
	now := time.Now()
	for i := range sp.Stories {
		st := &sp.Stories[i]
		if st.Status != models.StatusCompleted {
			st.Status = models.StatusCompleted
			st.UpdatedAt = now
		}
		if st.CompletedAt == nil {
			t := now
			st.CompletedAt = &t
		}
	}

	b.Sprints = append(b.Sprints[:idx], b.Sprints[idx+1:]...)
	b.ArchivedSprints = append(b.ArchivedSprints, sp)
	return nil
}

// RestoreSprint moves an archived sprint back into the active collection,
// re-sorted by position. Story statuses keep their archived values.
func (b *Board) RestoreSprint(sprintID string) error {
	idx := -1
	for i := range b.ArchivedSprints {
		if b.ArchivedSprints[i].ID == sprintID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("archived sprint not found: %s", sprintID)
	}

	sp := b.ArchivedSprints[idx]
	sp.IsActive = true
	b.ArchivedSprints = append(b.ArchivedSprints[:idx], b.ArchivedSprints[idx+1:]...)
	b.Sprints = append(b.Sprints, sp)
	b.sortSprints()
	return nil
}

// ReorderSprints applies a new ordering given by sprint ids. Priority stays
// pinned to position 0 and backlog to 999; customs are packed between them
// in the given order. Unknown ids are ignored; sprints missing from the list
// keep their positions.
func (b *Board) ReorderSprints(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no sprint order given")
	}
	pos := 1
	for _, id := range ids {
		sp := b.Sprint(id)
		if sp == nil {
			continue
		}
		switch sp.Type {
		case models.SprintTypePriority:
			sp.Position = constants.PrioritySprintPosition
		case models.SprintTypeBacklog:
			sp.Position = constants.BacklogSprintPosition
		default:
			sp.Position = pos
			pos++
		}
	}
	b.sortSprints()
	return nil
}
