package stories

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/validation"
)

type StoryEditCmd struct {
	Story       string   `arg:"" help:"Story number or id."`
	Title       *string  `help:"New title."`
	Description *string  `help:"New description."`
	Tags        *string  `help:"Comma-separated tags (replaces existing)."`
	Status      *string  `help:"New status (open|in-progress|completed)."`
	Priority    *string  `help:"New priority (low|medium|high)."`
	Assignee    *string  `help:"New assignee."`
	Estimate    *float64 `help:"New estimated hours."`
}

func (c *StoryEditCmd) Validate() error {
	if c.Title != nil {
		if err := validation.StoryTitle(*c.Title); err != nil {
			return err
		}
	}
	if c.Description != nil {
		if err := validation.StoryDescription(*c.Description); err != nil {
			return err
		}
	}
	if c.Status != nil {
		if err := validation.Status(*c.Status); err != nil {
			return err
		}
	}
	if c.Priority != nil {
		if err := validation.Priority(*c.Priority); err != nil {
			return err
		}
	}
	if c.Estimate != nil {
		if err := validation.EstimatedHours(*c.Estimate); err != nil {
			return err
		}
	}
	return nil
}

func (c *StoryEditCmd) Run(ctx *cli.Context) error {
	story, err := ctx.ResolveStory(c.Story)
	if err != nil {
		return err
	}

	var updates []board.StoryUpdate
	if c.Title != nil {
		updates = append(updates, board.SetTitle{Title: *c.Title})
	}
	if c.Description != nil {
		updates = append(updates, board.SetDescription{Description: *c.Description})
	}
	if c.Tags != nil {
		tags := cli.ParseTags(*c.Tags)
		if err := validation.Tags(tags); err != nil {
			return err
		}
		updates = append(updates, board.SetTags{Tags: tags})
	}
	if c.Status != nil {
		updates = append(updates, board.SetStatus{Status: models.Status(*c.Status)})
	}
	if c.Priority != nil {
		updates = append(updates, board.SetPriority{Priority: models.Priority(*c.Priority)})
	}
	if c.Assignee != nil {
		updates = append(updates, board.SetAssignee{Assignee: *c.Assignee})
	}
	if c.Estimate != nil {
		updates = append(updates, board.SetEstimate{Hours: *c.Estimate})
	}
	if len(updates) == 0 {
		return fmt.Errorf("nothing to change; pass at least one field flag")
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	updated, err := b.UpdateStory(story.ID, updates...)
	if err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Updated %s: %s\n", updated.Number, updated.Title)
	return nil
}
