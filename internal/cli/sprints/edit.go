package sprints

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/validation"
)

type SprintEditCmd struct {
	Sprint      string  `arg:"" help:"Sprint id or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Layout      *string `help:"New column layout (single|two-column)."`
	Start       *string `help:"New start date (YYYY-MM-DD), empty to clear."`
	End         *string `help:"New end date (YYYY-MM-DD), empty to clear."`
}

func (c *SprintEditCmd) Validate() error {
	if c.Name != nil {
		if err := validation.SprintName(*c.Name); err != nil {
			return err
		}
	}
	if c.Layout != nil && *c.Layout != string(models.LayoutSingle) && *c.Layout != string(models.LayoutTwoColumn) {
		return fmt.Errorf("layout must be %s or %s", models.LayoutSingle, models.LayoutTwoColumn)
	}
	return nil
}

func (c *SprintEditCmd) Run(ctx *cli.Context) error {
	sprint, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}

	var updates []board.SprintUpdate
	if c.Name != nil {
		updates = append(updates, board.RenameSprint{Name: *c.Name})
	}
	if c.Description != nil {
		updates = append(updates, board.SetSprintDescription{Description: *c.Description})
	}
	if c.Layout != nil {
		updates = append(updates, board.SetLayout{Layout: models.Layout(*c.Layout)})
	}
	if c.Start != nil || c.End != nil {
		dates := board.SetDates{StartDate: sprint.StartDate, EndDate: sprint.EndDate}
		if c.Start != nil {
			start, err := parseDate(*c.Start)
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			dates.StartDate = start
		}
		if c.End != nil {
			end, err := parseDate(*c.End)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}
			dates.EndDate = end
		}
		if dates.StartDate != nil && dates.EndDate != nil && dates.EndDate.Before(*dates.StartDate) {
			return fmt.Errorf("end date cannot be before start date")
		}
		updates = append(updates, dates)
	}
	if len(updates) == 0 {
		return fmt.Errorf("nothing to change; pass at least one field flag")
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	if err := b.UpdateSprint(sprint.ID, updates...); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Updated sprint: %s\n", sprint.Name)
	return nil
}
