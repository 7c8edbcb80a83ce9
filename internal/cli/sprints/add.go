package sprints

import (
	"fmt"
	"time"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/validation"
)

type SprintAddCmd struct {
	Name        string `arg:"" help:"Sprint name."`
	Description string `short:"d" help:"Sprint description."`
	Layout      string `short:"l" help:"Column layout (single|two-column)." default:"single"`
	Start       string `help:"Start date (YYYY-MM-DD)."`
	End         string `help:"End date (YYYY-MM-DD)."`
}

func (c *SprintAddCmd) Validate() error {
	if err := validation.SprintName(c.Name); err != nil {
		return err
	}
	if c.Layout != string(models.LayoutSingle) && c.Layout != string(models.LayoutTwoColumn) {
		return fmt.Errorf("layout must be %s or %s", models.LayoutSingle, models.LayoutTwoColumn)
	}
	return nil
}

func (c *SprintAddCmd) Run(ctx *cli.Context) error {
	start, err := parseDate(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := parseDate(c.End)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return fmt.Errorf("end date cannot be before start date")
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	sp, err := b.AddSprint(board.SprintInput{
		Name:        c.Name,
		Description: c.Description,
		Layout:      models.Layout(c.Layout),
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Created sprint: %s (ID: %s)\n", sp.Name, sp.ID)
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
