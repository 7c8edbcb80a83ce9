package sprints

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type SprintListCmd struct {
	Archived bool `help:"Show archived sprints instead of active ones."`
	ShowIDs  bool `help:"Show sprint IDs." name:"show-ids"`
}

func (c *SprintListCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}

	sprints := b.Sprints
	if c.Archived {
		sprints = b.ArchivedSprints
	}
	if len(sprints) == 0 {
		fmt.Println("No sprints found")
		return nil
	}

	for i := range sprints {
		sp := &sprints[i]
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", sp.ID)
		}
		progress := ""
		if !c.Archived && len(sp.Stories) > 0 {
			progress = fmt.Sprintf(", %d%% done", b.SprintProgress(sp.ID))
		}
		dates := ""
		if sp.StartDate != nil || sp.EndDate != nil {
			dates = fmt.Sprintf(" %s to %s", cli.FormatDatePtr(sp.StartDate), cli.FormatDatePtr(sp.EndDate))
		}
		fmt.Printf("  [%s] %s%s - %d stories%s%s\n",
			sp.Type, sp.Name, idStr, len(sp.Stories), progress, dates)
	}
	return nil
}

type SprintReorderCmd struct {
	Sprints []string `arg:"" help:"Sprint ids or names in the desired order."`
}

func (c *SprintReorderCmd) Run(ctx *cli.Context) error {
	ids := make([]string, 0, len(c.Sprints))
	for _, ref := range c.Sprints {
		sp, err := ctx.ResolveSprint(ref)
		if err != nil {
			return err
		}
		ids = append(ids, sp.ID)
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	if err := b.ReorderSprints(ids); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Println("Reordered sprints")
	return nil
}
