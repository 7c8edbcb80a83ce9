package sprints

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type SprintDeleteCmd struct {
	Sprint        string `arg:"" help:"Sprint id or name."`
	MoveStoriesTo string `help:"Sprint to receive the deleted sprint's stories (id or name)." name:"move-stories-to"`
	Force         bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *SprintDeleteCmd) Run(ctx *cli.Context) error {
	sprint, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}

	target := ""
	if c.MoveStoriesTo != "" {
		t, err := ctx.ResolveSprint(c.MoveStoriesTo)
		if err != nil {
			return err
		}
		target = t.ID
	}

	if !c.Force {
		desc := fmt.Sprintf("%d stories will be deleted with it.", len(sprint.Stories))
		if target != "" {
			desc = fmt.Sprintf("%d stories will move to %s.", len(sprint.Stories), c.MoveStoriesTo)
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete sprint %q?", sprint.Name)).
			Description(desc).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled")
			return nil
		}
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	name := sprint.Name
	if err := b.DeleteSprint(sprint.ID, target); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Deleted sprint: %s\n", name)
	return nil
}
