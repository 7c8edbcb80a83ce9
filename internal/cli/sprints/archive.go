package sprints

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type SprintArchiveCmd struct {
	Sprint string `arg:"" help:"Sprint id or name."`
}

func (c *SprintArchiveCmd) Run(ctx *cli.Context) error {
	sprint, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	name := sprint.Name
	count := len(sprint.Stories)
	if err := b.ArchiveSprint(sprint.ID); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Archived sprint %s (%d stories marked completed)\n", name, count)
	return nil
}

type SprintRestoreCmd struct {
	Sprint string `arg:"" help:"Archived sprint id."`
}

func (c *SprintRestoreCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}

	sp := b.ArchivedSprint(c.Sprint)
	if sp == nil {
		return fmt.Errorf("archived sprint not found: %s", c.Sprint)
	}
	name := sp.Name
	if err := b.RestoreSprint(c.Sprint); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Restored sprint: %s\n", name)
	return nil
}
