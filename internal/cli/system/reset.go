package system

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type ResetCmd struct {
	Force bool `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Force {
		confirmed := false
		err := huh.NewConfirm().
			Title("Delete the board AND all backups?").
			Description("This cannot be undone.").
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

	if err := ctx.Store.ClearAll(); err != nil {
		return err
	}
	fmt.Println("Board and backups deleted")
	return nil
}
