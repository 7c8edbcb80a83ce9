package system

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized board at %s\n", ctx.Store.ConfigPath())
	fmt.Println("Created the Priority Sprint and Backlog")
	return nil
}
