package system

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/models"
)

type InfoCmd struct{}

func (c *InfoCmd) Run(ctx *cli.Context) error {
	info, err := ctx.Store.Info()
	if err != nil {
		return err
	}
	b, err := ctx.Board()
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n\n", constants.AppName, constants.Version)
	fmt.Printf("  Storage:          %s\n", ctx.Store.ConfigPath())
	fmt.Printf("  Size:             %d bytes\n", info.Size)
	fmt.Printf("  Last saved:       %s\n", cli.FormatDate(info.LastSaved))
	fmt.Printf("  Backups:          %d\n", info.BackupCount)
	fmt.Printf("  Active sprints:   %d (%d stories)\n", len(b.Sprints), models.StoryCount(b.Sprints))
	fmt.Printf("  Archived sprints: %d (%d stories)\n", len(b.ArchivedSprints), models.StoryCount(b.ArchivedSprints))

	if ctx.Mirror != nil {
		state := "unreachable"
		if ctx.Mirror.Available() {
			state = "connected"
		}
		fmt.Printf("  Remote mirror:    %s (workspace %s)\n", state, ctx.Mirror.Workspace())
	} else {
		fmt.Printf("  Remote mirror:    not configured\n")
	}
	return nil
}
