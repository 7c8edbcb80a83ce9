package data

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
)

type ImportCmd struct {
	Input string `arg:"" help:"JSON file to import."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	raw, err := os.ReadFile(c.Input)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	if !c.Force {
		confirmed := false
		err := huh.NewConfirm().
			Title("Import and replace the current board?").
			Description("The current board will be backed up first.").
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

	snap, err := ctx.Store.Import(string(raw))
	if err != nil {
		return err
	}
	if ctx.Mirror != nil {
		if err := ctx.Mirror.Replicate(snap); err != nil {
			fmt.Printf("Warning: remote mirror not updated: %v\n", err)
		}
	}

	fmt.Printf("Imported %d sprints, %d stories (%d archived sprints)\n",
		len(snap.Sprints), models.StoryCount(snap.Sprints), len(snap.ArchivedSprints))
	return nil
}
