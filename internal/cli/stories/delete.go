package stories

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type StoryDeleteCmd struct {
	Story string `arg:"" help:"Story number or id."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *StoryDeleteCmd) Run(ctx *cli.Context) error {
	story, err := ctx.ResolveStory(c.Story)
	if err != nil {
		return err
	}

	if !c.Force {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s: %s?", story.Number, story.Title)).
			Description("The story number will not be reused.").
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
	if err := b.DeleteStory(story.ID); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Deleted %s: %s\n", story.Number, story.Title)
	return nil
}
