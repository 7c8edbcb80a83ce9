package stories

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type StoryMoveCmd struct {
	Story  string `arg:"" help:"Story number or id."`
	Sprint string `arg:"" help:"Target sprint (id or name)."`
}

func (c *StoryMoveCmd) Run(ctx *cli.Context) error {
	story, err := ctx.ResolveStory(c.Story)
	if err != nil {
		return err
	}
	target, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	if err := b.MoveStory(story.ID, target.ID); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Moved %s to %s\n", story.Number, target.Name)
	return nil
}
