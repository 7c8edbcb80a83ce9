package stories

import (
	"fmt"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/validation"
)

type StoryAddCmd struct {
	Title       string  `arg:"" help:"Story title."`
	Sprint      string  `short:"s" help:"Target sprint (id or name)." default:"backlog"`
	Description string  `short:"d" help:"Story description."`
	Tags        string  `short:"t" help:"Comma-separated tags."`
	Priority    string  `short:"p" help:"Priority (low|medium|high)." default:"medium"`
	Assignee    string  `short:"a" help:"Assignee."`
	Estimate    float64 `short:"e" help:"Estimated hours."`
}

func (c *StoryAddCmd) Validate() error {
	if err := validation.StoryTitle(c.Title); err != nil {
		return err
	}
	if err := validation.StoryDescription(c.Description); err != nil {
		return err
	}
	if err := validation.Priority(c.Priority); err != nil {
		return err
	}
	return validation.EstimatedHours(c.Estimate)
}

func (c *StoryAddCmd) Run(ctx *cli.Context) error {
	sprint, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}
	tags := cli.ParseTags(c.Tags)
	if err := validation.Tags(tags); err != nil {
		return err
	}

	b, err := ctx.Board()
	if err != nil {
		return err
	}
	story, err := b.AddStory(sprint.ID, board.StoryInput{
		Title:          c.Title,
		Description:    c.Description,
		Tags:           tags,
		Priority:       models.Priority(c.Priority),
		Assignee:       c.Assignee,
		EstimatedHours: c.Estimate,
	})
	if err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}

	fmt.Printf("Created %s: %s (in %s)\n", story.Number, story.Title, sprint.Name)
	return nil
}
