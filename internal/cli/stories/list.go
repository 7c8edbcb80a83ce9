package stories

import (
	"fmt"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
)

type StoryListCmd struct {
	Sprint   string `short:"s" help:"Limit to one sprint (id or name)."`
	Status   string `help:"Filter by status (open|in-progress|completed)."`
	Priority string `help:"Filter by priority (low|medium|high)."`
	Tag      string `help:"Filter by tag."`
	Query    string `short:"q" help:"Search text across number, title, description and tags."`
	Archived bool   `help:"Include stories from archived sprints."`
	ShowIDs  bool   `help:"Show story IDs." name:"show-ids"`
}

func (c *StoryListCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}

	stories := b.Search(board.Filter{
		Query:           c.Query,
		Status:          models.Status(c.Status),
		Priority:        models.Priority(c.Priority),
		Tag:             c.Tag,
		IncludeArchived: c.Archived,
	})

	if c.Sprint != "" {
		sprint, err := ctx.ResolveSprint(c.Sprint)
		if err != nil {
			return err
		}
		var kept []models.Story
		for _, st := range stories {
			if st.SprintID == sprint.ID {
				kept = append(kept, st)
			}
		}
		stories = kept
	}

	if len(stories) == 0 {
		fmt.Println("No stories found")
		return nil
	}

	for _, st := range stories {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", st.ID)
		}
		tags := ""
		if len(st.Tags) > 0 {
			tags = " [" + strings.Join(st.Tags, ", ") + "]"
		}
		fmt.Printf("  %-10s %-12s %-6s %s%s%s\n",
			st.Number, st.Status, st.Priority, st.Title, tags, idStr)
	}
	fmt.Printf("\n%d stories\n", len(stories))
	return nil
}
