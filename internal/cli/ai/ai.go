package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	aiclient "github.com/julianstephens/sprintdeck/internal/ai"
	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/keyring"
	"github.com/julianstephens/sprintdeck/internal/models"
)

type AICmd struct {
	Generate GenerateCmd `cmd:"" help:"Generate a story from a rough idea."`
	Prompt   PromptCmd   `cmd:"" help:"Generate a developer prompt for a story."`
	Test     TestCmd     `cmd:"" help:"Verify the API key and model."`
}

// resolveKey prefers the environment, then settings, then the OS keyring.
func resolveKey(ctx *cli.Context) (string, error) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}
	b, err := ctx.Board()
	if err != nil {
		return "", err
	}
	if b.Settings.OpenAIAPIKey != "" {
		return b.Settings.OpenAIAPIKey, nil
	}
	key, err := keyring.GetAPIKey()
	if err != nil {
		return "", fmt.Errorf("no API key configured; set OPENAI_API_KEY or run 'sprintdeck settings api-key set'")
	}
	return key, nil
}

type GenerateCmd struct {
	Idea   string `arg:"" help:"Rough story idea."`
	Sprint string `short:"s" help:"Sprint to add the story to (id or name)." default:"backlog"`
	Model  string `short:"m" help:"Override the model."`
	DryRun bool   `help:"Print the draft without adding it to the board." name:"dry-run"`
}

func (c *GenerateCmd) Run(ctx *cli.Context) error {
	key, err := resolveKey(ctx)
	if err != nil {
		return err
	}
	client := aiclient.NewClient(key).WithModel(c.Model)

	reqCtx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	draft, err := client.GenerateStory(reqCtx, c.Idea)
	if err != nil {
		return err
	}

	if c.DryRun {
		fmt.Printf("Title:       %s\n", draft.Title)
		fmt.Printf("Priority:    %s\n", draft.Priority)
		fmt.Printf("Tags:        %v\n", draft.Tags)
		fmt.Printf("Estimate:    %.1fh\n", draft.EstimatedHours)
		fmt.Printf("Description:\n%s\n", draft.Description)
		return nil
	}

	sprint, err := ctx.ResolveSprint(c.Sprint)
	if err != nil {
		return err
	}
	b, err := ctx.Board()
	if err != nil {
		return err
	}
	story, err := b.AddStory(sprint.ID, board.StoryInput{
		Title:          draft.Title,
		Description:    draft.Description,
		Tags:           draft.Tags,
		Priority:       models.Priority(draft.Priority),
		EstimatedHours: draft.EstimatedHours,
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

type PromptCmd struct {
	Story string `arg:"" help:"Story number or id."`
	Model string `short:"m" help:"Override the model."`
	Save  bool   `help:"Store the prompt on the story."`
}

func (c *PromptCmd) Run(ctx *cli.Context) error {
	story, err := ctx.ResolveStory(c.Story)
	if err != nil {
		return err
	}
	key, err := resolveKey(ctx)
	if err != nil {
		return err
	}
	client := aiclient.NewClient(key).WithModel(c.Model)

	reqCtx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	prompt, err := client.GenerateDevPrompt(reqCtx, story.Title, story.Description)
	if err != nil {
		return err
	}

	fmt.Println(prompt)

	if c.Save {
		b, err := ctx.Board()
		if err != nil {
			return err
		}
		if _, err := b.UpdateStory(story.ID, board.SetPrompt{Prompt: prompt}); err != nil {
			return err
		}
		if err := ctx.SaveBoard(); err != nil {
			return err
		}
		fmt.Printf("\nPrompt saved on %s\n", story.Number)
	}
	return nil
}

type TestCmd struct {
	Model string `short:"m" help:"Override the model."`
}

func (c *TestCmd) Run(ctx *cli.Context) error {
	key, err := resolveKey(ctx)
	if err != nil {
		return err
	}
	client := aiclient.NewClient(key).WithModel(c.Model)

	reqCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.TestConnection(reqCtx); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}
	fmt.Println("Connection OK")
	return nil
}
