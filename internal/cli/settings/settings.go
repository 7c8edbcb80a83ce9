package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/keyring"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/validation"
)

type SettingsCmd struct {
	Show   SettingsShowCmd   `cmd:"" help:"Show current settings." default:"1"`
	Set    SettingsSetCmd    `cmd:"" help:"Change a setting."`
	APIKey SettingsAPIKeyCmd `cmd:"" name:"api-key" help:"Manage the OpenAI API key in the OS keyring."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}
	s := b.Settings

	keyStatus := "not set"
	if s.OpenAIAPIKey != "" {
		keyStatus = "set (settings)"
	} else if _, err := keyring.GetAPIKey(); err == nil {
		keyStatus = "set (keyring)"
	}

	fmt.Println("Settings:")
	fmt.Printf("  Story prefix:      %s\n", s.StoryPrefix)
	fmt.Printf("  Autosave interval: %dms\n", s.AutoSaveInterval)
	fmt.Printf("  Theme:             %s\n", s.Theme)
	fmt.Printf("  Max backups:       %d\n", s.MaxBackups)
	fmt.Printf("  OpenAI API key:    %s\n", keyStatus)
	return nil
}

type SettingsSetCmd struct {
	Prefix     *string `help:"Story number prefix (uppercase letters and digits)."`
	Interval   *int    `help:"Autosave interval in milliseconds (10000|30000|60000|300000)."`
	Theme      *string `help:"Color theme (light|dark|system)."`
	MaxBackups *int    `help:"Backups to retain (1-50)." name:"max-backups"`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}
	s := b.Settings

	changed := false
	if c.Prefix != nil {
		prefix := strings.ToUpper(strings.TrimSpace(*c.Prefix))
		if err := validation.StoryPrefix(prefix); err != nil {
			return err
		}
		s.StoryPrefix = prefix
		changed = true
	}
	if c.Interval != nil {
		if err := validation.AutoSaveInterval(*c.Interval); err != nil {
			return err
		}
		s.AutoSaveInterval = *c.Interval
		changed = true
	}
	if c.Theme != nil {
		s.Theme = models.Theme(*c.Theme)
		changed = true
	}
	if c.MaxBackups != nil {
		if err := validation.MaxBackups(*c.MaxBackups); err != nil {
			return err
		}
		s.MaxBackups = *c.MaxBackups
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to change; pass at least one setting flag")
	}

	if err := b.UpdateSettings(s); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}
	fmt.Println("Settings updated")
	return nil
}

type SettingsAPIKeyCmd struct {
	Set    APIKeySetCmd    `cmd:"" help:"Store an API key in the OS keyring."`
	Clear  APIKeyClearCmd  `cmd:"" help:"Remove the API key from the OS keyring."`
	Status APIKeyStatusCmd `cmd:"" help:"Check whether an API key is stored." default:"1"`
}

type APIKeySetCmd struct {
	Key string `arg:"" help:"The API key."`
}

func (c *APIKeySetCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Key) == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if err := keyring.SetAPIKey(c.Key); err != nil {
		return err
	}
	fmt.Println("API key stored in OS keyring")
	return nil
}

type APIKeyClearCmd struct{}

func (c *APIKeyClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		return err
	}
	fmt.Println("API key removed from OS keyring")
	return nil
}

type APIKeyStatusCmd struct{}

func (c *APIKeyStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("OS keyring is not available on this system")
		return nil
	}
	if _, err := keyring.GetAPIKey(); err != nil {
		fmt.Println("No API key stored")
		return nil
	}
	fmt.Println("API key is stored")
	return nil
}
