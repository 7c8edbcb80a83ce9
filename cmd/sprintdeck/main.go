package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/sprintdeck/internal/cli"
	aicmds "github.com/julianstephens/sprintdeck/internal/cli/ai"
	"github.com/julianstephens/sprintdeck/internal/cli/backups"
	"github.com/julianstephens/sprintdeck/internal/cli/data"
	"github.com/julianstephens/sprintdeck/internal/cli/settings"
	"github.com/julianstephens/sprintdeck/internal/cli/sprints"
	"github.com/julianstephens/sprintdeck/internal/cli/stories"
	"github.com/julianstephens/sprintdeck/internal/cli/system"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/storage"
	"github.com/julianstephens/sprintdeck/internal/storage/postgres"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"Board file path (.json for a plain file, anything else for SQLite)." type:"string" default:"~/.config/sprintdeck/sprintdeck.json"`
	Remote    string `help:"PostgreSQL connection string for the remote mirror. Credentials must NOT be embedded; use environment variables or .pgpass." env:"SPRINTDECK_REMOTE"`
	Workspace string `help:"Remote workspace name." default:"default" env:"SPRINTDECK_WORKSPACE"`
	Debug     bool   `help:"Enable debug logging to stderr." env:"SPRINTDECK_DEBUG"`

	Init   system.InitCmd   `cmd:"" help:"Initialize a new board."`
	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive board." default:"1"`
	Info   system.InfoCmd   `cmd:"" help:"Show storage and board details."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Reset  system.ResetCmd  `cmd:"" help:"Delete the board and all backups."`
	Story  struct {
		Add    stories.StoryAddCmd    `cmd:"" help:"Add a new story."`
		Edit   stories.StoryEditCmd   `cmd:"" help:"Edit a story."`
		Move   stories.StoryMoveCmd   `cmd:"" help:"Move a story to another sprint."`
		Delete stories.StoryDeleteCmd `cmd:"" help:"Delete a story."`
		List   stories.StoryListCmd   `cmd:"" help:"List and search stories." default:"1"`
	} `cmd:"" help:"Manage stories."`
	Sprint struct {
		Add     sprints.SprintAddCmd     `cmd:"" help:"Add a custom sprint."`
		Edit    sprints.SprintEditCmd    `cmd:"" help:"Edit a sprint."`
		Delete  sprints.SprintDeleteCmd  `cmd:"" help:"Delete a custom sprint."`
		Archive sprints.SprintArchiveCmd `cmd:"" help:"Archive a custom sprint."`
		Restore sprints.SprintRestoreCmd `cmd:"" help:"Restore an archived sprint."`
		Reorder sprints.SprintReorderCmd `cmd:"" help:"Reorder sprints."`
		List    sprints.SprintListCmd    `cmd:"" help:"List sprints." default:"1"`
	} `cmd:"" help:"Manage sprints."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage backups."`
	Export   data.ExportCmd       `cmd:"" help:"Export the board to JSON or CSV."`
	Import   data.ImportCmd       `cmd:"" help:"Import a board from JSON."`
	AI       aicmds.AICmd         `cmd:"" help:"Generate stories and prompts with AI."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Single-user kanban board with local-first storage and an optional PostgreSQL mirror"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	path := expandHome(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(path)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}

	var store storage.Provider
	if strings.HasSuffix(path, ".json") {
		store = storage.NewJSONStore(path)
	} else {
		store = storage.NewSQLiteStore(path)
	}
	defer store.Close()

	appCtx := &cli.Context{Store: store}

	if CLI.Remote != "" {
		if _, err := postgres.ValidateConnString(CLI.Remote); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		mirror := postgres.New(CLI.Remote, CLI.Workspace)
		if err := mirror.Connect(); err != nil {
			// Remote problems never block local work
			fmt.Fprintf(os.Stderr, "Warning: remote mirror unavailable: %v\n", err)
		} else {
			appCtx.Mirror = mirror
			defer mirror.Close()
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
