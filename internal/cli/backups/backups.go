package backups

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/sprintdeck/internal/cli"
)

type BackupCreateCmd struct{}

// Run records the current snapshot in the ring by re-saving the board.
func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.Board(); err != nil {
		return err
	}
	if err := ctx.SaveBoard(); err != nil {
		return err
	}
	info, err := ctx.Store.Info()
	if err != nil {
		return err
	}
	fmt.Printf("Backup created (%d backups retained)\n", info.BackupCount)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	backups, err := ctx.Store.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	fmt.Println("Backups (newest first):")
	for _, b := range backups {
		fmt.Printf("  %s  %s  %d bytes\n",
			b.ID, b.Timestamp.Format("2006-01-02 15:04:05"), b.Size)
	}
	return nil
}

type BackupRestoreCmd struct {
	ID    string `arg:"" help:"Backup id to restore."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	if !c.Force {
		confirmed := false
		err := huh.NewConfirm().
			Title("Restore this backup?").
			Description("The current board will be backed up first, then replaced.").
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

	snap, err := ctx.Store.RestoreFromBackup(c.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Restored backup %s (%d active sprints)\n", c.ID, len(snap.Sprints))
	return nil
}
