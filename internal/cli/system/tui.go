package system

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/syncer"
	"github.com/julianstephens/sprintdeck/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}

	var mirror syncer.Replicator
	if ctx.Mirror != nil {
		mirror = ctx.Mirror
	}
	sync := syncer.New(ctx.Store, mirror, func() *models.Snapshot {
		return b.Snapshot()
	}, b.Settings.AutoSaveInterval)
	sync.CheckRemote()
	defer sync.Close()

	p := tea.NewProgram(tui.NewModel(b, sync), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
	return nil
}
