package data

import (
	"fmt"
	"os"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/codec"
)

type ExportCmd struct {
	Output   string `arg:"" optional:"" help:"Output file; stdout when omitted."`
	Format   string `short:"f" help:"Export format (json|csv)." default:"json"`
	Active   bool   `help:"Include active sprints." default:"true" negatable:""`
	Archived bool   `help:"Include archived sprints." default:"true" negatable:""`
	Settings bool   `help:"Include settings (JSON only)." default:"true" negatable:""`
	Range    string `short:"r" help:"Limit to stories created within a window (all|month|quarter|year)." default:"all"`
}

func (c *ExportCmd) Validate() error {
	if c.Format != "json" && c.Format != "csv" {
		return fmt.Errorf("format must be json or csv")
	}
	switch codec.DateRange(c.Range) {
	case codec.RangeAll, codec.RangeMonth, codec.RangeQuarter, codec.RangeYear:
		return nil
	}
	return fmt.Errorf("range must be all, month, quarter or year")
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Board()
	if err != nil {
		return err
	}
	snap := b.Snapshot()
	opts := codec.Options{
		IncludeActive:   c.Active,
		IncludeArchived: c.Archived,
		IncludeSettings: c.Settings,
		Range:           codec.DateRange(c.Range),
	}

	var out string
	switch c.Format {
	case "csv":
		out, err = codec.ExportCSV(snap, opts)
	default:
		out, err = codec.ExportJSON(snap, opts)
	}
	if err != nil {
		return err
	}

	if c.Output == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(c.Output, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("Exported to %s\n", c.Output)
	return nil
}
