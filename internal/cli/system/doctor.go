package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/sprintdeck/internal/cli"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/keyring"
)

type DoctorCmd struct{}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: local store loads
	if _, err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Local store: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Local store: OK\n")
	}

	// Check 2: backups present (warning only)
	backups, err := ctx.Store.ListBackups()
	if err != nil {
		fmt.Printf("⚠ Backups: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else if len(backups) == 0 {
		fmt.Printf("⚠ Backups: WARNING\n")
		fmt.Printf("   No backups yet; one is recorded on every save\n")
	} else {
		fmt.Printf("✓ Backups: OK (%d retained)\n", len(backups))
	}

	// Check 3: remote mirror
	if ctx.Mirror == nil {
		fmt.Printf("⊘ Remote mirror: SKIPPED (not configured)\n")
	} else if ctx.Mirror.Available() {
		fmt.Printf("✓ Remote mirror: OK\n")
	} else {
		fmt.Printf("⚠ Remote mirror: WARNING\n")
		fmt.Printf("   Database unreachable; changes will queue until it returns\n")
	}

	// Check 4: keyring
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   Keyring unavailable; the API key can only come from settings or the environment\n")
	}

	// Check 5: no other running instance
	if err := checkSingleInstance(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	// Check 6: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed")
	return nil
}

// checkSingleInstance scans the process table for another running copy,
// which could race this one on the snapshot file.
func checkSingleInstance() error {
	self := os.Getpid()
	name := filepath.Base(os.Args[0])
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		if strings.EqualFold(p.Executable(), name) || strings.EqualFold(p.Executable(), constants.AppName) {
			return fmt.Errorf("another %s process is running (pid %d); concurrent edits can lose saves", constants.AppName, p.Pid())
		}
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reads %s, which predates this software", now.Format(time.RFC3339))
	}
	return nil
}
