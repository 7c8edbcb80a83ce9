// Package cli holds the shared command context and helpers used by every
// subcommand package.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/sprintdeck/internal/board"
	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/models"
	"github.com/julianstephens/sprintdeck/internal/storage"
)

// Mirror is the optional remote replication dependency of a command context.
type Mirror interface {
	Available() bool
	Workspace() string
	Load() (*models.Snapshot, error)
	Replicate(snap *models.Snapshot) error
}

type Context struct {
	Store  storage.Provider
	Mirror Mirror

	boardState *board.Board
}

// Board loads the snapshot on first use and keeps the board for the rest of
// the command. With a reachable mirror the workspace snapshot wins; any
// remote failure or an empty workspace falls back to the local store
// silently. A missing snapshot yields a default board.
func (c *Context) Board() (*board.Board, error) {
	if c.boardState != nil {
		return c.boardState, nil
	}
	if c.Mirror != nil && c.Mirror.Available() {
		snap, err := c.Mirror.Load()
		if err != nil {
			logger.Warn("remote load failed, using local snapshot", "err", err)
		} else if snap != nil {
			c.boardState = board.New(snap)
			return c.boardState, nil
		}
	}
	snap, err := c.Store.Load()
	if err != nil {
		return nil, err
	}
	c.boardState = board.New(snap)
	return c.boardState, nil
}

// SaveBoard persists the board locally and mirrors it best effort. A remote
// failure is logged, never surfaced, since the local write already
// succeeded.
func (c *Context) SaveBoard() error {
	if c.boardState == nil {
		return fmt.Errorf("no board loaded")
	}
	snap := c.boardState.Snapshot()
	if err := c.Store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings); err != nil {
		return err
	}
	if c.Mirror != nil {
		if err := c.Mirror.Replicate(snap); err != nil {
			logger.Warn("remote mirror not updated", "err", err)
		}
	}
	return nil
}

// ResolveStory finds a story by number (case-insensitive) or id.
func (c *Context) ResolveStory(ref string) (models.Story, error) {
	b, err := c.Board()
	if err != nil {
		return models.Story{}, err
	}
	for _, group := range [][]models.Sprint{b.Sprints, b.ArchivedSprints} {
		for i := range group {
			for j := range group[i].Stories {
				st := &group[i].Stories[j]
				if strings.EqualFold(st.Number, ref) || st.ID == ref {
					return *st, nil
				}
			}
		}
	}
	return models.Story{}, fmt.Errorf("story not found: %s", ref)
}

// ResolveSprint finds an active sprint by id or case-insensitive name.
func (c *Context) ResolveSprint(ref string) (*models.Sprint, error) {
	b, err := c.Board()
	if err != nil {
		return nil, err
	}
	if sp := b.Sprint(ref); sp != nil {
		return sp, nil
	}
	for i := range b.Sprints {
		if strings.EqualFold(b.Sprints[i].Name, ref) {
			return &b.Sprints[i], nil
		}
	}
	return nil, fmt.Errorf("sprint not found: %s", ref)
}

// FormatDate renders a timestamp for table output, "-" when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(constants.DateFormat)
}

// FormatDatePtr renders an optional timestamp for table output.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(constants.DateFormat)
}

// ParseTags splits a comma-separated tag list, dropping blanks.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
