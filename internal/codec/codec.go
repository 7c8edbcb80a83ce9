// Package codec renders board state for export and parses uploads back into
// snapshots. JSON round-trips the full board; CSV flattens stories for
// spreadsheets and is export-only.
package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/sprintdeck/internal/constants"
	errs "github.com/julianstephens/sprintdeck/internal/errors"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// DateRange limits an export to stories created within a trailing window.
type DateRange string

const (
	RangeAll     DateRange = "all"
	RangeMonth   DateRange = "month"
	RangeQuarter DateRange = "quarter"
	RangeYear    DateRange = "year"
)

// Options selects what an export contains. The zero value exports nothing
// useful; use DefaultOptions for the everything-export.
type Options struct {
	IncludeActive   bool
	IncludeArchived bool
	IncludeSettings bool
	Range           DateRange
}

func DefaultOptions() Options {
	return Options{
		IncludeActive:   true,
		IncludeArchived: true,
		IncludeSettings: true,
		Range:           RangeAll,
	}
}

type exportMetadata struct {
	TotalSprints         int `json:"totalSprints"`
	TotalArchivedSprints int `json:"totalArchivedSprints"`
	TotalStories         int `json:"totalStories"`
}

type jsonExport struct {
	Sprints         []models.Sprint  `json:"sprints"`
	ArchivedSprints []models.Sprint  `json:"archivedSprints"`
	Settings        *models.Settings `json:"settings,omitempty"`
	LastSaved       time.Time        `json:"lastSaved"`
	Version         string           `json:"version"`
	ExportedAt      time.Time        `json:"exportedAt"`
	ExportVersion   string           `json:"exportVersion"`
	Metadata        exportMetadata   `json:"metadata"`
}

// ExportJSON renders the selected slices of the snapshot. The API key never
// leaves the machine regardless of IncludeSettings.
func ExportJSON(snap *models.Snapshot, opts Options) (string, error) {
	out := jsonExport{
		Sprints:         []models.Sprint{},
		ArchivedSprints: []models.Sprint{},
		LastSaved:       snap.LastSaved,
		Version:         snap.Version,
		ExportedAt:      time.Now(),
		ExportVersion:   constants.ExportVersion,
	}
	cutoff := rangeCutoff(opts.Range)
	if opts.IncludeActive {
		out.Sprints = filterSprints(snap.Sprints, cutoff)
	}
	if opts.IncludeArchived {
		out.ArchivedSprints = filterSprints(snap.ArchivedSprints, cutoff)
	}
	if opts.IncludeSettings {
		settings := snap.Settings
		settings.OpenAIAPIKey = ""
		out.Settings = &settings
	}
	out.Metadata = exportMetadata{
		TotalSprints:         len(out.Sprints),
		TotalArchivedSprints: len(out.ArchivedSprints),
		TotalStories:         models.StoryCount(out.Sprints),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize export: %w", err)
	}
	return string(data), nil
}

// rangeCutoff returns the zero time for RangeAll so every story passes.
func rangeCutoff(r DateRange) time.Time {
	now := time.Now()
	switch r {
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeQuarter:
		return now.AddDate(0, -3, 0)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// filterSprints copies the sprints, keeping only stories created at or after
// the cutoff. Sprints themselves always survive so structure is preserved.
func filterSprints(sprints []models.Sprint, cutoff time.Time) []models.Sprint {
	out := make([]models.Sprint, len(sprints))
	copy(out, sprints)
	if cutoff.IsZero() {
		return out
	}
	for i := range out {
		kept := []models.Story{}
		for _, st := range out[i].Stories {
			if !st.CreatedAt.Before(cutoff) {
				kept = append(kept, st)
			}
		}
		out[i].Stories = kept
	}
	return out
}

// ParseImport validates a JSON upload. A version field and a sprints array
// are required; archived sprints and settings fall back to defaults, with
// partial settings merged over them.
func ParseImport(data string) (*models.Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidFormat, err)
	}
	if _, ok := fields["version"]; !ok {
		return nil, fmt.Errorf("%w: missing version field", errs.ErrInvalidFormat)
	}
	raw, ok := fields["sprints"]
	if !ok {
		return nil, fmt.Errorf("%w: missing sprints array", errs.ErrInvalidFormat)
	}

	snap := &models.Snapshot{
		ArchivedSprints: []models.Sprint{},
		Settings:        models.DefaultSettings(),
		LastSaved:       time.Now(),
		Version:         constants.SnapshotVersion,
	}
	if err := json.Unmarshal(raw, &snap.Sprints); err != nil {
		return nil, fmt.Errorf("%w: sprints is not an array of sprints", errs.ErrInvalidFormat)
	}
	if raw, ok := fields["archivedSprints"]; ok {
		if err := json.Unmarshal(raw, &snap.ArchivedSprints); err != nil {
			return nil, fmt.Errorf("%w: archivedSprints is not an array of sprints", errs.ErrInvalidFormat)
		}
	}
	if raw, ok := fields["settings"]; ok {
		var settings models.Settings
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("%w: settings is malformed", errs.ErrInvalidFormat)
		}
		snap.Settings = models.MergeSettings(settings)
	}

	snap.Normalize()
	return snap, nil
}
