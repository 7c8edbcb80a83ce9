package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/sprintdeck/internal/models"
)

var csvHeader = []string{
	"Story Number", "Title", "Description", "Status", "Priority", "Tags",
	"Sprint Name", "Sprint Type", "Assignee", "Estimated Hours",
	"Created Date", "Updated Date", "Completed Date",
}

// ExportCSV flattens every story into one row per story. Archived stories
// carry the sprint type "archived" so the origin is visible after the
// flatten. Fields containing commas, quotes or newlines are quoted with
// embedded quotes doubled.
func ExportCSV(snap *models.Snapshot, opts Options) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	cutoff := rangeCutoff(opts.Range)
	if opts.IncludeActive {
		if err := writeSprints(w, snap.Sprints, cutoff, false); err != nil {
			return "", err
		}
	}
	if opts.IncludeArchived {
		if err := writeSprints(w, snap.ArchivedSprints, cutoff, true); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write rows: %w", err)
	}
	return buf.String(), nil
}

func writeSprints(w *csv.Writer, sprints []models.Sprint, cutoff time.Time, archived bool) error {
	for i := range sprints {
		sp := &sprints[i]
		sprintType := string(sp.Type)
		if archived {
			sprintType = "archived"
		}
		for j := range sp.Stories {
			st := &sp.Stories[j]
			if !cutoff.IsZero() && st.CreatedAt.Before(cutoff) {
				continue
			}
			if err := w.Write(storyRow(st, sp.Name, sprintType)); err != nil {
				return fmt.Errorf("failed to write story %s: %w", st.Number, err)
			}
		}
	}
	return nil
}

func storyRow(st *models.Story, sprintName, sprintType string) []string {
	estimate := ""
	if st.EstimatedHours > 0 {
		estimate = strconv.FormatFloat(st.EstimatedHours, 'f', -1, 64)
	}
	completed := ""
	if st.CompletedAt != nil {
		completed = st.CompletedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		st.Number,
		st.Title,
		st.Description,
		string(st.Status),
		string(st.Priority),
		strings.Join(st.Tags, "; "),
		sprintName,
		sprintType,
		st.Assignee,
		estimate,
		st.CreatedAt.UTC().Format(time.RFC3339),
		st.UpdatedAt.UTC().Format(time.RFC3339),
		completed,
	}
}
