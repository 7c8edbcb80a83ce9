// Package validation checks user-supplied story, sprint and settings values
// before they reach the board.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/models"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
	MaxTags           = 10
	MaxEstimatedHours = 999
)

func StoryTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("story title cannot be empty")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("story title cannot exceed %d characters", MaxTitleLen)
	}
	return nil
}

func StoryDescription(desc string) error {
	if len(desc) > MaxDescriptionLen {
		return fmt.Errorf("story description cannot exceed %d characters", MaxDescriptionLen)
	}
	return nil
}

func Tags(tags []string) error {
	if len(tags) > MaxTags {
		return fmt.Errorf("a story cannot have more than %d tags", MaxTags)
	}
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			return fmt.Errorf("tags cannot be blank")
		}
	}
	return nil
}

func Status(s string) error {
	if !models.ValidStatus(models.Status(s)) {
		return fmt.Errorf("status must be one of: %s, %s, %s",
			models.StatusOpen, models.StatusInProgress, models.StatusCompleted)
	}
	return nil
}

func Priority(p string) error {
	switch models.Priority(p) {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return nil
	}
	return fmt.Errorf("priority must be one of: %s, %s, %s",
		models.PriorityLow, models.PriorityMedium, models.PriorityHigh)
}

func EstimatedHours(h float64) error {
	if h < 0 {
		return fmt.Errorf("estimated hours cannot be negative")
	}
	if h > MaxEstimatedHours {
		return fmt.Errorf("estimated hours cannot exceed %d", MaxEstimatedHours)
	}
	return nil
}

func SprintName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("sprint name cannot be empty")
	}
	if len(name) > MaxTitleLen {
		return fmt.Errorf("sprint name cannot exceed %d characters", MaxTitleLen)
	}
	return nil
}

// StoryPrefix accepts short uppercase identifiers like "TUNE" or "APP1".
func StoryPrefix(prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return fmt.Errorf("story prefix cannot be empty")
	}
	if len(prefix) > 10 {
		return fmt.Errorf("story prefix cannot exceed 10 characters")
	}
	for _, r := range prefix {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return fmt.Errorf("story prefix must contain only uppercase letters and digits")
		}
	}
	return nil
}

func AutoSaveInterval(ms int) error {
	for _, iv := range constants.AutoSaveIntervals {
		if ms == iv {
			return nil
		}
	}
	return fmt.Errorf("autosave interval must be one of %v milliseconds", constants.AutoSaveIntervals)
}

func MaxBackups(n int) error {
	if n < constants.MinBackups || n > constants.MaxBackupsLimit {
		return fmt.Errorf("max backups must be between %d and %d",
			constants.MinBackups, constants.MaxBackupsLimit)
	}
	return nil
}
