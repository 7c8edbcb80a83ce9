package models

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Story is a single unit of work. Number is unique within the workspace and
// monotonically increasing per prefix; CompletedAt is set exactly when the
// story is (or was, at archive time) completed.
type Story struct {
	ID             string     `json:"id"`
	Number         string     `json:"number"` // PREFIX-NNN format
	Title          string     `json:"title"`
	Prompt         string     `json:"prompt,omitempty"` // original user input for AI generation
	Description    string     `json:"description"`
	Tags           []string   `json:"tags"`
	Status         Status     `json:"status"`
	Priority       Priority   `json:"priority"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	SprintID       string     `json:"sprintId"`
	Assignee       string     `json:"assignee,omitempty"`
	EstimatedHours float64    `json:"estimatedHours,omitempty"`
}

// ValidStatus reports whether s is one of the three story statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// NormalizePriority maps unknown priority values (the legacy editor also
// emitted "critical") to medium rather than widening the enum.
func NormalizePriority(p Priority) Priority {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	}
	return PriorityMedium
}
