package models

import "time"

type SprintType string

const (
	SprintTypePriority SprintType = "priority"
	SprintTypeBacklog  SprintType = "backlog"
	SprintTypeCustom   SprintType = "custom"
)

type Layout string

const (
	LayoutSingle    Layout = "single"
	LayoutTwoColumn Layout = "two-column"
)

// Sprint is a named, ordered collection of stories. A sprint exclusively owns
// its stories; moving a story transfers ownership. Exactly one active
// priority and one active backlog sprint are expected at a time.
type Sprint struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Type        SprintType `json:"type"`
	Position    int        `json:"position"`
	IsActive    bool       `json:"isActive"`
	Stories     []Story    `json:"stories"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Layout      Layout     `json:"layout"`
}

// Protected reports whether the sprint may never be deleted or archived.
func (s *Sprint) Protected() bool {
	return s.Type == SprintTypePriority || s.Type == SprintTypeBacklog
}
