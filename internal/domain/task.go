package domain

import "time"

// Priority represents the priority level of a task. Values are ordered and
// persisted as smallint ordinals.
type Priority int16

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
)

// String returns the human-readable name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// IsValid checks if the priority is one of the allowed values.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// ParsePriority converts a string priority name to a Priority.
// Returns ErrInvalidPriority for unrecognized values.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "low", "Low":
		return PriorityLow, nil
	case "medium", "Medium":
		return PriorityMedium, nil
	case "high", "High":
		return PriorityHigh, nil
	default:
		return 0, ErrInvalidPriority
	}
}

// Task represents a todo item under audit.
type Task struct {
	ID          string
	Title       string
	Description string
	IsComplete  bool
	DueDate     *time.Time
	CompletedAt *time.Time
	Priority    Priority
	AssigneeID  *string
	TagIDs      []string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Snapshot returns a copy of the task suitable for before/after comparison.
// Pointer fields are copied by value so later mutation of the task does not
// leak into the snapshot.
func (t *Task) Snapshot() *Task {
	snap := *t
	if t.DueDate != nil {
		due := *t.DueDate
		snap.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		snap.CompletedAt = &done
	}
	if t.AssigneeID != nil {
		assignee := *t.AssigneeID
		snap.AssigneeID = &assignee
	}
	snap.TagIDs = append([]string(nil), t.TagIDs...)
	return &snap
}

// IsAssignedTo checks if the task is assigned to the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}
