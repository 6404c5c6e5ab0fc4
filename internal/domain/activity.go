package domain

import "time"

// ActivityType classifies an activity log entry. Values are persisted as
// smallint ordinals, so new types must be appended at the end only.
type ActivityType int16

const (
	ActivityCommentCreated ActivityType = iota
	ActivityCommentUpdated
	ActivityCommentDeleted
	ActivityStatusChanged
	ActivityPriorityChanged
	ActivityAssignmentChanged
	ActivityDueDateChanged
	ActivityTaskCreated
	ActivityTaskUpdated
	ActivityTaskCompleted
	ActivityTaskReopened
)

// String returns the machine-readable name of the activity type.
func (t ActivityType) String() string {
	switch t {
	case ActivityCommentCreated:
		return "comment_created"
	case ActivityCommentUpdated:
		return "comment_updated"
	case ActivityCommentDeleted:
		return "comment_deleted"
	case ActivityStatusChanged:
		return "status_changed"
	case ActivityPriorityChanged:
		return "priority_changed"
	case ActivityAssignmentChanged:
		return "assignment_changed"
	case ActivityDueDateChanged:
		return "due_date_changed"
	case ActivityTaskCreated:
		return "task_created"
	case ActivityTaskUpdated:
		return "task_updated"
	case ActivityTaskCompleted:
		return "task_completed"
	case ActivityTaskReopened:
		return "task_reopened"
	default:
		return "unknown"
	}
}

// IsValid checks if the activity type is one of the allowed values.
func (t ActivityType) IsValid() bool {
	return t >= ActivityCommentCreated && t <= ActivityTaskReopened
}

// ActivityEntry represents one append-only audit record for a task.
// Entries are never updated or deleted after creation.
type ActivityEntry struct {
	ID               int64
	TaskID           string
	ActorID          *string // nil for system actions
	Summary          string
	Details          *string
	Type             ActivityType
	RelatedCommentID *string
	CreatedAt        time.Time
}

// IsSystemEntry returns true if the entry was produced without an acting user.
func (e *ActivityEntry) IsSystemEntry() bool {
	return e.ActorID == nil
}

// ActivityPage is one page of a task's activity timeline.
type ActivityPage struct {
	Entries    []*ActivityEntry
	TotalCount int
	Page       int
	Size       int
}

// TotalPages returns the number of pages available at the page size.
func (p *ActivityPage) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalCount + p.Size - 1) / p.Size
}
