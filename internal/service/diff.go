package service

import (
	"fmt"
	"time"

	"github.com/taskline/taskline/internal/domain"
)

// DiffTasks compares two snapshots of the same task and returns one change
// descriptor per modified field group, in a fixed order: title, description,
// priority, due date, assignment, completion. Unchanged fields produce no
// descriptor; identical snapshots produce an empty result. The function is
// pure and performs no I/O.
func DiffTasks(original, updated *domain.Task) []domain.FieldChange {
	var changes []domain.FieldChange

	// Strings compare byte-exact; a case-only edit is still a change.
	if original.Title != updated.Title {
		changes = append(changes, domain.FieldChange{
			Field:   domain.FieldTitle,
			Type:    domain.ActivityTaskUpdated,
			Summary: "Title changed",
			Details: fmt.Sprintf("%q -> %q", original.Title, updated.Title),
		})
	}

	if original.Description != updated.Description {
		changes = append(changes, domain.FieldChange{
			Field:   domain.FieldDescription,
			Type:    domain.ActivityTaskUpdated,
			Summary: "Description changed",
		})
	}

	if original.Priority != updated.Priority {
		changes = append(changes, domain.FieldChange{
			Field:   domain.FieldPriority,
			Type:    domain.ActivityPriorityChanged,
			Summary: fmt.Sprintf("Priority changed from %s to %s", original.Priority, updated.Priority),
		})
	}

	if !equalTimePtr(original.DueDate, updated.DueDate) {
		changes = append(changes, domain.FieldChange{
			Field:   domain.FieldDueDate,
			Type:    domain.ActivityDueDateChanged,
			Summary: "Due date changed",
			Details: dueDateDetails(original.DueDate, updated.DueDate),
		})
	}

	if !equalStringPtr(original.AssigneeID, updated.AssigneeID) {
		changes = append(changes, domain.FieldChange{
			Field:   domain.FieldAssignment,
			Type:    domain.ActivityAssignmentChanged,
			Summary: assignmentSummary(original.AssigneeID, updated.AssigneeID),
		})
	}

	// Completion is the only directional descriptor: summary and type both
	// depend on which way the flag flipped.
	if original.IsComplete != updated.IsComplete {
		changes = append(changes, CompletionChange(updated.IsComplete))
	}

	return changes
}

// CompletionChange builds the directional descriptor for a completion flip.
// Used by the diff engine and by direct complete/reopen actions.
func CompletionChange(isComplete bool) domain.FieldChange {
	if isComplete {
		return domain.FieldChange{
			Field:   domain.FieldCompletion,
			Type:    domain.ActivityTaskCompleted,
			Summary: "Task completed",
		}
	}
	return domain.FieldChange{
		Field:   domain.FieldCompletion,
		Type:    domain.ActivityTaskReopened,
		Summary: "Task reopened",
	}
}

// equalTimePtr compares two nullable timestamps to stored precision.
// nil vs non-nil counts as a change.
func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func dueDateDetails(original, updated *time.Time) string {
	switch {
	case original == nil:
		return fmt.Sprintf("Due date set to %s", updated.Format(time.RFC3339))
	case updated == nil:
		return "Due date removed"
	default:
		return fmt.Sprintf("%s -> %s",
			original.Format(time.RFC3339), updated.Format(time.RFC3339))
	}
}

func assignmentSummary(original, updated *string) string {
	switch {
	case original == nil:
		return "Task assigned"
	case updated == nil:
		return "Task unassigned"
	default:
		return "Assignee changed"
	}
}
