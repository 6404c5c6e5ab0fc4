package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/service"
)

func baseTask() *domain.Task {
	return &domain.Task{
		ID:          "11111111-1111-1111-1111-111111111111",
		Title:       "Buy milk",
		Description: "Two liters",
		IsComplete:  false,
		Priority:    domain.PriorityLow,
	}
}

func TestDiffTasks_IdenticalSnapshots(t *testing.T) {
	original := baseTask()
	updated := original.Snapshot()

	changes := service.DiffTasks(original, updated)
	assert.Empty(t, changes)
}

func TestDiffTasks_TitleOnly(t *testing.T) {
	original := baseTask()
	updated := original.Snapshot()
	updated.Title = "Buy oat milk"

	changes := service.DiffTasks(original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldTitle, changes[0].Field)
	assert.Equal(t, domain.ActivityTaskUpdated, changes[0].Type)
}

func TestDiffTasks_TitleCaseOnlyIsAChange(t *testing.T) {
	original := baseTask()
	updated := original.Snapshot()
	updated.Title = "buy milk"

	changes := service.DiffTasks(original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldTitle, changes[0].Field)
}

func TestDiffTasks_CompletionIsDirectional(t *testing.T) {
	original := baseTask()
	completed := original.Snapshot()
	completed.IsComplete = true

	changes := service.DiffTasks(original, completed)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ActivityTaskCompleted, changes[0].Type)
	assert.Equal(t, "Task completed", changes[0].Summary)

	// Flipping back yields the opposite descriptor.
	reopened := completed.Snapshot()
	reopened.IsComplete = false

	changes = service.DiffTasks(completed, reopened)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ActivityTaskReopened, changes[0].Type)
	assert.Equal(t, "Task reopened", changes[0].Summary)

	// And flipping twice returns to the original descriptor kind.
	again := reopened.Snapshot()
	again.IsComplete = true
	changes = service.DiffTasks(reopened, again)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ActivityTaskCompleted, changes[0].Type)
}

func TestDiffTasks_FixedFieldOrder(t *testing.T) {
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	assignee := "22222222-2222-2222-2222-222222222222"

	original := baseTask()
	updated := original.Snapshot()
	updated.Title = "Buy bread"
	updated.Description = "One loaf"
	updated.Priority = domain.PriorityHigh
	updated.DueDate = &due
	updated.AssigneeID = &assignee
	updated.IsComplete = true

	changes := service.DiffTasks(original, updated)
	require.Len(t, changes, 6)

	wantOrder := []domain.ChangeField{
		domain.FieldTitle,
		domain.FieldDescription,
		domain.FieldPriority,
		domain.FieldDueDate,
		domain.FieldAssignment,
		domain.FieldCompletion,
	}
	for i, change := range changes {
		assert.Equal(t, wantOrder[i], change.Field, "position %d", i)
	}
}

func TestDiffTasks_PriorityAndCompletionScenario(t *testing.T) {
	original := baseTask()
	updated := original.Snapshot()
	updated.Priority = domain.PriorityHigh
	updated.IsComplete = true

	changes := service.DiffTasks(original, updated)
	require.Len(t, changes, 2)
	assert.Equal(t, domain.ActivityPriorityChanged, changes[0].Type)
	assert.Equal(t, domain.ActivityTaskCompleted, changes[1].Type)
	assert.Equal(t, "Priority changed from Low to High", changes[0].Summary)
}

func TestDiffTasks_DueDateNullableAware(t *testing.T) {
	due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// nil -> set
	original := baseTask()
	updated := original.Snapshot()
	updated.DueDate = &due
	changes := service.DiffTasks(original, updated)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ActivityDueDateChanged, changes[0].Type)

	// set -> nil
	changes = service.DiffTasks(updated, original)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.FieldDueDate, changes[0].Field)

	// equal instants in different locations are not a change
	elsewhere := due.In(time.FixedZone("UTC+3", 3*3600))
	other := updated.Snapshot()
	other.DueDate = &elsewhere
	assert.Empty(t, service.DiffTasks(updated, other))
}

func TestDiffTasks_AssignmentSummaries(t *testing.T) {
	user1 := "22222222-2222-2222-2222-222222222222"
	user2 := "33333333-3333-3333-3333-333333333333"

	unassigned := baseTask()
	assigned := unassigned.Snapshot()
	assigned.AssigneeID = &user1

	changes := service.DiffTasks(unassigned, assigned)
	require.Len(t, changes, 1)
	assert.Equal(t, "Task assigned", changes[0].Summary)

	reassigned := assigned.Snapshot()
	reassigned.AssigneeID = &user2
	changes = service.DiffTasks(assigned, reassigned)
	require.Len(t, changes, 1)
	assert.Equal(t, "Assignee changed", changes[0].Summary)

	changes = service.DiffTasks(assigned, unassigned)
	require.Len(t, changes, 1)
	assert.Equal(t, "Task unassigned", changes[0].Summary)
}

func TestDiffTasks_IsPureAndDeterministic(t *testing.T) {
	original := baseTask()
	updated := original.Snapshot()
	updated.Title = "Changed"

	first := service.DiffTasks(original, updated)
	second := service.DiffTasks(original, updated)
	assert.Equal(t, first, second)

	// Inputs are untouched.
	assert.Equal(t, "Buy milk", original.Title)
	assert.Equal(t, "Changed", updated.Title)
}
