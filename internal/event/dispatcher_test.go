package event_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/event"
)

func TestDispatcher_DeliversInRegistrationOrder(t *testing.T) {
	d := event.NewDispatcher()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		d.Subscribe(event.KindTaskCompleted, func(ctx context.Context, e event.Event) error {
			order = append(order, i)
			return nil
		})
	}

	d.Publish(context.Background(), event.TaskCompleted{
		Task:  &domain.Task{ID: "task-1"},
		Entry: &domain.ActivityEntry{ID: 1},
	})

	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestDispatcher_FailingHandlerIsIsolated(t *testing.T) {
	d := event.NewDispatcher()

	secondRan := false
	d.Subscribe(event.KindTaskCompleted, func(ctx context.Context, e event.Event) error {
		return errors.New("boom")
	})
	d.Subscribe(event.KindTaskCompleted, func(ctx context.Context, e event.Event) error {
		secondRan = true
		return nil
	})

	// Publish must return normally despite the first handler failing.
	d.Publish(context.Background(), event.TaskCompleted{
		Task:  &domain.Task{ID: "task-1"},
		Entry: &domain.ActivityEntry{ID: 1},
	})

	assert.True(t, secondRan, "second handler should run after the first fails")
}

func TestDispatcher_PanickingHandlerIsIsolated(t *testing.T) {
	d := event.NewDispatcher()

	secondRan := false
	d.Subscribe(event.KindCommentCreated, func(ctx context.Context, e event.Event) error {
		panic("handler bug")
	})
	d.Subscribe(event.KindCommentCreated, func(ctx context.Context, e event.Event) error {
		secondRan = true
		return nil
	})

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), event.CommentCreated{
			Comment: &domain.Comment{ID: "comment-1", TaskID: "task-1"},
		})
	})
	assert.True(t, secondRan)
}

func TestDispatcher_OnlyMatchingKindReceives(t *testing.T) {
	d := event.NewDispatcher()

	var completed, reopened int
	d.Subscribe(event.KindTaskCompleted, func(ctx context.Context, e event.Event) error {
		completed++
		return nil
	})
	d.Subscribe(event.KindTaskReopened, func(ctx context.Context, e event.Event) error {
		reopened++
		return nil
	})

	d.Publish(context.Background(), event.TaskCompleted{
		Task:  &domain.Task{ID: "task-1"},
		Entry: &domain.ActivityEntry{ID: 1},
	})

	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, reopened)
}

func TestDispatcher_NoHandlersIsANoOp(t *testing.T) {
	d := event.NewDispatcher()

	assert.NotPanics(t, func() {
		d.Publish(context.Background(), event.TaskDeleted{TaskID: "task-1"})
	})
}
