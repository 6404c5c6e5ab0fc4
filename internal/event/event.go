// Package event implements the in-process domain event dispatcher. Events are
// published after the originating mutation commits and delivered synchronously
// to handlers in registration order. Delivery is best-effort, at-most-once per
// publish; nothing is persisted or retried across process restarts.
package event

import "github.com/taskline/taskline/internal/domain"

// Kind identifies a domain event type in the dispatcher registry.
type Kind string

const (
	KindTaskCreated    Kind = "task.created"
	KindTaskUpdated    Kind = "task.updated"
	KindTaskCompleted  Kind = "task.completed"
	KindTaskReopened   Kind = "task.reopened"
	KindTaskDeleted    Kind = "task.deleted"
	KindCommentCreated Kind = "comment.created"
	KindCommentUpdated Kind = "comment.updated"
	KindCommentDeleted Kind = "comment.deleted"
)

// Event is a strongly-typed domain event value.
type Event interface {
	Kind() Kind
}

// TaskCreated is published after a new task and its creation entry commit.
type TaskCreated struct {
	Task  *domain.Task
	Entry *domain.ActivityEntry
}

func (TaskCreated) Kind() Kind { return KindTaskCreated }

// TaskUpdated is published after a diff-audited update commits. Entries holds
// the activity entries written for the update, in descriptor order.
type TaskUpdated struct {
	Task    *domain.Task
	Entries []*domain.ActivityEntry
}

func (TaskUpdated) Kind() Kind { return KindTaskUpdated }

// TaskCompleted is published after a task transitions to complete.
type TaskCompleted struct {
	Task  *domain.Task
	Entry *domain.ActivityEntry
}

func (TaskCompleted) Kind() Kind { return KindTaskCompleted }

// TaskReopened is published after a completed task is reopened.
type TaskReopened struct {
	Task  *domain.Task
	Entry *domain.ActivityEntry
}

func (TaskReopened) Kind() Kind { return KindTaskReopened }

// TaskDeleted is published after a task and its dependent rows are removed.
type TaskDeleted struct {
	TaskID string
}

func (TaskDeleted) Kind() Kind { return KindTaskDeleted }

// CommentCreated is published after a comment and its correlated entry commit.
type CommentCreated struct {
	Comment *domain.Comment
	Entry   *domain.ActivityEntry
}

func (CommentCreated) Kind() Kind { return KindCommentCreated }

// CommentUpdated is published after a comment update commits.
type CommentUpdated struct {
	Comment *domain.Comment
	Entry   *domain.ActivityEntry
}

func (CommentUpdated) Kind() Kind { return KindCommentUpdated }

// CommentDeleted is published after a comment deletion commits.
type CommentDeleted struct {
	CommentID string
	TaskID    string
	Entry     *domain.ActivityEntry
}

func (CommentDeleted) Kind() Kind { return KindCommentDeleted }
