package event

import (
	"context"
	"log/slog"
)

// allKinds lists every event kind the logging subscriber covers.
var allKinds = []Kind{
	KindTaskCreated,
	KindTaskUpdated,
	KindTaskCompleted,
	KindTaskReopened,
	KindTaskDeleted,
	KindCommentCreated,
	KindCommentUpdated,
	KindCommentDeleted,
}

// RegisterLogging subscribes a structured-logging handler for every event
// kind. It is the default side-effect consumer wired at process start.
func RegisterLogging(d *Dispatcher) {
	for _, kind := range allKinds {
		d.Subscribe(kind, logEvent)
	}
}

func logEvent(ctx context.Context, e Event) error {
	switch ev := e.(type) {
	case TaskCreated:
		slog.Info("task created", "task_id", ev.Task.ID, "entry_id", ev.Entry.ID)
	case TaskUpdated:
		slog.Info("task updated", "task_id", ev.Task.ID, "entries", len(ev.Entries))
	case TaskCompleted:
		slog.Info("task completed", "task_id", ev.Task.ID, "entry_id", ev.Entry.ID)
	case TaskReopened:
		slog.Info("task reopened", "task_id", ev.Task.ID, "entry_id", ev.Entry.ID)
	case TaskDeleted:
		slog.Info("task deleted", "task_id", ev.TaskID)
	case CommentCreated:
		slog.Info("comment created", "task_id", ev.Comment.TaskID, "comment_id", ev.Comment.ID)
	case CommentUpdated:
		slog.Info("comment updated", "task_id", ev.Comment.TaskID, "comment_id", ev.Comment.ID)
	case CommentDeleted:
		slog.Info("comment deleted", "task_id", ev.TaskID, "comment_id", ev.CommentID)
	default:
		slog.Info("domain event", "event_kind", e.Kind())
	}
	return nil
}
