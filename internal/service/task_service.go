package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/event"
	"github.com/taskline/taskline/internal/repository"
)

// TaskService coordinates task mutations with their audit trail. Every state
// change and its activity entries commit in one transaction; domain events
// are published only after the commit.
type TaskService struct {
	pool         *pgxpool.Pool
	taskRepo     *repository.TaskRepository
	activityRepo *repository.ActivityRepository
	validator    *Validator
	dispatcher   *event.Dispatcher
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	activityRepo *repository.ActivityRepository,
	tagRepo *repository.TagRepository,
	dispatcher *event.Dispatcher,
) *TaskService {
	return &TaskService{
		pool:         pool,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		validator:    NewValidator(tagRepo),
		dispatcher:   dispatcher,
	}
}

// CreateTaskParams holds the input for creating a task.
type CreateTaskParams struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	AssigneeID  *string
	TagIDs      []string
	ActorID     *string
}

// UpdateTaskParams holds the optional field updates for a task. Nil fields
// are left untouched; the Clear flags reset the corresponding nullable field.
type UpdateTaskParams struct {
	Title         *string
	Description   *string
	Priority      *domain.Priority
	DueDate       *time.Time
	ClearDueDate  bool
	AssigneeID    *string
	ClearAssignee bool
	TagIDs        []string
	IsComplete    *bool
}

// rollback rolls the transaction back unless it already committed.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// Create creates a task together with its TaskCreated audit entry.
func (s *TaskService) Create(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	task := &domain.Task{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		AssigneeID:  params.AssigneeID,
		TagIDs:      params.TagIDs,
	}

	if err := s.validator.ValidateTask(ctx, task); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}

	entry := &domain.ActivityEntry{
		TaskID:  task.ID,
		ActorID: params.ActorID,
		Summary: "Task created",
		Type:    domain.ActivityTaskCreated,
	}

	if err := s.activityRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("append creation entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.dispatcher.Publish(ctx, event.TaskCreated{Task: task, Entry: entry})

	slog.Info("task created",
		"task_id", task.ID,
		"entry_id", entry.ID,
	)

	return task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.taskRepo.GetByID(ctx, taskID)
}

// List retrieves tasks matching the filters plus a total count.
func (s *TaskService) List(ctx context.Context, filters repository.ListFilters) ([]*domain.Task, int, error) {
	return s.taskRepo.List(ctx, filters)
}

// Update applies field updates to a task, diffing the before and after
// snapshots and appending one audit entry per changed field in the same
// transaction. An update that changes nothing writes nothing. A concurrent
// writer surfaces as ErrStaleTask.
func (s *TaskService) Update(
	ctx context.Context,
	taskID string,
	actorID *string,
	params UpdateTaskParams,
) (*domain.Task, []*domain.ActivityEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	original, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, nil, err
	}

	updated := applyUpdate(original, params)

	if err := s.validator.ValidateTask(ctx, updated); err != nil {
		return nil, nil, err
	}

	changes := DiffTasks(original, updated)
	if len(changes) == 0 {
		return original, nil, nil
	}

	if err := s.taskRepo.Update(ctx, tx, updated); err != nil {
		return nil, nil, err
	}

	entries := entriesFromChanges(taskID, actorID, changes)
	if err := s.activityRepo.InsertBatch(ctx, tx, entries); err != nil {
		return nil, nil, fmt.Errorf("append change entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.publishForChanges(ctx, updated, entries)

	slog.Info("task updated",
		"task_id", taskID,
		"entries", len(entries),
		"version", updated.Version,
	)

	return updated, entries, nil
}

// SetCompletion completes or reopens a task, writing the directional audit
// entry in the same transaction. Setting the flag to its current value is a
// no-op that writes nothing and returns a nil entry.
func (s *TaskService) SetCompletion(
	ctx context.Context,
	taskID string,
	actorID *string,
	isComplete bool,
) (*domain.Task, *domain.ActivityEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, nil, err
	}

	if task.IsComplete == isComplete {
		return task, nil, nil
	}

	task.IsComplete = isComplete
	if isComplete {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.taskRepo.Update(ctx, tx, task); err != nil {
		return nil, nil, err
	}

	change := CompletionChange(isComplete)
	entry := entriesFromChanges(taskID, actorID, []domain.FieldChange{change})[0]

	if err := s.activityRepo.Insert(ctx, tx, entry); err != nil {
		return nil, nil, fmt.Errorf("append completion entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}

	if isComplete {
		s.dispatcher.Publish(ctx, event.TaskCompleted{Task: task, Entry: entry})
	} else {
		s.dispatcher.Publish(ctx, event.TaskReopened{Task: task, Entry: entry})
	}

	slog.Info("task completion changed",
		"task_id", taskID,
		"is_complete", isComplete,
		"entry_id", entry.ID,
	)

	return task, entry, nil
}

// Delete removes a task; its comments and activity entries cascade with it.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, event.TaskDeleted{TaskID: taskID})

	slog.Info("task deleted", "task_id", taskID)
	return nil
}

// PurgeCompleted removes completed tasks whose completion is older than the
// given age. Returns the number of tasks removed.
func (s *TaskService) PurgeCompleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	count, err := s.taskRepo.DeleteCompletedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	slog.Info("completed tasks purged",
		"count", count,
		"cutoff", cutoff,
	)

	return count, nil
}

// publishForChanges mirrors ActivityService.publishForChanges for updates
// driven through the task mutation path.
func (s *TaskService) publishForChanges(ctx context.Context, task *domain.Task, entries []*domain.ActivityEntry) {
	s.dispatcher.Publish(ctx, event.TaskUpdated{Task: task, Entries: entries})

	for _, entry := range entries {
		switch entry.Type {
		case domain.ActivityTaskCompleted:
			s.dispatcher.Publish(ctx, event.TaskCompleted{Task: task, Entry: entry})
		case domain.ActivityTaskReopened:
			s.dispatcher.Publish(ctx, event.TaskReopened{Task: task, Entry: entry})
		}
	}
}

// applyUpdate builds the updated snapshot from the original and the params.
// The original is left untouched so the diff sees a clean before/after pair.
func applyUpdate(original *domain.Task, params UpdateTaskParams) *domain.Task {
	updated := original.Snapshot()

	if params.Title != nil {
		updated.Title = *params.Title
	}
	if params.Description != nil {
		updated.Description = *params.Description
	}
	if params.Priority != nil {
		updated.Priority = *params.Priority
	}
	if params.ClearDueDate {
		updated.DueDate = nil
	} else if params.DueDate != nil {
		updated.DueDate = params.DueDate
	}
	if params.ClearAssignee {
		updated.AssigneeID = nil
	} else if params.AssigneeID != nil {
		updated.AssigneeID = params.AssigneeID
	}
	if params.TagIDs != nil {
		updated.TagIDs = params.TagIDs
	}
	if params.IsComplete != nil && *params.IsComplete != updated.IsComplete {
		updated.IsComplete = *params.IsComplete
		if updated.IsComplete {
			now := time.Now()
			updated.CompletedAt = &now
		} else {
			updated.CompletedAt = nil
		}
	}

	return updated
}
