package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/event"
	"github.com/taskline/taskline/internal/repository"
)

// ActivityService is the write and read side of the audit trail. Writes are
// append-only and atomic per call; reads never mutate state.
type ActivityService struct {
	pool         *pgxpool.Pool
	activityRepo *repository.ActivityRepository
	taskRepo     *repository.TaskRepository
	validator    *Validator
	dispatcher   *event.Dispatcher
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	pool *pgxpool.Pool,
	activityRepo *repository.ActivityRepository,
	taskRepo *repository.TaskRepository,
	tagRepo *repository.TagRepository,
	dispatcher *event.Dispatcher,
) *ActivityService {
	return &ActivityService{
		pool:         pool,
		activityRepo: activityRepo,
		taskRepo:     taskRepo,
		validator:    NewValidator(tagRepo),
		dispatcher:   dispatcher,
	}
}

// entriesFromChanges materializes diff descriptors into unsaved entries,
// preserving descriptor order.
func entriesFromChanges(taskID string, actorID *string, changes []domain.FieldChange) []*domain.ActivityEntry {
	entries := make([]*domain.ActivityEntry, 0, len(changes))
	for _, change := range changes {
		entry := &domain.ActivityEntry{
			TaskID:  taskID,
			ActorID: actorID,
			Summary: change.Summary,
			Type:    change.Type,
		}
		if change.Details != "" {
			details := change.Details
			entry.Details = &details
		}
		entries = append(entries, entry)
	}
	return entries
}

// RecordChanges diffs two snapshots of a task and appends one entry per
// changed field, in descriptor order, as a single atomic batch. An empty diff
// writes nothing and returns an empty result, so replaying the same pair of
// snapshots is safe.
func (s *ActivityService) RecordChanges(
	ctx context.Context,
	taskID string,
	actorID *string,
	original *domain.Task,
	updated *domain.Task,
) ([]*domain.ActivityEntry, error) {
	changes := DiffTasks(original, updated)
	if len(changes) == 0 {
		return nil, nil
	}

	entries := entriesFromChanges(taskID, actorID, changes)
	for _, entry := range entries {
		if err := s.validator.ValidateEntry(entry); err != nil {
			return nil, err
		}
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := s.appendBatchAndCommit(ctx, tx, entries); err != nil {
		return nil, err
	}

	s.publishForChanges(ctx, task, entries)

	slog.Info("changes recorded",
		"task_id", taskID,
		"entries", len(entries),
	)

	return entries, nil
}

// RecordCompletion appends a single directional entry for a completion
// toggle: TaskCompleted when isComplete is true, TaskReopened otherwise.
func (s *ActivityService) RecordCompletion(
	ctx context.Context,
	taskID string,
	actorID *string,
	isComplete bool,
) (*domain.ActivityEntry, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	change := CompletionChange(isComplete)
	entries := entriesFromChanges(taskID, actorID, []domain.FieldChange{change})
	entry := entries[0]

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := s.appendBatchAndCommit(ctx, tx, entries); err != nil {
		return nil, err
	}

	if isComplete {
		s.dispatcher.Publish(ctx, event.TaskCompleted{Task: task, Entry: entry})
	} else {
		s.dispatcher.Publish(ctx, event.TaskReopened{Task: task, Entry: entry})
	}

	slog.Info("completion recorded",
		"task_id", taskID,
		"is_complete", isComplete,
		"entry_id", entry.ID,
	)

	return entry, nil
}

// appendBatchAndCommit persists a batch within the transaction, then commits.
// The batch lands in full or not at all.
func (s *ActivityService) appendBatchAndCommit(ctx context.Context, tx pgx.Tx, entries []*domain.ActivityEntry) error {
	if err := s.activityRepo.InsertBatch(ctx, tx, entries); err != nil {
		return fmt.Errorf("append entries: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// publishForChanges publishes the aggregate update event plus a directional
// completion event when the batch contains one. Mutation and audit trail are
// already committed by the time anything is published.
func (s *ActivityService) publishForChanges(ctx context.Context, task *domain.Task, entries []*domain.ActivityEntry) {
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

// GetEntry retrieves a single activity entry by ID.
func (s *ActivityService) GetEntry(ctx context.Context, entryID int64) (*domain.ActivityEntry, error) {
	return s.activityRepo.GetByID(ctx, entryID)
}

// GetActivity retrieves the ordered activity timeline for a task.
// Returns ErrTaskNotFound if the task does not exist.
func (s *ActivityService) GetActivity(ctx context.Context, taskID string) ([]*domain.ActivityEntry, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.activityRepo.GetByTaskID(ctx, taskID)
}

// GetActivityPage retrieves one page of a task's timeline. page is 1-based;
// size must be within 1..MaxPageSize.
func (s *ActivityService) GetActivityPage(ctx context.Context, taskID string, page, size int) (*domain.ActivityPage, error) {
	if err := s.validator.ValidatePaging(page, size); err != nil {
		return nil, err
	}
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.activityRepo.GetPage(ctx, taskID, page, size)
}
