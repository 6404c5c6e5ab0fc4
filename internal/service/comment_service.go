package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/event"
	"github.com/taskline/taskline/internal/repository"
)

// CommentService coordinates comment mutations with their correlated audit
// entries. Each mutation and its entry commit as one unit; existing entries
// are never rewritten.
type CommentService struct {
	pool         *pgxpool.Pool
	commentRepo  *repository.CommentRepository
	taskRepo     *repository.TaskRepository
	activityRepo *repository.ActivityRepository
	validator    *Validator
	dispatcher   *event.Dispatcher
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	pool *pgxpool.Pool,
	commentRepo *repository.CommentRepository,
	taskRepo *repository.TaskRepository,
	activityRepo *repository.ActivityRepository,
	tagRepo *repository.TagRepository,
	dispatcher *event.Dispatcher,
) *CommentService {
	return &CommentService{
		pool:         pool,
		commentRepo:  commentRepo,
		taskRepo:     taskRepo,
		activityRepo: activityRepo,
		validator:    NewValidator(tagRepo),
		dispatcher:   dispatcher,
	}
}

// CreateCommentParams holds the input for creating a comment.
type CreateCommentParams struct {
	TaskID      string
	AuthorID    *string
	Content     string
	DisplayName *string
	IsSystem    bool
	Type        domain.ActivityType // zero value is ActivityCommentCreated
	Metadata    json.RawMessage

	// SuppressActivity skips the correlated audit entry. Off by default:
	// every comment creation appends exactly one entry.
	SuppressActivity bool
}

// Create persists a comment and, unless suppressed, exactly one correlated
// activity entry, atomically. The task must exist; ErrTaskNotFound is
// returned before anything is written otherwise.
func (s *CommentService) Create(ctx context.Context, params CreateCommentParams) (*domain.CommentResult, error) {
	comment := &domain.Comment{
		TaskID:      params.TaskID,
		AuthorID:    params.AuthorID,
		Content:     params.Content,
		DisplayName: params.DisplayName,
		IsSystem:    params.IsSystem,
		Type:        params.Type,
		Metadata:    params.Metadata,
	}

	if err := s.validator.ValidateComment(comment); err != nil {
		return nil, err
	}

	// Existence is checked before any write so a bad task reference
	// persists nothing.
	if _, err := s.taskRepo.GetByID(ctx, params.TaskID); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
		return nil, err
	}

	result := &domain.CommentResult{Comment: comment}

	if !params.SuppressActivity {
		entry := &domain.ActivityEntry{
			TaskID:           comment.TaskID,
			ActorID:          comment.AuthorID,
			Summary:          "Comment added",
			Type:             comment.Type,
			RelatedCommentID: &comment.ID,
		}
		if err := s.activityRepo.Insert(ctx, tx, entry); err != nil {
			return nil, fmt.Errorf("append comment entry: %w", err)
		}
		result.Entry = entry
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.dispatcher.Publish(ctx, event.CommentCreated{Comment: comment, Entry: result.Entry})

	slog.Info("comment created",
		"task_id", comment.TaskID,
		"comment_id", comment.ID,
	)

	return result, nil
}

// Update replaces a comment's content and appends a CommentUpdated entry in
// the same transaction.
func (s *CommentService) Update(
	ctx context.Context,
	commentID string,
	actorID *string,
	content string,
	metadata json.RawMessage,
) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if metadata != nil {
		comment.Metadata = metadata
	}

	if err := s.validator.ValidateComment(comment); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := s.commentRepo.Update(ctx, tx, comment); err != nil {
		return nil, err
	}

	entry := &domain.ActivityEntry{
		TaskID:           comment.TaskID,
		ActorID:          actorID,
		Summary:          "Comment edited",
		Type:             domain.ActivityCommentUpdated,
		RelatedCommentID: &comment.ID,
	}
	if err := s.activityRepo.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("append comment entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.dispatcher.Publish(ctx, event.CommentUpdated{Comment: comment, Entry: entry})

	slog.Info("comment updated",
		"task_id", comment.TaskID,
		"comment_id", comment.ID,
	)

	return comment, nil
}

// Delete removes a comment and appends a CommentDeleted entry in the same
// transaction. The deleted content is preserved in the entry details; the
// entry itself outlives the comment with its related-comment reference
// nulled by the store.
func (s *CommentService) Delete(ctx context.Context, commentID string, actorID *string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	details := comment.Content
	if len(details) > MaxDetailsLength {
		details = details[:MaxDetailsLength]
	}
	entry := &domain.ActivityEntry{
		TaskID:  comment.TaskID,
		ActorID: actorID,
		Summary: "Comment deleted",
		Details: &details,
		Type:    domain.ActivityCommentDeleted,
	}
	if err := s.activityRepo.Insert(ctx, tx, entry); err != nil {
		return fmt.Errorf("append comment entry: %w", err)
	}

	if err := s.commentRepo.Delete(ctx, tx, commentID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	s.dispatcher.Publish(ctx, event.CommentDeleted{
		CommentID: commentID,
		TaskID:    comment.TaskID,
		Entry:     entry,
	})

	slog.Info("comment deleted",
		"task_id", comment.TaskID,
		"comment_id", commentID,
	)

	return nil
}

// Get retrieves a comment by ID.
func (s *CommentService) Get(ctx context.Context, commentID string) (*domain.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}

// ListByTask retrieves all comments for a task, oldest first.
// Returns ErrTaskNotFound if the task does not exist.
func (s *CommentService) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByTaskID(ctx, taskID)
}
