package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
)

// commentColumns is the shared list of columns for comment queries.
var commentColumns = []string{
	"id", "task_id", "author_id", "content", "display_name", "is_system",
	"event_type", "metadata", "created_at", "updated_at",
}

// CommentRepository handles database operations for comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// scanComment scans a single row into a Comment struct.
func scanComment(row pgx.Row) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Content,
		&comment.DisplayName,
		&comment.IsSystem,
		&comment.Type,
		&comment.Metadata,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	return &comment, nil
}

// Create inserts a comment within a transaction, populating the
// server-assigned ID and CreatedAt.
func (r *CommentRepository) Create(ctx context.Context, tx pgx.Tx, comment *domain.Comment) error {
	query, args, err := psql.
		Insert("comments").
		Columns("task_id", "author_id", "content", "display_name", "is_system", "event_type", "metadata").
		Values(comment.TaskID, comment.AuthorID, comment.Content, comment.DisplayName,
			comment.IsSystem, comment.Type, comment.Metadata).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for comment: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

// Update replaces the content of a comment and stamps updated_at. Returns
// ErrCommentNotFound if no row matched.
func (r *CommentRepository) Update(ctx context.Context, tx pgx.Tx, comment *domain.Comment) error {
	query, args, err := psql.
		Update("comments").
		Set("content", comment.Content).
		Set("metadata", comment.Metadata).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": comment.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for comment %s: %w", comment.ID, err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCommentNotFound
		}
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

// Delete removes a comment within a transaction. Activity entries that
// reference it keep their row; the FK nulls the reference. Returns
// ErrCommentNotFound if no row was deleted.
func (r *CommentRepository) Delete(ctx context.Context, tx pgx.Tx, commentID string) error {
	query, args, err := psql.
		Delete("comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for comment %s: %w", commentID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}

	return nil
}

// GetByID retrieves a comment by ID.
func (r *CommentRepository) GetByID(ctx context.Context, commentID string) (*domain.Comment, error) {
	query, args, err := psql.
		Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for comment: %w", err)
	}

	return scanComment(r.pool.QueryRow(ctx, query, args...))
}

// GetByTaskID retrieves all comments for a task, oldest first.
func (r *CommentRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	query, args, err := psql.
		Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query for comments: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return comments, nil
}
