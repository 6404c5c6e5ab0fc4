package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "is_complete", "due_date", "completed_at",
	"priority", "assignee_id", "tag_ids", "version", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.IsComplete,
		&task.DueDate,
		&task.CompletedAt,
		&task.Priority,
		&task.AssigneeID,
		&task.TagIDs,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create creates a new task within a transaction. Returns the task with ID,
// Version, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.Task) (*domain.Task, error) {
	if task.TagIDs == nil {
		task.TagIDs = []string{}
	}

	query, args, err := psql.
		Insert("tasks").
		Columns("title", "description", "is_complete", "due_date", "priority", "assignee_id", "tag_ids").
		Values(task.Title, task.Description, task.IsComplete, task.DueDate, task.Priority, task.AssigneeID, task.TagIDs).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.Version, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// Update persists the mutable fields of a task with optimistic locking. The
// update matches the version the caller read; zero affected rows means the
// stored row moved on and the caller's snapshot is stale.
// Returns ErrStaleTask in that case.
func (r *TaskRepository) Update(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("is_complete", task.IsComplete).
		Set("due_date", task.DueDate).
		Set("completed_at", task.CompletedAt).
		Set("priority", task.Priority).
		Set("assignee_id", task.AssigneeID).
		Set("tag_ids", task.TagIDs).
		Set("version", task.Version+1).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":      task.ID,
			"version": task.Version,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for task %s: %w", task.ID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStaleTask
	}

	task.Version++
	return nil
}

// Delete removes a task. Comments and activity entries cascade with it.
// Returns ErrTaskNotFound if no row was deleted.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// DeleteCompletedBefore removes completed tasks whose completion timestamp is
// older than the cutoff. Returns the number of tasks removed.
func (r *TaskRepository) DeleteCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"is_complete": true}).
		Where(sq.Lt{"completed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build DeleteCompletedBefore query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete completed tasks: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListFilters holds filters for task listing.
type ListFilters struct {
	IsComplete *bool
	AssigneeID *string
	Unassigned bool
	Priority   *domain.Priority
	Overdue    bool
	Limit      int
	Offset     int
}

// List retrieves tasks matching the filters, newest first, plus the total
// count ignoring limit/offset.
func (r *TaskRepository) List(ctx context.Context, filters ListFilters) ([]*domain.Task, int, error) {
	base := psql.Select(taskColumns...).From("tasks")
	countBase := psql.Select("COUNT(*)").From("tasks")

	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filters.IsComplete != nil {
			b = b.Where(sq.Eq{"is_complete": *filters.IsComplete})
		}
		if filters.Unassigned {
			b = b.Where(sq.Eq{"assignee_id": nil})
		} else if filters.AssigneeID != nil {
			b = b.Where(sq.Eq{"assignee_id": *filters.AssigneeID})
		}
		if filters.Priority != nil {
			b = b.Where(sq.Eq{"priority": *filters.Priority})
		}
		if filters.Overdue {
			b = b.Where(sq.Eq{"is_complete": false}).Where("due_date < NOW()")
		}
		return b
	}

	countQuery, countArgs, err := apply(countBase).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	listBuilder := apply(base).OrderBy("created_at DESC", "id DESC")
	if filters.Limit > 0 {
		listBuilder = listBuilder.Limit(uint64(filters.Limit))
	}
	if filters.Offset > 0 {
		listBuilder = listBuilder.Offset(uint64(filters.Offset))
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}
