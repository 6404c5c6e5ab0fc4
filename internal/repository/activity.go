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

// activityColumns is the shared list of columns for activity log queries.
var activityColumns = []string{
	"id", "task_id", "actor_id", "summary", "details", "event_type",
	"related_comment_id", "created_at",
}

// ActivityRepository handles database operations for the append-only
// activity log. Rows are only ever inserted; there is no update or delete.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// scanEntry scans a single row into an ActivityEntry struct.
func scanEntry(row pgx.Row) (*domain.ActivityEntry, error) {
	var entry domain.ActivityEntry
	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.ActorID,
		&entry.Summary,
		&entry.Details,
		&entry.Type,
		&entry.RelatedCommentID,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("scan activity entry: %w", err)
	}
	return &entry, nil
}

// Insert appends a single entry within a transaction, populating the
// server-assigned ID and CreatedAt.
func (r *ActivityRepository) Insert(ctx context.Context, tx pgx.Tx, entry *domain.ActivityEntry) error {
	query, args, err := psql.
		Insert("activity_log").
		Columns("task_id", "actor_id", "summary", "details", "event_type", "related_comment_id").
		Values(entry.TaskID, entry.ActorID, entry.Summary, entry.Details, entry.Type, entry.RelatedCommentID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Insert query for activity entry: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}

	return nil
}

// InsertBatch appends entries in slice order within a transaction. IDs are
// assigned from a single sequence, so slice order is insertion order even
// when created_at timestamps collide. The batch commits or rolls back with
// the surrounding transaction as one unit.
func (r *ActivityRepository) InsertBatch(ctx context.Context, tx pgx.Tx, entries []*domain.ActivityEntry) error {
	for i, entry := range entries {
		if err := r.Insert(ctx, tx, entry); err != nil {
			return fmt.Errorf("batch entry %d: %w", i, err)
		}
	}
	return nil
}

// GetByID retrieves a single activity entry by ID.
func (r *ActivityRepository) GetByID(ctx context.Context, entryID int64) (*domain.ActivityEntry, error) {
	query, args, err := psql.
		Select(activityColumns...).
		From("activity_log").
		Where(sq.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for activity entry: %w", err)
	}

	return scanEntry(r.pool.QueryRow(ctx, query, args...))
}

// GetByTaskID retrieves the full activity timeline for a task, ordered by
// creation time ascending with ties broken by ID ascending.
func (r *ActivityRepository) GetByTaskID(ctx context.Context, taskID string) ([]*domain.ActivityEntry, error) {
	query, args, err := psql.
		Select(activityColumns...).
		From("activity_log").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByTaskID query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity entries: %w", err)
	}

	return scanEntries(rows)
}

// GetPage retrieves one page of a task's timeline in the same total order as
// GetByTaskID. page is 1-based; the total count covers all entries for the
// task regardless of paging.
func (r *ActivityRepository) GetPage(ctx context.Context, taskID string, page, size int) (*domain.ActivityPage, error) {
	countQuery, countArgs, err := psql.
		Select("COUNT(*)").
		From("activity_log").
		Where(sq.Eq{"task_id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetPage count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count activity entries: %w", err)
	}

	query, args, err := psql.
		Select(activityColumns...).
		From("activity_log").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetPage query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity page: %w", err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	return &domain.ActivityPage{
		Entries:    entries,
		TotalCount: total,
		Page:       page,
		Size:       size,
	}, nil
}

// scanEntries scans multiple rows into a slice of ActivityEntry structs.
func scanEntries(rows pgx.Rows) ([]*domain.ActivityEntry, error) {
	defer rows.Close()

	var entries []*domain.ActivityEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}
