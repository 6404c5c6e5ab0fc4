package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskline/taskline/internal/domain"
)

// TagRepository handles database operations for tags.
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new TagRepository.
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// List retrieves all tags ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	query, args, err := psql.
		Select("id", "name", "color", "created_at").
		From("tags").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for tags: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return tags, nil
}

// CountByIDs returns how many of the given tag IDs exist. Used to validate
// tag references on task writes without loading the rows.
func (r *TagRepository) CountByIDs(ctx context.Context, tagIDs []string) (int, error) {
	if len(tagIDs) == 0 {
		return 0, nil
	}

	query, args, err := psql.
		Select("COUNT(*)").
		From("tags").
		Where(sq.Eq{"id": tagIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountByIDs query for tags: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}

	return count, nil
}
