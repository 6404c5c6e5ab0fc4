package repository

import (
	"context"
	"fmt"

	"github.com/taskline/taskline/internal/domain"
)

// SummaryResult holds workspace-level counters for the summary endpoint.
type SummaryResult struct {
	TotalTasks     int
	OpenTasks      int
	CompletedTasks int
	OverdueTasks   int
	TotalComments  int
	EntriesByType  map[string]int
}

// GetSummary retrieves overall task and activity counters.
func (r *TaskRepository) GetSummary(ctx context.Context) (*SummaryResult, error) {
	result := &SummaryResult{
		EntriesByType: make(map[string]int),
	}

	err := r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN NOT is_complete THEN 1 END),
			COUNT(CASE WHEN is_complete THEN 1 END),
			COUNT(CASE WHEN NOT is_complete AND due_date < NOW() THEN 1 END)
		FROM tasks
	`).Scan(&result.TotalTasks, &result.OpenTasks, &result.CompletedTasks, &result.OverdueTasks)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments`).Scan(&result.TotalComments)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT event_type, COUNT(*)
		FROM activity_log
		GROUP BY event_type
	`)
	if err != nil {
		return nil, fmt.Errorf("query entries by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventType domain.ActivityType
		var count int
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, fmt.Errorf("scan entry count: %w", err)
		}
		result.EntriesByType[eventType.String()] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entry count rows: %w", err)
	}

	return result, nil
}
