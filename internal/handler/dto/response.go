package dto

import (
	"encoding/json"
	"time"

	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/repository"
)

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsComplete  bool       `json:"is_complete"`
	DueDate     *time.Time `json:"due_date"`
	CompletedAt *time.Time `json:"completed_at"`
	Priority    string     `json:"priority"`
	AssigneeID  *string    `json:"assignee_id"`
	TagIDs      []string   `json:"tag_ids"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ActivityEntryResponse represents a single activity log entry.
type ActivityEntryResponse struct {
	ID               int64     `json:"id"`
	TaskID           string    `json:"task_id"`
	ActorID          *string   `json:"actor_id"`
	Summary          string    `json:"summary"`
	Details          *string   `json:"details"`
	Type             string    `json:"type"`
	RelatedCommentID *string   `json:"related_comment_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// ActivityTimelineResponse represents the full timeline for a task.
type ActivityTimelineResponse struct {
	TaskID  string                  `json:"task_id"`
	Entries []ActivityEntryResponse `json:"entries"`
}

// ActivityPageResponse represents one page of a task's timeline.
type ActivityPageResponse struct {
	TaskID     string                  `json:"task_id"`
	Entries    []ActivityEntryResponse `json:"entries"`
	TotalCount int                     `json:"total_count"`
	Page       int                     `json:"page"`
	Size       int                     `json:"size"`
	TotalPages int                     `json:"total_pages"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID          string          `json:"id"`
	TaskID      string          `json:"task_id"`
	AuthorID    *string         `json:"author_id"`
	Content     string          `json:"content"`
	DisplayName *string         `json:"display_name"`
	IsSystem    bool            `json:"is_system"`
	Type        string          `json:"type"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   *time.Time      `json:"updated_at"`
}

// CommentResultResponse represents the outcome of creating a comment: the
// comment plus its correlated activity entry (null when suppressed).
type CommentResultResponse struct {
	Comment CommentResponse        `json:"comment"`
	Entry   *ActivityEntryResponse `json:"entry"`
}

// CommentsListResponse represents the response for GET /tasks/{id}/comments.
type CommentsListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// SummaryResponse represents workspace-level counters.
type SummaryResponse struct {
	TotalTasks     int            `json:"total_tasks"`
	OpenTasks      int            `json:"open_tasks"`
	CompletedTasks int            `json:"completed_tasks"`
	OverdueTasks   int            `json:"overdue_tasks"`
	TotalComments  int            `json:"total_comments"`
	EntriesByType  map[string]int `json:"entries_by_type"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		IsComplete:  task.IsComplete,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		Priority:    task.Priority.String(),
		AssigneeID:  task.AssigneeID,
		TagIDs:      task.TagIDs,
		Version:     task.Version,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToActivityEntryResponse converts domain.ActivityEntry to ActivityEntryResponse.
func ToActivityEntryResponse(entry *domain.ActivityEntry) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:               entry.ID,
		TaskID:           entry.TaskID,
		ActorID:          entry.ActorID,
		Summary:          entry.Summary,
		Details:          entry.Details,
		Type:             entry.Type.String(),
		RelatedCommentID: entry.RelatedCommentID,
		CreatedAt:        entry.CreatedAt,
	}
}

// ToActivityEntryResponses converts a slice of entries, preserving order.
func ToActivityEntryResponses(entries []*domain.ActivityEntry) []ActivityEntryResponse {
	responses := make([]ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToActivityEntryResponse(entry))
	}
	return responses
}

// ToCommentResponse converts domain.Comment to CommentResponse.
func ToCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		TaskID:      comment.TaskID,
		AuthorID:    comment.AuthorID,
		Content:     comment.Content,
		DisplayName: comment.DisplayName,
		IsSystem:    comment.IsSystem,
		Type:        comment.Type.String(),
		Metadata:    comment.Metadata,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}

// ToCommentResultResponse converts domain.CommentResult to CommentResultResponse.
func ToCommentResultResponse(result *domain.CommentResult) CommentResultResponse {
	response := CommentResultResponse{
		Comment: ToCommentResponse(result.Comment),
	}
	if result.Entry != nil {
		entry := ToActivityEntryResponse(result.Entry)
		response.Entry = &entry
	}
	return response
}

// ToSummaryResponse converts repository.SummaryResult to SummaryResponse.
func ToSummaryResponse(summary *repository.SummaryResult) SummaryResponse {
	return SummaryResponse{
		TotalTasks:     summary.TotalTasks,
		OpenTasks:      summary.OpenTasks,
		CompletedTasks: summary.CompletedTasks,
		OverdueTasks:   summary.OverdueTasks,
		TotalComments:  summary.TotalComments,
		EntriesByType:  summary.EntriesByType,
	}
}
