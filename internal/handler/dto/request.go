package dto

import "encoding/json"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"` // RFC 3339
	AssigneeID  *string  `json:"assignee_id,omitempty"`
	TagIDs      []string `json:"tag_ids,omitempty"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// Omitted fields are left untouched; the clear flags reset nullable fields.
type UpdateTaskRequest struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Priority      *string  `json:"priority,omitempty"`
	DueDate       *string  `json:"due_date,omitempty"`
	ClearDueDate  bool     `json:"clear_due_date,omitempty"`
	AssigneeID    *string  `json:"assignee_id,omitempty"`
	ClearAssignee bool     `json:"clear_assignee,omitempty"`
	TagIDs        []string `json:"tag_ids,omitempty"`
	IsComplete    *bool    `json:"is_complete,omitempty"`
}

// SetCompletionRequest represents the request body for POST /tasks/{id}/complete.
type SetCompletionRequest struct {
	IsComplete bool `json:"is_complete"`
}

// CreateCommentRequest represents the request body for POST /tasks/{id}/comments.
type CreateCommentRequest struct {
	Content          string          `json:"content"`
	DisplayName      *string         `json:"display_name,omitempty"`
	Metadata         json.RawMessage `json:"metadata,omitempty"`
	SuppressActivity bool            `json:"suppress_activity,omitempty"`
}

// UpdateCommentRequest represents the request body for PATCH /comments/{id}.
type UpdateCommentRequest struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}
