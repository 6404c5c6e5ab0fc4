package domain

import (
	"encoding/json"
	"time"
)

// Comment represents a user-visible comment on a task.
type Comment struct {
	ID          string
	TaskID      string
	AuthorID    *string // nil for system comments without an author
	Content     string
	DisplayName *string
	IsSystem    bool
	Type        ActivityType // defaults to ActivityCommentCreated
	Metadata    json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// CommentResult is the outcome of creating a comment: the comment itself and
// its correlated activity entry. Entry is nil when correlation was suppressed.
type CommentResult struct {
	Comment *Comment
	Entry   *ActivityEntry
}
