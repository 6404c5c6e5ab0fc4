package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Not-found errors
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrEntryNotFound   = errors.New("activity entry not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrTagNotFound     = errors.New("tag not found")

	// Concurrency errors
	ErrStaleTask = errors.New("task was modified concurrently")

	// Auth errors
	ErrInvalidToken = errors.New("invalid authentication token")
	ErrUserInactive = errors.New("user is inactive")

	// Validation errors
	ErrEmptyTitle       = errors.New("title is required")
	ErrTitleTooLong     = errors.New("title exceeds maximum length")
	ErrEmptyContent     = errors.New("comment content is required")
	ErrContentTooLong   = errors.New("comment content exceeds maximum length")
	ErrSummaryTooLong   = errors.New("summary exceeds maximum length")
	ErrDetailsTooLong   = errors.New("details exceed maximum length")
	ErrMetadataTooLarge = errors.New("metadata payload exceeds maximum size")
	ErrInvalidPriority  = errors.New("invalid task priority")
	ErrInvalidEventType = errors.New("invalid event type")
	ErrInvalidPage      = errors.New("page number must be positive")
	ErrInvalidPageSize  = errors.New("page size is out of range")
)
