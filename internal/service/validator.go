package service

import (
	"context"
	"fmt"

	"github.com/taskline/taskline/internal/domain"
	"github.com/taskline/taskline/internal/repository"
)

// Bounded field lengths. Inputs beyond these are rejected before any write.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxSummaryLength     = 255
	MaxDetailsLength     = 2000
	MaxContentLength     = 2000
	MaxDisplayNameLength = 100
	MaxMetadataBytes     = 4096
	MaxPageSize          = 100
)

// Validator handles structural validation for task and comment operations.
type Validator struct {
	tagRepo *repository.TagRepository
}

// NewValidator creates a new Validator.
func NewValidator(tagRepo *repository.TagRepository) *Validator {
	return &Validator{tagRepo: tagRepo}
}

// ValidateTask checks the bounded fields of a task before it is written.
func (v *Validator) ValidateTask(ctx context.Context, task *domain.Task) error {
	if task.Title == "" {
		return domain.ErrEmptyTitle
	}
	if len(task.Title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", domain.ErrTitleTooLong, len(task.Title), MaxTitleLength)
	}
	if len(task.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description %d > %d", domain.ErrDetailsTooLong, len(task.Description), MaxDescriptionLength)
	}
	if !task.Priority.IsValid() {
		return domain.ErrInvalidPriority
	}
	return v.checkTagRefs(ctx, task.TagIDs)
}

// ValidateComment checks the bounded fields of a comment before it is written.
func (v *Validator) ValidateComment(comment *domain.Comment) error {
	if comment.Content == "" {
		return domain.ErrEmptyContent
	}
	if len(comment.Content) > MaxContentLength {
		return fmt.Errorf("%w: %d > %d", domain.ErrContentTooLong, len(comment.Content), MaxContentLength)
	}
	if comment.DisplayName != nil && len(*comment.DisplayName) > MaxDisplayNameLength {
		return fmt.Errorf("%w: display name %d > %d", domain.ErrContentTooLong, len(*comment.DisplayName), MaxDisplayNameLength)
	}
	if len(comment.Metadata) > MaxMetadataBytes {
		return fmt.Errorf("%w: %d > %d", domain.ErrMetadataTooLarge, len(comment.Metadata), MaxMetadataBytes)
	}
	if !comment.Type.IsValid() {
		return domain.ErrInvalidEventType
	}
	return nil
}

// ValidateEntry checks the bounded fields of an activity entry.
func (v *Validator) ValidateEntry(entry *domain.ActivityEntry) error {
	if len(entry.Summary) > MaxSummaryLength {
		return fmt.Errorf("%w: %d > %d", domain.ErrSummaryTooLong, len(entry.Summary), MaxSummaryLength)
	}
	if entry.Details != nil && len(*entry.Details) > MaxDetailsLength {
		return fmt.Errorf("%w: %d > %d", domain.ErrDetailsTooLong, len(*entry.Details), MaxDetailsLength)
	}
	if !entry.Type.IsValid() {
		return domain.ErrInvalidEventType
	}
	return nil
}

// ValidatePaging checks 1-based page numbers and bounded page sizes.
func (v *Validator) ValidatePaging(page, size int) error {
	if page < 1 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidPage, page)
	}
	if size < 1 || size > MaxPageSize {
		return fmt.Errorf("%w: got %d, want 1..%d", domain.ErrInvalidPageSize, size, MaxPageSize)
	}
	return nil
}

// checkTagRefs verifies that every referenced tag exists.
func (v *Validator) checkTagRefs(ctx context.Context, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	count, err := v.tagRepo.CountByIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("check tag refs: %w", err)
	}
	if count != len(tagIDs) {
		return fmt.Errorf("%w: %d of %d tag ids unknown", domain.ErrTagNotFound, len(tagIDs)-count, len(tagIDs))
	}
	return nil
}
