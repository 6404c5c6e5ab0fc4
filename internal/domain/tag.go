package domain

import "time"

// Tag represents a label that can be attached to tasks.
type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}
