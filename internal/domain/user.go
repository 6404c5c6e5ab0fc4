package domain

import "time"

// User represents a registered user of the task tracker.
type User struct {
	ID        string
	Name      string
	Email     string
	Token     string
	IsActive  bool
	CreatedAt time.Time
}
