package domain

import "time"

// Todo represents a single task owned by exactly one user.
// CompletedAt is nil while the task is outstanding and holds the
// completion time once it has been marked done.
type Todo struct {
	ID          int64
	OwnerID     int64
	Title       string
	Memo        string
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Completed reports whether the todo has been marked done.
func (t *Todo) Completed() bool {
	return t.CompletedAt != nil
}
