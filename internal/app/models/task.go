package models

import "time"

// TaskBucket groups tasks by due date relative to today
type TaskBucket string

const (
	TaskBucketToday   TaskBucket = "today"
	TaskBucketFuture  TaskBucket = "future"
	TaskBucketOverdue TaskBucket = "overdue"
)

// Task is owned by one user and created by another (or the same) user
type Task struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Info      string    `json:"info" db:"info"`
	DueDate   time.Time `json:"dueDate" db:"due_date"` // calendar date, time of day ignored
	Done      bool      `json:"done" db:"done"`
	OwnerID   int64     `json:"ownerId" db:"owner_id"`
	CreatorID int64     `json:"creatorId" db:"creator_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Owner   *User `json:"owner,omitempty"`
	Creator *User `json:"creator,omitempty"`
}

// VisibleTo reports whether userID owns or created the task
func (t *Task) VisibleTo(userID int64) bool {
	return t.OwnerID == userID || t.CreatorID == userID
}

// IsAssigned reports whether the task was created for someone else
func (t *Task) IsAssigned() bool {
	return t.OwnerID != t.CreatorID
}

// Bucket compares the due date with today. Only the year, month and day of
// each value are used, each read in its own location.
func (t *Task) Bucket(today time.Time) TaskBucket {
	due, now := dateKey(t.DueDate), dateKey(today)
	switch {
	case due == now:
		return TaskBucketToday
	case due > now:
		return TaskBucketFuture
	default:
		return TaskBucketOverdue
	}
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
