package models

import (
	"time"
)

// TaskStatus governs which list view a task appears in.
// 모든 상태는 서로 전환 가능하다 (terminal 상태 없음).
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusSuccess TaskStatus = "success"
	TaskStatusRetry   TaskStatus = "retry"
	TaskStatusArchive TaskStatus = "archive"
)

// Valid reports whether s is one of the four known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusSuccess, TaskStatusRetry, TaskStatusArchive:
		return true
	}
	return false
}

// TaskPriority is the user-assigned importance of a task.
type TaskPriority string

const (
	TaskPriorityMust   TaskPriority = "must"
	TaskPriorityShould TaskPriority = "should"
	TaskPriorityRemind TaskPriority = "remind"
)

// Valid reports whether p is one of the three known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityMust, TaskPriorityShould, TaskPriorityRemind:
		return true
	}
	return false
}

// DateLayout is the wire and storage form of a task date (calendar date,
// no time component).
const DateLayout = "2006-01-02"

// Task represents the tasks table. JSON keys are camelCase to stay
// wire-compatible with the existing frontend client.
// DB: tasks
type Task struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	UserID     uint         `gorm:"column:user_id;not null;index:tasks_user_id_date_idx,priority:1" json:"-"`
	Title      string       `gorm:"column:title;size:255;not null" json:"title"`
	Priority   TaskPriority `gorm:"column:priority;size:10;not null" json:"priority"`
	Date       string       `gorm:"column:date;size:10;not null;index:tasks_user_id_date_idx,priority:2" json:"date"`
	Status     TaskStatus   `gorm:"column:status;size:10;not null;default:pending" json:"status"`
	RetryCount int          `gorm:"column:retry_count;not null;default:0" json:"retryCount"`
	CreatedAt  time.Time    `gorm:"column:created_at;not null" json:"createdAt"`
	UpdatedAt  *time.Time   `gorm:"column:updated_at" json:"updatedAt,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
