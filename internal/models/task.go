package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is one of the enumerated statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a to-do item owned by exactly one user. DueDate is a calendar
// date in YYYY-MM-DD form and is stored verbatim.
type Task struct {
	ID          string       `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"_id"`
	UserID      string       `gorm:"type:varchar(36);not null;index:idx_tasks_user_created,priority:1" bson:"userId" json:"userId"`
	Title       string       `gorm:"not null" bson:"title" json:"title"`
	Description string       `gorm:"type:text" bson:"description" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'not_started'" bson:"status" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" bson:"priority" json:"priority"`
	Category    string       `gorm:"type:varchar(255);not null;default:''" bson:"category" json:"category"`
	DueDate     *string      `gorm:"type:varchar(10)" bson:"dueDate" json:"dueDate"`
	CreatedAt   time.Time    `gorm:"index:idx_tasks_user_created,priority:2" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updatedAt" json:"updatedAt"`
}
