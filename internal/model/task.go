package model

import "time"

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityNormal TaskPriority = "normal"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Task is a unit of work (cleaning, maintenance, inspection) against a target record.
type Task struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Type        string       `gorm:"size:64;not null" json:"type"`
	TargetID    string       `gorm:"size:36" json:"targetId"`
	Description string       `gorm:"size:1024" json:"description"`
	Assignee    string       `gorm:"size:128" json:"assignee"`
	Priority    TaskPriority `gorm:"size:16;not null;default:normal" json:"priority"`
	Status      TaskStatus   `gorm:"size:16;not null;index" json:"status"`
	DueDate     *time.Time   `json:"dueDate"`
	CompletedAt *time.Time   `json:"completedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	Versioned
}

func (t *Task) GetID() string { return t.ID }
