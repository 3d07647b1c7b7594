package model

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	gorm.Model
	Title    string       `json:"title" gorm:"not null"`
	Notes    string       `json:"notes" gorm:"type:text"`
	Status   TaskStatus   `json:"status" gorm:"not null;default:'open';index"`
	Priority TaskPriority `json:"priority" gorm:"not null;default:'normal'"`
	DueDate  *time.Time   `json:"due_date"`

	AssignedToID *uint `json:"assigned_to_id" gorm:"index"`
	CreatedByID  uint  `json:"created_by_id"`
	PropertyID   *uint `json:"property_id"` // optional link to a listing

	DoneAt *time.Time `json:"done_at"`

	// Relations
	AssignedTo *User     `json:"assigned_to" gorm:"foreignKey:AssignedToID"`
	CreatedBy  User      `json:"-" gorm:"foreignKey:CreatedByID"`
	Property   *Property `json:"-" gorm:"foreignKey:PropertyID"`
}

func (t *Task) IsOverdue() bool {
	return t.Status != TaskStatusDone && t.DueDate != nil && t.DueDate.Before(time.Now())
}
