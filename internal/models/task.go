package models

import (
	"strings"
	"time"
)

// Task is a unit of work, optionally assigned to a user.
type Task struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Description    string     `json:"description"`
	AssignedTo     *int64     `gorm:"index" json:"assigned_to"`
	AssignedToName string     `gorm:"size:255" json:"assigned_to_name"`
	CreatedBy      int64      `gorm:"index" json:"created_by"`
	CreatedByName  string     `gorm:"size:255" json:"created_by_name"`
	ProjectName    string     `gorm:"size:255" json:"project_name"`
	Status         string     `gorm:"size:16;index;default:todo" json:"status"`
	Priority       int        `gorm:"default:1" json:"priority"`
	DueDate        *time.Time `json:"due_date"`
	CompletedDate  *time.Time `json:"completed_date"`
	EstimatedHours float64    `json:"estimated_hours"`
	ActualHours    float64    `json:"actual_hours"`
	Progress       int        `json:"progress"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the table name for Task.
func (Task) TableName() string {
	return "tasks"
}

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusReview     = "review"
	TaskStatusDone       = "done"
	TaskStatusCancelled  = "cancelled"
)

// ValidTaskStatuses enumerates the allowed task lifecycle states.
var ValidTaskStatuses = map[string]struct{}{
	TaskStatusTodo:       {},
	TaskStatusInProgress: {},
	TaskStatusReview:     {},
	TaskStatusDone:       {},
	TaskStatusCancelled:  {},
}

// ValidateTaskName rejects empty task names.
func ValidateTaskName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Validationf("Task name is required")
	}
	return nil
}

// ValidateTaskStatus rejects unknown lifecycle states.
func ValidateTaskStatus(status string) error {
	if _, ok := ValidTaskStatuses[status]; !ok {
		return Validationf("Invalid status: %s", status)
	}
	return nil
}

// ValidateTaskPriority rejects priorities outside 0 (low) .. 3 (urgent).
func ValidateTaskPriority(priority int) error {
	if priority < 0 || priority > 3 {
		return Validationf("Priority must be between 0 and 3")
	}
	return nil
}

// ValidateTaskProgress rejects progress outside the 0..100 range.
func ValidateTaskProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return Validationf("Progress must be between 0 and 100")
	}
	return nil
}

// ValidateTaskHours rejects negative hour estimates.
func ValidateTaskHours(estimated, actual float64) error {
	if estimated < 0 || actual < 0 {
		return Validationf("Hours cannot be negative")
	}
	return nil
}

// IsOverdue reports whether a task with the given due date and status has
// slipped past its deadline. Done and cancelled tasks are never overdue.
func IsOverdue(due *time.Time, status string, today time.Time) bool {
	if due == nil {
		return false
	}
	if status == TaskStatusDone || status == TaskStatusCancelled {
		return false
	}
	return dateOf(*due).Before(dateOf(today))
}

// DaysUntilDue returns whole days between today and the due date, negative
// when the date has passed and zero when no due date is set.
func DaysUntilDue(due *time.Time, today time.Time) int {
	if due == nil {
		return 0
	}
	return int(dateOf(*due).Sub(dateOf(today)).Hours() / 24)
}

// DefaultDueDate is the due date applied when a task is created without
// one: a week from today.
func DefaultDueDate(today time.Time) time.Time {
	return dateOf(today).AddDate(0, 0, 7)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TaskPriorityNames maps priority levels to their display names, used by
// the stats endpoint.
var TaskPriorityNames = map[int]string{
	0: "low",
	1: "normal",
	2: "high",
	3: "urgent",
}
