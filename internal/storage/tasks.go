package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"trainingapi/internal/models"
)

// TaskFilter restricts a task listing. Zero values mean "no restriction".
type TaskFilter struct {
	Status     string
	Priority   *int
	AssignedTo *int64
	Project    string
	Overdue    *bool
}

const taskOrder = "priority DESC, due_date ASC, id DESC"

func (s *Store) taskQuery(ctx context.Context, f TaskFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Task{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.Project != "" {
		q = q.Where("project_name LIKE ?", "%"+f.Project+"%")
	}
	if f.Overdue != nil {
		q = overdueClause(q, *f.Overdue)
	}
	return q
}

// overdueClause translates the derived overdue flag into a query on the
// stored fields.
func overdueClause(q *gorm.DB, overdue bool) *gorm.DB {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	active := []string{models.TaskStatusDone, models.TaskStatusCancelled}
	if overdue {
		return q.Where("due_date < ? AND status NOT IN ?", today, active)
	}
	return q.Where("due_date >= ? OR due_date IS NULL OR status IN ?", today, active)
}

// ListTasks returns one page of tasks matching the filter along with the
// total match count.
func (s *Store) ListTasks(ctx context.Context, f TaskFilter, page Page) ([]models.Task, int64, error) {
	q := s.taskQuery(ctx, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []models.Task
	if err := q.Order(taskOrder).Offset(page.Offset()).Limit(page.Limit).Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, total, nil
}

// FindTasks returns all tasks matching the filter without pagination.
func (s *Store) FindTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.taskQuery(ctx, f).Order(taskOrder).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// CountTasks counts tasks matching the filter.
func (s *Store) CountTasks(ctx context.Context, f TaskFilter) (int64, error) {
	var n int64
	if err := s.taskQuery(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// GetTask fetches a single task by id.
func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &task, nil
}

// CreateTask persists a new task.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// SaveTask writes back all fields of an already loaded task.
func (s *Store) SaveTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountTasksAssigned counts tasks assigned to a user.
func (s *Store) CountTasksAssigned(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("assigned_to = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// TaskStats aggregates task counts for the stats endpoint.
type TaskStats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
	Overdue    int64            `json:"overdue"`
	MyTasks    int64            `json:"my_tasks"`
}

// GetTaskStats collects totals per status, per priority, overdue tasks and
// the number of tasks assigned to the given user.
func (s *Store) GetTaskStats(ctx context.Context, userID int64) (*TaskStats, error) {
	stats := &TaskStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	var err error
	if stats.Total, err = s.CountTasks(ctx, TaskFilter{}); err != nil {
		return nil, err
	}
	for status := range models.ValidTaskStatuses {
		if stats.ByStatus[status], err = s.CountTasks(ctx, TaskFilter{Status: status}); err != nil {
			return nil, err
		}
	}
	for level, name := range models.TaskPriorityNames {
		p := level
		if stats.ByPriority[name], err = s.CountTasks(ctx, TaskFilter{Priority: &p}); err != nil {
			return nil, err
		}
	}
	overdue := true
	if stats.Overdue, err = s.CountTasks(ctx, TaskFilter{Overdue: &overdue}); err != nil {
		return nil, err
	}
	if stats.MyTasks, err = s.CountTasksAssigned(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}
