package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"trainingapi/internal/models"
	"trainingapi/internal/storage"
)

const (
	defaultTaskPageSize = 20
	dueDateLayout       = "2006-01-02"
)

func serializeTask(t *models.Task) gin.H {
	now := time.Now().UTC()

	var assignee any
	if t.AssignedTo != nil {
		assignee = gin.H{"id": *t.AssignedTo, "name": t.AssignedToName}
	}

	return gin.H{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"assigned_to": assignee,
		"created_by": gin.H{
			"id":   t.CreatedBy,
			"name": t.CreatedByName,
		},
		"project_name":    t.ProjectName,
		"status":          t.Status,
		"priority":        t.Priority,
		"due_date":        formatDate(t.DueDate),
		"completed_date":  formatTime(t.CompletedDate),
		"is_overdue":      models.IsOverdue(t.DueDate, t.Status, now),
		"days_until_due":  models.DaysUntilDue(t.DueDate, now),
		"estimated_hours": t.EstimatedHours,
		"actual_hours":    t.ActualHours,
		"progress":        t.Progress,
	}
}

func serializeTasks(tasks []models.Task) []gin.H {
	out := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		out = append(out, serializeTask(&tasks[i]))
	}
	return out
}

// handleListTasks returns a filtered, paginated task listing.
func (s *Server) handleListTasks(c *gin.Context) {
	page, err := parsePagination(c, defaultTaskPageSize)
	if err != nil {
		s.handleError(c, err)
		return
	}

	var filter storage.TaskFilter
	filter.Status = c.Query("status")
	filter.Project = c.Query("project")
	if raw := c.Query("priority"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "Invalid parameter: priority")
			return
		}
		filter.Priority = &p
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "Invalid parameter: assigned_to")
			return
		}
		filter.AssignedTo = &id
	}
	if raw := c.Query("overdue"); raw != "" {
		overdue := strings.EqualFold(raw, "true")
		filter.Overdue = &overdue
	}

	tasks, total, err := s.store.ListTasks(c.Request.Context(), filter, page)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"tasks":      serializeTasks(tasks),
		"pagination": paginationMeta(page, total),
	})
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"task": serializeTask(task)})
}

type createTaskRequest struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	AssignedTo     *int64   `json:"assigned_to"`
	ProjectName    string   `json:"project_name"`
	Status         *string  `json:"status"`
	Priority       *int     `json:"priority"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

// handleCreateTask creates a task recorded against the acting user.
// Tasks without a due date fall due a week from today.
func (s *Server) handleCreateTask(c *gin.Context) {
	actorID, actorName := actingUser(c)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := models.ValidateTaskName(req.Name); err != nil {
		s.handleError(c, err)
		return
	}

	task := &models.Task{
		Name:          req.Name,
		Description:   req.Description,
		ProjectName:   req.ProjectName,
		CreatedBy:     actorID,
		CreatedByName: actorName,
		Status:        models.TaskStatusTodo,
		Priority:      1,
	}

	if req.Status != nil {
		if err := models.ValidateTaskStatus(*req.Status); err != nil {
			s.handleError(c, err)
			return
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if err := models.ValidateTaskPriority(*req.Priority); err != nil {
			s.handleError(c, err)
			return
		}
		task.Priority = *req.Priority
	}
	if req.EstimatedHours != nil {
		if err := models.ValidateTaskHours(*req.EstimatedHours, 0); err != nil {
			s.handleError(c, err)
			return
		}
		task.EstimatedHours = *req.EstimatedHours
	}
	if req.AssignedTo != nil {
		assignee, err := s.store.GetUser(c.Request.Context(), *req.AssignedTo)
		if err != nil {
			s.handleError(c, err)
			return
		}
		task.AssignedTo = &assignee.ID
		task.AssignedToName = assignee.Name
	}

	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "Invalid due date format. Use YYYY-MM-DD")
			return
		}
		task.DueDate = &due
	} else {
		due := models.DefaultDueDate(time.Now().UTC())
		task.DueDate = &due
	}

	if err := s.store.CreateTask(c.Request.Context(), task); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{
		"task":    serializeTask(task),
		"message": "Task created successfully",
	})
}

type updateTaskRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	AssignedTo     *int64   `json:"assigned_to"`
	ProjectName    *string  `json:"project_name"`
	Status         *string  `json:"status"`
	Priority       *int     `json:"priority"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	ActualHours    *float64 `json:"actual_hours"`
	Progress       *int     `json:"progress"`
}

// handleUpdateTask applies a partial update. Setting status to done
// without an explicit progress completes the task at 100%; back to todo
// resets progress to zero.
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		if err := models.ValidateTaskName(*req.Name); err != nil {
			s.handleError(c, err)
			return
		}
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.ProjectName != nil {
		task.ProjectName = *req.ProjectName
	}
	if req.AssignedTo != nil {
		assignee, err := s.store.GetUser(c.Request.Context(), *req.AssignedTo)
		if err != nil {
			s.handleError(c, err)
			return
		}
		task.AssignedTo = &assignee.ID
		task.AssignedToName = assignee.Name
	}
	if req.Priority != nil {
		if err := models.ValidateTaskPriority(*req.Priority); err != nil {
			s.handleError(c, err)
			return
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		due, err := time.Parse(dueDateLayout, *req.DueDate)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "Invalid due date format. Use YYYY-MM-DD")
			return
		}
		task.DueDate = &due
	}
	if req.EstimatedHours != nil || req.ActualHours != nil {
		if req.EstimatedHours != nil {
			task.EstimatedHours = *req.EstimatedHours
		}
		if req.ActualHours != nil {
			task.ActualHours = *req.ActualHours
		}
		if err := models.ValidateTaskHours(task.EstimatedHours, task.ActualHours); err != nil {
			s.handleError(c, err)
			return
		}
	}
	if req.Progress != nil {
		if err := models.ValidateTaskProgress(*req.Progress); err != nil {
			s.handleError(c, err)
			return
		}
		task.Progress = *req.Progress
	}
	if req.Status != nil {
		if err := models.ValidateTaskStatus(*req.Status); err != nil {
			s.handleError(c, err)
			return
		}
		task.Status = *req.Status
		switch {
		case *req.Status == models.TaskStatusDone && req.Progress == nil:
			now := time.Now().UTC()
			task.Progress = 100
			task.CompletedDate = &now
		case *req.Status == models.TaskStatusTodo && req.Progress == nil:
			task.Progress = 0
		}
	}

	if err := s.store.SaveTask(c.Request.Context(), task); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"task":    serializeTask(task),
		"message": "Task updated successfully",
	})
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// withTask loads a task, applies the mutation and saves it back.
func (s *Server) withTask(c *gin.Context, message string, mutate func(*models.Task)) {
	id, ok := s.parseID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(c.Request.Context(), id)
	if err != nil {
		s.handleError(c, err)
		return
	}

	mutate(task)

	if err := s.store.SaveTask(c.Request.Context(), task); err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"task":    serializeTask(task),
		"message": message,
	})
}

// handleStartTask moves a task into progress.
func (s *Server) handleStartTask(c *gin.Context) {
	s.withTask(c, "Task started successfully", func(t *models.Task) {
		t.Status = models.TaskStatusInProgress
	})
}

// handleCompleteTask marks a task done at full progress.
func (s *Server) handleCompleteTask(c *gin.Context) {
	s.withTask(c, "Task completed successfully", func(t *models.Task) {
		now := time.Now().UTC()
		t.Status = models.TaskStatusDone
		t.Progress = 100
		t.CompletedDate = &now
	})
}

// handleCancelTask cancels a task.
func (s *Server) handleCancelTask(c *gin.Context) {
	s.withTask(c, "Task cancelled successfully", func(t *models.Task) {
		t.Status = models.TaskStatusCancelled
	})
}

// handleReopenTask returns a finished task to the todo column.
func (s *Server) handleReopenTask(c *gin.Context) {
	s.withTask(c, "Task reopened successfully", func(t *models.Task) {
		t.Status = models.TaskStatusTodo
		t.Progress = 0
		t.CompletedDate = nil
	})
}

// handleMyTasks lists tasks assigned to the acting user.
func (s *Server) handleMyTasks(c *gin.Context) {
	actorID, _ := actingUser(c)

	filter := storage.TaskFilter{AssignedTo: &actorID, Status: c.Query("status")}
	tasks, err := s.store.FindTasks(c.Request.Context(), filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"tasks": serializeTasks(tasks),
		"count": len(tasks),
	})
}

// handleOverdueTasks lists all overdue tasks.
func (s *Server) handleOverdueTasks(c *gin.Context) {
	overdue := true
	tasks, err := s.store.FindTasks(c.Request.Context(), storage.TaskFilter{Overdue: &overdue})
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"tasks": serializeTasks(tasks),
		"count": len(tasks),
	})
}

// handleTaskStats aggregates task counts.
func (s *Server) handleTaskStats(c *gin.Context) {
	actorID, _ := actingUser(c)

	stats, err := s.store.GetTaskStats(c.Request.Context(), actorID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respondData(c, http.StatusOK, stats)
}
