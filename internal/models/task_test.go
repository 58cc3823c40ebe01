package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsOverdue(t *testing.T) {
	today := date(2025, 6, 15)
	yesterday := date(2025, 6, 14)
	tomorrow := date(2025, 6, 16)

	assert.True(t, IsOverdue(&yesterday, TaskStatusTodo, today))
	assert.True(t, IsOverdue(&yesterday, TaskStatusInProgress, today))
	assert.False(t, IsOverdue(&yesterday, TaskStatusDone, today))
	assert.False(t, IsOverdue(&yesterday, TaskStatusCancelled, today))
	assert.False(t, IsOverdue(&tomorrow, TaskStatusTodo, today))
	assert.False(t, IsOverdue(&today, TaskStatusTodo, today))
	assert.False(t, IsOverdue(nil, TaskStatusTodo, today))
}

func TestDaysUntilDue(t *testing.T) {
	today := date(2025, 6, 15)

	in3 := date(2025, 6, 18)
	assert.Equal(t, 3, DaysUntilDue(&in3, today))

	past := date(2025, 6, 10)
	assert.Equal(t, -5, DaysUntilDue(&past, today))

	assert.Equal(t, 0, DaysUntilDue(&today, today))
	assert.Equal(t, 0, DaysUntilDue(nil, today))
}

func TestDefaultDueDate(t *testing.T) {
	today := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, date(2025, 6, 22), DefaultDueDate(today))
}

func TestValidateTaskProgress(t *testing.T) {
	assert.NoError(t, ValidateTaskProgress(0))
	assert.NoError(t, ValidateTaskProgress(100))
	assert.Error(t, ValidateTaskProgress(-1))
	assert.Error(t, ValidateTaskProgress(101))
}

func TestValidateTaskPriority(t *testing.T) {
	for p := 0; p <= 3; p++ {
		assert.NoError(t, ValidateTaskPriority(p))
	}
	assert.Error(t, ValidateTaskPriority(-1))
	assert.Error(t, ValidateTaskPriority(4))
}

func TestValidateTaskHours(t *testing.T) {
	assert.NoError(t, ValidateTaskHours(0, 0))
	assert.NoError(t, ValidateTaskHours(8.5, 2))
	assert.Error(t, ValidateTaskHours(-1, 0))
	assert.Error(t, ValidateTaskHours(0, -0.5))
}

func TestValidateTaskStatus(t *testing.T) {
	for status := range ValidTaskStatuses {
		assert.NoError(t, ValidateTaskStatus(status))
	}
	assert.Error(t, ValidateTaskStatus("paused"))
}
