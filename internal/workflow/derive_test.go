package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workhub/internal/models"
)

func taskWithModules(status models.TaskStatus, moduleStatuses ...models.ModuleStatus) models.Task {
	t := models.Task{ID: "t1", Status: status}
	for i, ms := range moduleStatuses {
		t.Modules = append(t.Modules, models.Module{
			ID:          string(rune('a' + i)),
			Title:       "module",
			AssigneeIDs: []string{"u1"},
			Status:      ms,
		})
	}
	return t
}

func TestDeriveTaskStatus(t *testing.T) {
	cases := []struct {
		name string
		task models.Task
		want models.TaskStatus
	}{
		{
			name: "draft is sticky regardless of modules",
			task: taskWithModules(models.TaskStatusDraft, models.ModuleStatusApproved),
			want: models.TaskStatusDraft,
		},
		{
			name: "completed is terminal",
			task: taskWithModules(models.TaskStatusCompleted, models.ModuleStatusInProgress),
			want: models.TaskStatusCompleted,
		},
		{
			name: "archived is terminal",
			task: taskWithModules(models.TaskStatusArchived, models.ModuleStatusPending),
			want: models.TaskStatusArchived,
		},
		{
			name: "no modules keeps current status",
			task: taskWithModules(models.TaskStatusAssigned),
			want: models.TaskStatusAssigned,
		},
		{
			name: "all pending stays assigned",
			task: taskWithModules(models.TaskStatusAssigned, models.ModuleStatusPending, models.ModuleStatusPending),
			want: models.TaskStatusAssigned,
		},
		{
			name: "one in_progress pulls the task into in_progress",
			task: taskWithModules(models.TaskStatusAssigned, models.ModuleStatusPending, models.ModuleStatusInProgress),
			want: models.TaskStatusInProgress,
		},
		{
			name: "rejected counts as active work",
			task: taskWithModules(models.TaskStatusInProgress, models.ModuleStatusRejected, models.ModuleStatusApproved),
			want: models.TaskStatusInProgress,
		},
		{
			name: "approved plus pending falls back to assigned",
			task: taskWithModules(models.TaskStatusInProgress, models.ModuleStatusApproved, models.ModuleStatusPending),
			want: models.TaskStatusAssigned,
		},
		{
			name: "all submitted goes to review",
			task: taskWithModules(models.TaskStatusInProgress, models.ModuleStatusSubmitted, models.ModuleStatusSubmitted),
			want: models.TaskStatusReview,
		},
		{
			name: "submitted plus approved goes to review",
			task: taskWithModules(models.TaskStatusInProgress, models.ModuleStatusSubmitted, models.ModuleStatusApproved),
			want: models.TaskStatusReview,
		},
		{
			name: "all approved stays in review until explicit completion",
			task: taskWithModules(models.TaskStatusReview, models.ModuleStatusApproved, models.ModuleStatusApproved),
			want: models.TaskStatusReview,
		},
		{
			name: "submitted mixed with in_progress is still in_progress",
			task: taskWithModules(models.TaskStatusAssigned, models.ModuleStatusSubmitted, models.ModuleStatusInProgress),
			want: models.TaskStatusInProgress,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveTaskStatus(tc.task)
			assert.Equal(t, tc.want, got)
			// derivation is idempotent
			tc.task.Status = got
			assert.Equal(t, got, DeriveTaskStatus(tc.task))
		})
	}
}

func TestTaskTransitionTable(t *testing.T) {
	assert.True(t, CanTransitionTask(models.TaskStatusDraft, models.TaskStatusAssigned))
	assert.True(t, CanTransitionTask(models.TaskStatusAssigned, models.TaskStatusDraft))
	assert.True(t, CanTransitionTask(models.TaskStatusReview, models.TaskStatusCompleted))
	assert.True(t, CanTransitionTask(models.TaskStatusReview, models.TaskStatusInProgress))
	assert.True(t, CanTransitionTask(models.TaskStatusCompleted, models.TaskStatusArchived))

	assert.False(t, CanTransitionTask(models.TaskStatusDraft, models.TaskStatusCompleted))
	assert.False(t, CanTransitionTask(models.TaskStatusAssigned, models.TaskStatusCompleted))
	assert.False(t, CanTransitionTask(models.TaskStatusInProgress, models.TaskStatusCompleted))
	assert.False(t, CanTransitionTask(models.TaskStatusArchived, models.TaskStatusDraft))
	assert.False(t, CanTransitionTask(models.TaskStatusCompleted, models.TaskStatusReview))
}

func TestModuleTransitionTable(t *testing.T) {
	assert.True(t, CanTransitionModule(models.ModuleStatusPending, models.ModuleStatusInProgress))
	assert.True(t, CanTransitionModule(models.ModuleStatusInProgress, models.ModuleStatusSubmitted))
	assert.True(t, CanTransitionModule(models.ModuleStatusSubmitted, models.ModuleStatusApproved))
	assert.True(t, CanTransitionModule(models.ModuleStatusSubmitted, models.ModuleStatusRejected))
	assert.True(t, CanTransitionModule(models.ModuleStatusRejected, models.ModuleStatusInProgress))

	assert.False(t, CanTransitionModule(models.ModuleStatusPending, models.ModuleStatusSubmitted))
	assert.False(t, CanTransitionModule(models.ModuleStatusPending, models.ModuleStatusApproved))
	assert.False(t, CanTransitionModule(models.ModuleStatusApproved, models.ModuleStatusInProgress))
	assert.False(t, CanTransitionModule(models.ModuleStatusApproved, models.ModuleStatusRejected))
	assert.False(t, CanTransitionModule(models.ModuleStatusRejected, models.ModuleStatusSubmitted))
}
