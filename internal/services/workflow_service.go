package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workhub/internal/authz"
	"workhub/internal/logger"
	"workhub/internal/models"
	"workhub/internal/notify"
	"workhub/internal/repositories"
	"workhub/internal/workflow"
)

const (
	// maxTxRetries bounds the optimistic-conflict retry loop of one
	// read-modify-write operation.
	maxTxRetries = 3
	// approvalPoints is credited to each assignee when their module is
	// approved. Awards are never reversed.
	approvalPoints = 50
)

// WorkflowService is the transactional wrapper around the pure workflow
// engine: every operation loads the task document, runs the engine and
// writes the whole updated document back under a version guard.
type WorkflowService interface {
	CreateTask(ctx context.Context, creatorID, title, description string, priority models.TaskPriority, dueDate *time.Time) (*models.Task, error)
	AddModule(ctx context.Context, taskID, title, description string, dueDate *time.Time, assigneeIDs []string) (*models.Task, error)
	PublishTask(ctx context.Context, taskID string) (*models.Task, error)
	StartModule(ctx context.Context, taskID, moduleID, userID string) (*models.Task, error)
	SubmitModule(ctx context.Context, taskID, moduleID, userID, note string) (*models.Task, error)
	ApproveModule(ctx context.Context, taskID, moduleID, reviewerID string) (*models.Task, error)
	RejectModule(ctx context.Context, taskID, moduleID, reviewerID, reason string) (*models.Task, error)
	ReassignModule(ctx context.Context, taskID, moduleID string, assigneeIDs []string) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID, callerID string) (*models.Task, error)
	CancelTask(ctx context.Context, taskID string) (*models.Task, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	GetTasksForUser(ctx context.Context, userID string, roleID int) ([]models.Task, error)
}

type workflowService struct {
	tasks repositories.TaskRepository
	users repositories.UserRepository
	hub   *notify.Hub
}

func NewWorkflowService(tasks repositories.TaskRepository, users repositories.UserRepository, hub *notify.Hub) WorkflowService {
	return &workflowService{tasks: tasks, users: users, hub: hub}
}

func (s *workflowService) CreateTask(ctx context.Context, creatorID, title, description string, priority models.TaskPriority, dueDate *time.Time) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", workflow.ErrValidation)
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	now := time.Now()
	task := &models.Task{
		ID:          uuid.NewString(),
		CreatorID:   creatorID,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      models.TaskStatusDraft,
		DueDate:     dueDate,
		Modules:     []models.Module{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *workflowService) AddModule(ctx context.Context, taskID, title, description string, dueDate *time.Time, assigneeIDs []string) (*models.Task, error) {
	m := models.Module{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		AssigneeIDs: assigneeIDs,
		DueDate:     dueDate,
	}
	return s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		return workflow.AddModule(t, m)
	})
}

func (s *workflowService) PublishTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, workflow.Publish)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.TaskPublished, Task: task})
	return task, nil
}

func (s *workflowService) StartModule(ctx context.Context, taskID, moduleID, userID string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		next, _, err := workflow.StartModule(t, moduleID, userID)
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.ModuleStarted, Task: task, ModuleID: moduleID, ActorID: userID})
	return task, nil
}

func (s *workflowService) SubmitModule(ctx context.Context, taskID, moduleID, userID, note string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		next, _, err := workflow.SubmitModule(t, moduleID, userID, note, time.Now())
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.ModuleSubmitted, Task: task, ModuleID: moduleID, ActorID: userID})
	return task, nil
}

func (s *workflowService) ApproveModule(ctx context.Context, taskID, moduleID, reviewerID string) (*models.Task, error) {
	var approved models.Module
	task, err := s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		next, m, err := workflow.ApproveModule(t, moduleID, reviewerID, time.Now())
		approved = m
		return next, err
	})
	if err != nil {
		return nil, err
	}

	// Point awards ride on approval. The task update is already durable;
	// a failed award is logged and left to admin tooling rather than
	// rolling the approval back.
	for _, assignee := range approved.AssigneeIDs {
		if err := s.users.AddPoints(ctx, assignee, approvalPoints); err != nil {
			logger.Errorf("[workflow][approve] award %d points to %s: %v", approvalPoints, assignee, err)
		}
	}

	s.hub.Publish(notify.Event{Type: notify.ModuleApproved, Task: task, ModuleID: moduleID, ActorID: reviewerID})
	return task, nil
}

func (s *workflowService) RejectModule(ctx context.Context, taskID, moduleID, reviewerID, reason string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		next, _, err := workflow.RejectModule(t, moduleID, reason)
		return next, err
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.ModuleRejected, Task: task, ModuleID: moduleID, ActorID: reviewerID, Reason: reason})
	return task, nil
}

func (s *workflowService) ReassignModule(ctx context.Context, taskID, moduleID string, assigneeIDs []string) (*models.Task, error) {
	return s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		next, _, err := workflow.ReassignModule(t, moduleID, assigneeIDs)
		return next, err
	})
}

func (s *workflowService) CompleteTask(ctx context.Context, taskID, callerID string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, func(t models.Task) (models.Task, error) {
		return workflow.CompleteTask(t, callerID, time.Now())
	})
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.TaskCompleted, Task: task, ActorID: callerID})
	return task, nil
}

func (s *workflowService) CancelTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.mutate(ctx, taskID, workflow.CancelTask)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(notify.Event{Type: notify.TaskCancelled, Task: task})
	return task, nil
}

func (s *workflowService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, _, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, workflow.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// GetTasksForUser applies the read-side visibility rule: managerial roles
// see everything, contributors only see non-draft tasks that contain a
// module assigned to them.
func (s *workflowService) GetTasksForUser(ctx context.Context, userID string, roleID int) ([]models.Task, error) {
	if authz.IsManagerial(roleID) {
		return s.tasks.FindAll(ctx, models.TaskFilter{})
	}
	return s.tasks.FindByAssignee(ctx, userID)
}

// mutate is the one read-modify-write path for task documents: load the
// document with its version, apply the pure transform, write back guarded
// by that version. A lost race reloads and retries a bounded number of
// times before surfacing a conflict.
func (s *workflowService) mutate(ctx context.Context, taskID string, fn func(models.Task) (models.Task, error)) (*models.Task, error) {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		current, version, err := s.tasks.FindByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, workflow.ErrTaskNotFound
			}
			return nil, err
		}

		next, err := fn(*current)
		if err != nil {
			return nil, err
		}
		next.UpdatedAt = time.Now()

		err = s.tasks.UpdateVersioned(ctx, &next, version)
		if err == nil {
			return &next, nil
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, workflow.ErrTaskNotFound
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		logger.Warnf("[workflow][mutate] version conflict on task %s, attempt %d", taskID, attempt+1)
	}
	return nil, fmt.Errorf("%w: task %s: %v", workflow.ErrConflict, taskID, lastErr)
}
