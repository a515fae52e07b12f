// Package workflow holds the pure task/module state machine: transition
// tables, operation validators and status derivation. No I/O happens here;
// every operation takes the current task, returns a fresh copy and leaves
// the input untouched.
package workflow

import (
	"fmt"
	"strings"
	"time"

	"workhub/internal/models"
)

// MinSubmissionNoteLen is the shortest accepted proof-of-work note.
const MinSubmissionNoteLen = 20

// AddModule appends a module to a draft task.
func AddModule(t models.Task, m models.Module) (models.Task, error) {
	if t.Status != models.TaskStatusDraft {
		return t, fmt.Errorf("%w: modules can only be added while the task is draft (status %s)", ErrValidation, t.Status)
	}
	if strings.TrimSpace(m.Title) == "" {
		return t, fmt.Errorf("%w: module title is required", ErrValidation)
	}
	if len(m.AssigneeIDs) == 0 {
		return t, fmt.Errorf("%w: module needs at least one assignee", ErrValidation)
	}
	out := t.Clone()
	m.Status = models.ModuleStatusPending
	m.RetryCount = 0
	out.Modules = append(out.Modules, m)
	return out, nil
}

// Publish moves a draft task with at least one module to assigned.
func Publish(t models.Task) (models.Task, error) {
	if t.Status != models.TaskStatusDraft {
		return t, taskTransitionError(t.Status, models.TaskStatusAssigned)
	}
	if len(t.Modules) == 0 {
		return t, fmt.Errorf("%w: cannot publish a task with no modules", ErrValidation)
	}
	out := t.Clone()
	out.Status = models.TaskStatusAssigned
	return out, nil
}

// StartModule moves a pending or rejected module to in_progress. Only an
// assignee may start work.
func StartModule(t models.Task, moduleID, userID string) (models.Task, models.Module, error) {
	idx := t.ModuleIndex(moduleID)
	if idx < 0 {
		return t, models.Module{}, ErrModuleNotFound
	}
	if !t.Modules[idx].HasAssignee(userID) {
		return t, models.Module{}, ErrNotAssignee
	}
	if !CanTransitionModule(t.Modules[idx].Status, models.ModuleStatusInProgress) {
		return t, models.Module{}, moduleTransitionError(t.Modules[idx].Status, models.ModuleStatusInProgress)
	}
	out := t.Clone()
	out.Modules[idx].Status = models.ModuleStatusInProgress
	out.Status = DeriveTaskStatus(out)
	return out, out.Modules[idx], nil
}

// SubmitModule records the assignee's proof of work and moves the module to
// submitted. A resubmission after rejection clears the stored reason but
// keeps the retry count.
func SubmitModule(t models.Task, moduleID, userID, note string, now time.Time) (models.Task, models.Module, error) {
	idx := t.ModuleIndex(moduleID)
	if idx < 0 {
		return t, models.Module{}, ErrModuleNotFound
	}
	if !t.Modules[idx].HasAssignee(userID) {
		return t, models.Module{}, ErrNotAssignee
	}
	if len(strings.TrimSpace(note)) < MinSubmissionNoteLen {
		return t, models.Module{}, fmt.Errorf("%w: proof of work is required (minimum %d characters)", ErrValidation, MinSubmissionNoteLen)
	}
	if !CanTransitionModule(t.Modules[idx].Status, models.ModuleStatusSubmitted) {
		return t, models.Module{}, moduleTransitionError(t.Modules[idx].Status, models.ModuleStatusSubmitted)
	}
	out := t.Clone()
	m := &out.Modules[idx]
	m.Status = models.ModuleStatusSubmitted
	m.SubmissionNote = strings.TrimSpace(note)
	m.SubmittedAt = &now
	m.RejectionReason = ""
	out.Status = DeriveTaskStatus(out)
	return out, *m, nil
}

// ApproveModule moves a submitted module to approved and records the reviewer.
func ApproveModule(t models.Task, moduleID, reviewerID string, now time.Time) (models.Task, models.Module, error) {
	idx := t.ModuleIndex(moduleID)
	if idx < 0 {
		return t, models.Module{}, ErrModuleNotFound
	}
	if !CanTransitionModule(t.Modules[idx].Status, models.ModuleStatusApproved) {
		return t, models.Module{}, moduleTransitionError(t.Modules[idx].Status, models.ModuleStatusApproved)
	}
	out := t.Clone()
	m := &out.Modules[idx]
	m.Status = models.ModuleStatusApproved
	m.ApprovedBy = reviewerID
	m.ApprovedAt = &now
	out.Status = DeriveTaskStatus(out)
	return out, *m, nil
}

// RejectModule moves a submitted module to rejected, stores the reason and
// bumps the retry count. No other module is touched.
func RejectModule(t models.Task, moduleID, reason string) (models.Task, models.Module, error) {
	idx := t.ModuleIndex(moduleID)
	if idx < 0 {
		return t, models.Module{}, ErrModuleNotFound
	}
	if strings.TrimSpace(reason) == "" {
		return t, models.Module{}, fmt.Errorf("%w: rejection reason is required", ErrValidation)
	}
	if !CanTransitionModule(t.Modules[idx].Status, models.ModuleStatusRejected) {
		return t, models.Module{}, moduleTransitionError(t.Modules[idx].Status, models.ModuleStatusRejected)
	}
	out := t.Clone()
	m := &out.Modules[idx]
	m.Status = models.ModuleStatusRejected
	m.RejectionReason = strings.TrimSpace(reason)
	m.RetryCount++
	out.Status = DeriveTaskStatus(out)
	return out, *m, nil
}

// ReassignModule replaces the module's assignee set. Status-neutral.
func ReassignModule(t models.Task, moduleID string, assigneeIDs []string) (models.Task, models.Module, error) {
	idx := t.ModuleIndex(moduleID)
	if idx < 0 {
		return t, models.Module{}, ErrModuleNotFound
	}
	if len(assigneeIDs) == 0 {
		return t, models.Module{}, fmt.Errorf("%w: module needs at least one assignee", ErrValidation)
	}
	out := t.Clone()
	ids := make([]string, len(assigneeIDs))
	copy(ids, assigneeIDs)
	out.Modules[idx].AssigneeIDs = ids
	return out, out.Modules[idx], nil
}

// CompleteTask moves a task in review to completed. Every module must be
// approved; approval alone never auto-completes a task.
func CompleteTask(t models.Task, completedBy string, now time.Time) (models.Task, error) {
	if !CanTransitionTask(t.Status, models.TaskStatusCompleted) {
		return t, taskTransitionError(t.Status, models.TaskStatusCompleted)
	}
	for i := range t.Modules {
		if t.Modules[i].Status != models.ModuleStatusApproved {
			return t, fmt.Errorf("%w: all modules must be approved before completing the task", ErrValidation)
		}
	}
	out := t.Clone()
	out.Status = models.TaskStatusCompleted
	out.CompletedAt = &now
	out.CompletedBy = completedBy
	return out, nil
}

// CancelTask archives a task. Legal from any status except completed and
// archived.
func CancelTask(t models.Task) (models.Task, error) {
	if t.Status == models.TaskStatusCompleted || t.Status == models.TaskStatusArchived {
		return t, taskTransitionError(t.Status, models.TaskStatusArchived)
	}
	out := t.Clone()
	out.Status = models.TaskStatusArchived
	return out, nil
}

// RemoveModulesAssignedTo strips every module listing userID as an assignee
// and re-derives the task status. Used by the termination cascade. The
// second return value reports how many modules were removed.
func RemoveModulesAssignedTo(t models.Task, userID string) (models.Task, int) {
	out := t.Clone()
	kept := out.Modules[:0]
	removed := 0
	for _, m := range out.Modules {
		if m.HasAssignee(userID) {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	out.Modules = kept
	if removed > 0 {
		out.Status = DeriveTaskStatus(out)
	}
	return out, removed
}
