package workflow

import "workhub/internal/models"

// DeriveTaskStatus recomputes a task's status from its modules. It is the
// single source of truth for task status outside of draft: it must be
// re-applied after every module mutation and is idempotent.
//
// Precedence, first match wins:
//  1. all modules approved        -> review (completion stays an explicit call)
//  2. all submitted or approved   -> review
//  3. any in_progress/submitted/rejected -> in_progress
//  4. otherwise                   -> assigned
func DeriveTaskStatus(t models.Task) models.TaskStatus {
	if t.Status == models.TaskStatusDraft {
		return models.TaskStatusDraft
	}
	if t.Status == models.TaskStatusCompleted || t.Status == models.TaskStatusArchived {
		return t.Status
	}
	if len(t.Modules) == 0 {
		return t.Status
	}

	allApproved := true
	allSubmittedOrApproved := true
	anyActive := false
	for i := range t.Modules {
		switch t.Modules[i].Status {
		case models.ModuleStatusApproved:
			// counts toward both "all" rules, not toward "any active"
		case models.ModuleStatusSubmitted:
			allApproved = false
			anyActive = true
		case models.ModuleStatusInProgress, models.ModuleStatusRejected:
			allApproved = false
			allSubmittedOrApproved = false
			anyActive = true
		default: // pending
			allApproved = false
			allSubmittedOrApproved = false
		}
	}

	if allApproved {
		return models.TaskStatusReview
	}
	if allSubmittedOrApproved {
		return models.TaskStatusReview
	}
	if anyActive {
		return models.TaskStatusInProgress
	}
	return models.TaskStatusAssigned
}
