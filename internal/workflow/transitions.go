package workflow

import "workhub/internal/models"

// Legal status transitions. A status missing a target is terminal for that
// direction; completion and archival stay reachable only through the
// explicit CompleteTask/CancelTask operations.
var taskTransitions = map[models.TaskStatus]map[models.TaskStatus]bool{
	models.TaskStatusDraft:      {models.TaskStatusAssigned: true},
	models.TaskStatusAssigned:   {models.TaskStatusInProgress: true, models.TaskStatusDraft: true},
	models.TaskStatusInProgress: {models.TaskStatusReview: true},
	models.TaskStatusReview:     {models.TaskStatusCompleted: true, models.TaskStatusInProgress: true},
	models.TaskStatusCompleted:  {models.TaskStatusArchived: true},
	models.TaskStatusArchived:   {},
}

var moduleTransitions = map[models.ModuleStatus]map[models.ModuleStatus]bool{
	models.ModuleStatusPending:    {models.ModuleStatusInProgress: true},
	models.ModuleStatusInProgress: {models.ModuleStatusSubmitted: true},
	models.ModuleStatusSubmitted:  {models.ModuleStatusApproved: true, models.ModuleStatusRejected: true},
	models.ModuleStatusRejected:   {models.ModuleStatusInProgress: true},
	models.ModuleStatusApproved:   {},
}

// CanTransitionTask reports whether a task may move from current to target.
func CanTransitionTask(current, target models.TaskStatus) bool {
	nexts, ok := taskTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// CanTransitionModule reports whether a module may move from current to target.
func CanTransitionModule(current, target models.ModuleStatus) bool {
	nexts, ok := moduleTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}
