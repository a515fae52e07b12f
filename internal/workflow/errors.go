package workflow

import (
	"errors"
	"fmt"

	"workhub/internal/models"
)

// Failure classes. Callers match with errors.Is; the HTTP layer maps each
// class to a status code.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrModuleNotFound    = errors.New("module not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAssignee       = errors.New("user is not assigned to this module")
	ErrForbidden         = errors.New("operation not permitted")
	ErrConflict          = errors.New("concurrent update conflict")
)

func taskTransitionError(from, to models.TaskStatus) error {
	return fmt.Errorf("%w: task %s -> %s", ErrInvalidTransition, from, to)
}

func moduleTransitionError(from, to models.ModuleStatus) error {
	return fmt.Errorf("%w: module %s -> %s", ErrInvalidTransition, from, to)
}
