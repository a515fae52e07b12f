package services

import (
	"context"
	"errors"
	"fmt"

	"workhub/internal/authz"
	"workhub/internal/logger"
	"workhub/internal/notify"
	"workhub/internal/repositories"
	"workhub/internal/workflow"
)

// IdentityDeleter removes a user from an external identity store. Failures
// there are best-effort: they must never block document cleanup.
type IdentityDeleter interface {
	DeleteIdentity(ctx context.Context, userID string) error
}

// TerminationService runs the full removal cascade for a user: tasks and
// modules referencing them, ratings in both directions, skill records, and
// finally the user row itself, followed by a recompute pass for every user
// whose rating input set shrank.
type TerminationService interface {
	TerminateUser(ctx context.Context, callerID, targetID string) error
}

type terminationService struct {
	users    repositories.UserRepository
	tasks    repositories.TaskRepository
	ratings  repositories.RatingRepository
	skills   repositories.SkillRepository
	scoring  RatingService
	identity IdentityDeleter // optional
	hub      *notify.Hub
}

func NewTerminationService(
	users repositories.UserRepository,
	tasks repositories.TaskRepository,
	ratings repositories.RatingRepository,
	skills repositories.SkillRepository,
	scoring RatingService,
	identity IdentityDeleter,
	hub *notify.Hub,
) TerminationService {
	return &terminationService{
		users:    users,
		tasks:    tasks,
		ratings:  ratings,
		skills:   skills,
		scoring:  scoring,
		identity: identity,
		hub:      hub,
	}
}

func (s *terminationService) TerminateUser(ctx context.Context, callerID, targetID string) error {
	// Preconditions, all checked before any mutation.
	if targetID == callerID {
		return fmt.Errorf("%w: cannot terminate yourself", workflow.ErrForbidden)
	}
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("load caller: %w", err)
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("target user: %w", err)
		}
		return fmt.Errorf("load target: %w", err)
	}
	if !authz.CanTerminate(caller.RoleID, target.RoleID) {
		return fmt.Errorf("%w: role tier %d may not terminate tier %d", workflow.ErrForbidden, caller.RoleID, target.RoleID)
	}

	logger.Infof("[terminate] user=%s by=%s role=%d", targetID, callerID, target.RoleID)

	// Identity store first, best-effort. A failure is logged; profile
	// cleanup proceeds regardless so no orphaned profile survives a
	// half-deleted identity.
	if s.identity != nil {
		if err := s.identity.DeleteIdentity(ctx, targetID); err != nil {
			logger.Warnf("[terminate] identity delete for %s: %v", targetID, err)
		}
	}

	// Ordered delete sequence. Each step is idempotent, so a partial
	// failure is surfaced and the whole termination can simply be retried.
	if err := s.cleanTasks(ctx, targetID); err != nil {
		return fmt.Errorf("terminate %s: task cleanup: %w", targetID, err)
	}

	if err := s.ratings.DeleteByRated(ctx, targetID); err != nil {
		return fmt.Errorf("terminate %s: delete received ratings: %w", targetID, err)
	}
	affected, err := s.ratings.DeleteByRater(ctx, targetID)
	if err != nil {
		return fmt.Errorf("terminate %s: delete given ratings: %w", targetID, err)
	}

	if err := s.skills.DeleteByOwner(ctx, targetID); err != nil {
		return fmt.Errorf("terminate %s: delete owned skills: %w", targetID, err)
	}
	if err := s.skills.DeleteByValidator(ctx, targetID); err != nil {
		return fmt.Errorf("terminate %s: delete validated skills: %w", targetID, err)
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return fmt.Errorf("terminate %s: delete user: %w", targetID, err)
	}

	// Recompute pass. Runs only after the deletes are durable, so each
	// aggregate is rebuilt from the post-deletion record set.
	for _, userID := range affected {
		if userID == targetID {
			continue
		}
		score, count, err := s.scoring.Recompute(ctx, userID)
		if err != nil {
			return fmt.Errorf("terminate %s: recompute rating for %s: %w", targetID, userID, err)
		}
		logger.Infof("[terminate] recomputed rating for %s: score=%.2f count=%d", userID, score, count)
	}

	s.hub.Publish(notify.Event{Type: notify.UserTerminated, ActorID: callerID, Reason: targetID})
	return nil
}

// cleanTasks removes the target from the task collection. Tasks the target
// created or completed are deleted whole; other tasks lose only the modules
// assigned to the target, get their status re-derived, and are deleted when
// no modules remain.
func (s *terminationService) cleanTasks(ctx context.Context, targetID string) error {
	tasks, err := s.tasks.FindByParticipant(ctx, targetID)
	if err != nil {
		return err
	}
	for i := range tasks {
		t := tasks[i]
		if t.CreatorID == targetID || t.CompletedBy == targetID {
			if err := s.tasks.Delete(ctx, t.ID); err != nil {
				return fmt.Errorf("delete task %s: %w", t.ID, err)
			}
			continue
		}

		stripped, removed := workflow.RemoveModulesAssignedTo(t, targetID)
		if removed == 0 {
			continue
		}
		if len(stripped.Modules) == 0 {
			if err := s.tasks.Delete(ctx, t.ID); err != nil {
				return fmt.Errorf("delete emptied task %s: %w", t.ID, err)
			}
			continue
		}
		if err := s.updateStripped(ctx, stripped.ID, targetID); err != nil {
			return err
		}
	}
	return nil
}

// updateStripped re-runs the module strip inside the versioned write loop so
// a concurrent workflow mutation cannot be clobbered.
func (s *terminationService) updateStripped(ctx context.Context, taskID, targetID string) error {
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		current, version, err := s.tasks.FindByID(ctx, taskID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil // already gone, fine
			}
			return err
		}
		next, removed := workflow.RemoveModulesAssignedTo(*current, targetID)
		if removed == 0 {
			return nil
		}
		if len(next.Modules) == 0 {
			return s.tasks.Delete(ctx, taskID)
		}
		err = s.tasks.UpdateVersioned(ctx, &next, version)
		if err == nil {
			return nil
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: task %s during cascade", workflow.ErrConflict, taskID)
}
