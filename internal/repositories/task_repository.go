package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"workhub/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when a versioned update lost the race:
	// the document changed since it was read.
	ErrVersionConflict = errors.New("version conflict")
)

// TaskRepository stores each task as one document row: the full task
// (modules embedded) marshalled into a jsonb column, plus a version counter
// for optimistic concurrency. Status and creator are mirrored into columns
// for filtering.
type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, int64, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	FindByAssignee(ctx context.Context, userID string) ([]models.Task, error)
	FindByParticipant(ctx context.Context, userID string) ([]models.Task, error)
	UpdateVersioned(ctx context.Context, task *models.Task, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO tasks (id, creator_id, status, doc, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		task.ID, task.CreatorID, task.Status, doc, task.CreatedAt, task.UpdatedAt,
	)
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, int64, error) {
	var (
		doc     []byte
		version int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT doc, version FROM tasks WHERE id = $1`, id,
	).Scan(&doc, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	task := &models.Task{}
	if err := json.Unmarshal(doc, task); err != nil {
		return nil, 0, fmt.Errorf("decode task %s: %w", id, err)
	}
	return task, version, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := `SELECT doc FROM tasks`

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.CreatorID != nil {
		conditions = append(conditions, fmt.Sprintf("creator_id = $%d", argID))
		args = append(args, *filter.CreatorID)
		argID++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf(
			`EXISTS (SELECT 1 FROM jsonb_array_elements(doc->'modules') AS m
			 WHERE m->'assignee_ids' ? $%d)`, argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	return r.queryTasks(ctx, baseQuery, args...)
}

// FindByAssignee returns non-draft tasks containing a module assigned to the
// user. Draft tasks stay invisible to contributors.
func (r *taskRepository) FindByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	q := `
		SELECT doc FROM tasks
		WHERE status <> 'draft'
		  AND EXISTS (SELECT 1 FROM jsonb_array_elements(doc->'modules') AS m
		              WHERE m->'assignee_ids' ? $1)
		ORDER BY created_at DESC`
	return r.queryTasks(ctx, q, userID)
}

// FindByParticipant returns every task the user touches in any role:
// creator, completer, or module assignee. Used by the termination cascade.
func (r *taskRepository) FindByParticipant(ctx context.Context, userID string) ([]models.Task, error) {
	q := `
		SELECT doc FROM tasks
		WHERE creator_id = $1
		   OR doc->>'completed_by' = $1
		   OR EXISTS (SELECT 1 FROM jsonb_array_elements(doc->'modules') AS m
		              WHERE m->'assignee_ids' ? $1)
		ORDER BY created_at DESC`
	return r.queryTasks(ctx, q, userID)
}

// UpdateVersioned writes the whole document back, guarded by the version the
// caller read. Zero rows affected means another writer got there first.
func (r *taskRepository) UpdateVersioned(ctx context.Context, task *models.Task, expectedVersion int64) error {
	doc, err := json.Marshal(task)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET creator_id = $1, status = $2, doc = $3, version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5`,
		task.CreatorID, task.Status, doc, task.ID, expectedVersion,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the row is gone or the version moved on; disambiguate.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

// Delete is idempotent: deleting an absent task is a no-op.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var t models.Task
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
