// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	TaskStatusDraft      TaskStatus = "draft"
	TaskStatusAssigned   TaskStatus = "assigned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
)

// ModuleStatus defines the possible statuses for a module inside a task.
type ModuleStatus string

const (
	ModuleStatusPending    ModuleStatus = "pending"
	ModuleStatusInProgress ModuleStatus = "in_progress"
	ModuleStatusSubmitted  ModuleStatus = "submitted"
	ModuleStatusApproved   ModuleStatus = "approved"
	ModuleStatusRejected   ModuleStatus = "rejected"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Module is an independently assignable and verifiable sub-unit of a task.
// Modules live embedded inside their task document and never outlive it.
type Module struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	AssigneeIDs     []string     `json:"assignee_ids"`
	Status          ModuleStatus `json:"status"`
	DueDate         *time.Time   `json:"due_date,omitempty"`
	SubmissionNote  string       `json:"submission_note,omitempty"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	ApprovedBy      string       `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time   `json:"approved_at,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	RetryCount      int          `json:"retry_count"`
}

// HasAssignee reports whether userID is among the module assignees.
func (m *Module) HasAssignee(userID string) bool {
	for _, id := range m.AssigneeIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Task represents the structure of a task in the system. Its status is
// derived from the statuses of its modules once it leaves draft.
type Task struct {
	ID          string       `json:"id"`
	CreatorID   string       `json:"creator_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Modules     []Module     `json:"modules"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CompletedBy string       `json:"completed_by,omitempty"`
}

// Clone returns a deep copy. Engine operations work on copies so that a
// failed operation never leaves the caller's task half-mutated.
func (t Task) Clone() Task {
	out := t
	out.Modules = make([]Module, len(t.Modules))
	copy(out.Modules, t.Modules)
	for i := range out.Modules {
		ids := make([]string, len(t.Modules[i].AssigneeIDs))
		copy(ids, t.Modules[i].AssigneeIDs)
		out.Modules[i].AssigneeIDs = ids
	}
	return out
}

// ModuleIndex returns the position of the module with the given id, or -1.
func (t *Task) ModuleIndex(moduleID string) int {
	for i := range t.Modules {
		if t.Modules[i].ID == moduleID {
			return i
		}
	}
	return -1
}

// TaskFilter defines the available parameters for filtering tasks.
type TaskFilter struct {
	CreatorID  *string
	AssigneeID *string
	Status     *TaskStatus
}
