package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/authz"
	"workhub/internal/logger"
	"workhub/internal/models"
	"workhub/internal/services"
)

type TaskHandler struct {
	service services.WorkflowService
}

func NewTaskHandler(service services.WorkflowService) *TaskHandler {
	return &TaskHandler{service: service}
}

func parseDue(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req struct {
		Title       string              `json:"title" binding:"required"`
		Description string              `json:"description"`
		Priority    models.TaskPriority `json:"priority"` // low|medium|high
		DueDate     string              `json:"due_date"` // RFC3339
	}

	userID, roleID := getUserAndRole(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can create tasks"})
		return
	}
	due, ok := parseDue(req.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), userID, req.Title, req.Description, req.Priority, due)
	if err != nil {
		logger.Errorf("[task][create][err] %v", err)
		abortWithError(c, err)
		return
	}
	logger.Infof("[task][create][ok] id=%s creator=%s title=%q", task.ID, userID, task.Title)
	c.JSON(http.StatusCreated, task)
}

// POST /tasks/:id/modules
func (h *TaskHandler) AddModule(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description"`
		DueDate     string   `json:"due_date"`
		AssigneeIDs []string `json:"assignee_ids" binding:"required"`
	}

	_, roleID := getUserAndRole(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can edit a draft task"})
		return
	}
	due, ok := parseDue(req.DueDate)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date (RFC3339)"})
		return
	}

	task, err := h.service.AddModule(c.Request.Context(), c.Param("id"), req.Title, req.Description, due, req.AssigneeIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/publish
func (h *TaskHandler) Publish(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can publish tasks"})
		return
	}
	task, err := h.service.PublishTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("[task][publish][ok] id=%s", task.ID)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/modules/:module_id/start
func (h *TaskHandler) StartModule(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	task, err := h.service.StartModule(c.Request.Context(), c.Param("id"), c.Param("module_id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/modules/:module_id/submit
func (h *TaskHandler) SubmitModule(c *gin.Context) {
	var req struct {
		Note string `json:"note" binding:"required"`
	}
	userID, _ := getUserAndRole(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.SubmitModule(c.Request.Context(), c.Param("id"), c.Param("module_id"), userID, req.Note)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/modules/:module_id/approve
func (h *TaskHandler) ApproveModule(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can review modules"})
		return
	}
	task, err := h.service.ApproveModule(c.Request.Context(), c.Param("id"), c.Param("module_id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("[task][approve][ok] task=%s module=%s by=%s", task.ID, c.Param("module_id"), userID)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/modules/:module_id/reject
func (h *TaskHandler) RejectModule(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	userID, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can review modules"})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.RejectModule(c.Request.Context(), c.Param("id"), c.Param("module_id"), userID, req.Reason)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/modules/:module_id/reassign
func (h *TaskHandler) ReassignModule(c *gin.Context) {
	var req struct {
		AssigneeIDs []string `json:"assignee_ids" binding:"required"`
	}
	_, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can reassign modules"})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	task, err := h.service.ReassignModule(c.Request.Context(), c.Param("id"), c.Param("module_id"), req.AssigneeIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can complete tasks"})
		return
	}
	task, err := h.service.CompleteTask(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("[task][complete][ok] id=%s by=%s", task.ID, userID)
	c.JSON(http.StatusOK, task)
}

// POST /tasks/:id/cancel
func (h *TaskHandler) Cancel(c *gin.Context) {
	_, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can cancel tasks"})
		return
	}
	task, err := h.service.CancelTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, err := h.service.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GET /tasks
func (h *TaskHandler) GetAll(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	tasks, err := h.service.GetTasksForUser(c.Request.Context(), userID, roleID)
	if err != nil {
		logger.Errorf("[task][list][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve tasks"})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}
