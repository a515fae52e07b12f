package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"workhub/internal/pdf"
	"workhub/internal/services"
)

type ReportHandler struct {
	workflow services.WorkflowService
	users    services.UserService
	gen      pdf.Generator
}

func NewReportHandler(workflow services.WorkflowService, users services.UserService, gen pdf.Generator) *ReportHandler {
	return &ReportHandler{workflow: workflow, users: users, gen: gen}
}

// GET /reports/tasks/:id/pdf
func (h *ReportHandler) TaskPDF(c *gin.Context) {
	task, err := h.workflow.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	path, err := h.gen.GenerateTaskReport(*task)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.FileAttachment(path, "task_report.pdf")
}

// GET /reports/leaderboard/pdf
func (h *ReportHandler) LeaderboardPDF(c *gin.Context) {
	users, err := h.users.Leaderboard(c.Request.Context(), c.Query("department"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	path, err := h.gen.GenerateLeaderboardReport(users, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
		return
	}
	c.FileAttachment(path, "leaderboard.pdf")
}
