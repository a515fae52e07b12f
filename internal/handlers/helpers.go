package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workhub/internal/repositories"
	"workhub/internal/workflow"
)

func getUserAndRole(c *gin.Context) (userID string, roleID int) {
	if v, ok := c.Get("user_id"); ok {
		userID, _ = v.(string)
	}
	if v, ok := c.Get("role_id"); ok {
		roleID, _ = v.(int)
	}
	return
}

// statusFor maps the core's failure classes to HTTP status codes. Rejected
// operations always carry the reason through to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, workflow.ErrTaskNotFound),
		errors.Is(err, workflow.ErrModuleNotFound),
		errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrNotAssignee),
		errors.Is(err, workflow.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, workflow.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
