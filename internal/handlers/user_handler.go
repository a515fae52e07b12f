package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workhub/internal/logger"
	"workhub/internal/services"
)

type UserHandler struct {
	users       services.UserService
	termination services.TerminationService
}

func NewUserHandler(users services.UserService, termination services.TerminationService) *UserHandler {
	return &UserHandler{users: users, termination: termination}
}

// POST /users (admin)
func (h *UserHandler) Onboard(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		Email      string `json:"email" binding:"required"`
		Password   string `json:"password" binding:"required"`
		RoleID     int    `json:"role_id" binding:"required"`
		Department string `json:"department" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Onboard(c.Request.Context(), req.Name, req.Email, req.Password, req.RoleID, req.Department)
	if err != nil {
		logger.Warnf("[user][onboard][err] email=%s: %v", req.Email, err)
		abortWithError(c, err)
		return
	}
	logger.Infof("[user][onboard][ok] id=%s role=%d", user.ID, user.RoleID)
	c.JSON(http.StatusCreated, user)
}

// GET /users/:id
func (h *UserHandler) GetByID(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GET /users
func (h *UserHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /users/leaderboard
func (h *UserHandler) Leaderboard(c *gin.Context) {
	users, err := h.users.Leaderboard(c.Request.Context(), c.Query("department"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// DELETE /users/:id/terminate (admin)
func (h *UserHandler) Terminate(c *gin.Context) {
	callerID, _ := getUserAndRole(c)
	targetID := c.Param("id")

	if err := h.termination.TerminateUser(c.Request.Context(), callerID, targetID); err != nil {
		logger.Errorf("[user][terminate][err] target=%s by=%s: %v", targetID, callerID, err)
		abortWithError(c, err)
		return
	}
	logger.Infof("[user][terminate][ok] target=%s by=%s", targetID, callerID)
	c.JSON(http.StatusOK, gin.H{"message": "user and all related data terminated"})
}
