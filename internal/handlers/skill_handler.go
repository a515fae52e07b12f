package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"workhub/internal/authz"
	"workhub/internal/models"
	"workhub/internal/repositories"
)

type SkillHandler struct {
	skills repositories.SkillRepository
}

func NewSkillHandler(skills repositories.SkillRepository) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// POST /skills
func (h *SkillHandler) Add(c *gin.Context) {
	var req struct {
		SkillName   string `json:"skill_name" binding:"required"`
		Proficiency int    `json:"proficiency" binding:"required"`
	}
	userID, _ := getUserAndRole(c)
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Proficiency < 1 || req.Proficiency > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "proficiency must be between 1 and 5"})
		return
	}

	skill := &models.UserSkill{
		UserID:      userID,
		SkillName:   req.SkillName,
		Proficiency: req.Proficiency,
	}
	if err := h.skills.Create(c.Request.Context(), skill); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add skill"})
		return
	}
	c.JSON(http.StatusCreated, skill)
}

// GET /skills/user/:id
func (h *SkillHandler) ListForUser(c *gin.Context) {
	skills, err := h.skills.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list skills"})
		return
	}
	c.JSON(http.StatusOK, skills)
}

// POST /skills/:id/validate (lead+)
func (h *SkillHandler) Validate(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can validate skills"})
		return
	}
	skillID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skill id"})
		return
	}
	if err := h.skills.Validate(c.Request.Context(), skillID, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "skill validated"})
}
