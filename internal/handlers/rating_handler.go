package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workhub/internal/authz"
	"workhub/internal/logger"
	"workhub/internal/services"
)

type RatingHandler struct {
	ratings services.RatingService
}

func NewRatingHandler(ratings services.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// POST /ratings
func (h *RatingHandler) Submit(c *gin.Context) {
	var req struct {
		RatedID string    `json:"rated_id" binding:"required"`
		Scores  []float64 `json:"scores" binding:"required"`
	}
	userID, roleID := getUserAndRole(c)
	if !authz.IsManagerial(roleID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only leads can submit ratings"})
		return
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := h.ratings.SubmitRating(c.Request.Context(), userID, req.RatedID, req.Scores)
	if err != nil {
		abortWithError(c, err)
		return
	}
	logger.Infof("[rating][submit][ok] rater=%s rated=%s avg=%.2f", userID, req.RatedID, rating.Average)
	c.JSON(http.StatusOK, rating)
}

// GET /ratings/user/:id
func (h *RatingHandler) ListForUser(c *gin.Context) {
	ratings, err := h.ratings.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ratings"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// POST /ratings/user/:id/recompute (admin corrective tooling)
func (h *RatingHandler) Recompute(c *gin.Context) {
	score, count, err := h.ratings.Recompute(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating_score": score, "rating_count": count})
}
