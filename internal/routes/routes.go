package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"workhub/internal/authz"
	"workhub/internal/handlers"
	"workhub/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	ratingHandler *handlers.RatingHandler,
	skillHandler *handlers.SkillHandler,
	reportHandler *handlers.ReportHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	// USERS
	users := r.Group("/users")
	{
		users.POST("/", middleware.RequireRoles(authz.RoleAdmin), userHandler.Onboard)
		users.GET("/", userHandler.List)
		users.GET("/leaderboard", userHandler.Leaderboard)
		users.GET("/:id", userHandler.GetByID)
		users.DELETE("/:id/terminate", middleware.RequireRoles(authz.RoleAdmin), userHandler.Terminate)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.POST("/", taskHandler.Create)
		tasks.GET("/", taskHandler.GetAll)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.POST("/:id/modules", taskHandler.AddModule)
		tasks.POST("/:id/publish", taskHandler.Publish)
		tasks.POST("/:id/complete", taskHandler.Complete)
		tasks.POST("/:id/cancel", taskHandler.Cancel)
		tasks.POST("/:id/modules/:module_id/start", taskHandler.StartModule)
		tasks.POST("/:id/modules/:module_id/submit", taskHandler.SubmitModule)
		tasks.POST("/:id/modules/:module_id/approve", taskHandler.ApproveModule)
		tasks.POST("/:id/modules/:module_id/reject", taskHandler.RejectModule)
		tasks.POST("/:id/modules/:module_id/reassign", taskHandler.ReassignModule)
	}

	// RATINGS
	ratings := r.Group("/ratings")
	{
		ratings.POST("/", ratingHandler.Submit)
		ratings.GET("/user/:id", ratingHandler.ListForUser)
		ratings.POST("/user/:id/recompute", middleware.RequireRoles(authz.RoleAdmin), ratingHandler.Recompute)
	}

	// SKILLS
	skills := r.Group("/skills")
	{
		skills.POST("/", skillHandler.Add)
		skills.GET("/user/:id", skillHandler.ListForUser)
		skills.POST("/:id/validate", skillHandler.Validate)
	}

	// REPORTS (lead and above)
	reports := r.Group("/reports", middleware.RequireMinRole(authz.RoleLead))
	{
		reports.GET("/tasks/:id/pdf", reportHandler.TaskPDF)
		reports.GET("/leaderboard/pdf", reportHandler.LeaderboardPDF)
	}

	return r
}
