package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"workhub/internal/config"
	"workhub/internal/handlers"
	"workhub/internal/logger"
	"workhub/internal/notify"
	"workhub/internal/pdf"
	"workhub/internal/repositories"
	"workhub/internal/routes"
	"workhub/internal/services"

	_ "workhub/docs"
)

func Run() {
	cfg := config.LoadConfig()
	defer logger.Sync()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		logger.Fatalf("[app][db] failed to open connection: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Errorf("[app][db] failed to close connection: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	ratingRepo := repositories.NewRatingRepository(db)
	skillRepo := repositories.NewSkillRepository(db)

	// === Services ===
	authService := services.NewAuthService(
		userRepo,
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMin)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	var tgService *services.TelegramService
	if cfg.Telegram.Enabled {
		tgService, err = services.NewTelegramService(cfg.Telegram.BotToken)
		if err != nil {
			logger.Warnf("[app][telegram] disabled, bot init failed: %v", err)
		}
	}

	hub := notify.NewHub()
	notifier := services.NewNotificationService(userRepo, tgService, emailService)
	notifier.Attach(hub)

	userService := services.NewUserService(userRepo, authService, emailService)
	workflowService := services.NewWorkflowService(taskRepo, userRepo, hub)
	ratingService := services.NewRatingService(ratingRepo, userRepo)
	terminationService := services.NewTerminationService(
		userRepo, taskRepo, ratingRepo, skillRepo, ratingService, nil, hub,
	)

	pdfGen := pdf.NewReportGenerator(cfg.Files.RootDir, "assets/fonts/DejaVuSans.ttf")

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, terminationService)
	taskHandler := handlers.NewTaskHandler(workflowService)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	skillHandler := handlers.NewSkillHandler(skillRepo)
	reportHandler := handlers.NewReportHandler(workflowService, userService, pdfGen)

	// === Router ===
	r := gin.Default()
	r.Use(corsMiddleware())
	routes.SetupRoutes(
		r,
		[]byte(cfg.Auth.JWTSecret),
		authHandler,
		userHandler,
		taskHandler,
		ratingHandler,
		skillHandler,
		reportHandler,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Infof("[app][start] listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("[app][start] server stopped: %v", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
