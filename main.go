package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inquizitive-iiitdwd/inquizitive.web/config"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/handlers"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/middleware"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/models"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/repository"
	"github.com/inquizitive-iiitdwd/inquizitive.web/internal/service"
	ws "github.com/inquizitive-iiitdwd/inquizitive.web/internal/websocket"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/cache"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/database"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/email"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/messaging"
	"github.com/inquizitive-iiitdwd/inquizitive.web/pkg/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	defer redisClient.Close()

	rabbitClient, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	log.Println("Connected to RabbitMQ")
	defer rabbitClient.Close()

	s3Client, err := storage.NewS3Client(&cfg.S3)
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	if err := s3Client.CreateBucket(ctx, cfg.S3.MediaBucket); err != nil {
		log.Printf("Warning: Failed to ensure media bucket: %v", err)
	}
	cancel()

	smtpClient := email.NewSMTPClient(&cfg.SMTP)

	db := pgClient.GetDB()
	teamRepo := repository.NewTeamRepository(db)
	quizRepo := repository.NewQuizRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	marksRepo := repository.NewMarksRepository(db)
	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	notificationService := service.NewNotificationService(rabbitClient, smtpClient)
	accessService := service.NewAccessService(teamRepo, notificationService)
	scoreService := service.NewScoreService(teamRepo, quizRepo, marksRepo)
	quizService := service.NewQuizService(quizRepo, questionRepo, s3Client, cfg.S3.MediaBucket)
	userService := service.NewUserService(userRepo, adminRepo, redisClient, notificationService,
		s3Client, cfg.S3.MediaBucket, cfg.JWT.Secret, cfg.App.FrontendURL, cfg.App.EmailDomain)
	adminService := service.NewAdminService(adminRepo)

	deliveries, err := rabbitClient.Consume(service.EmailQueue)
	if err != nil {
		log.Fatalf("Failed to start consuming email queue: %v", err)
	}
	go notificationService.Run(deliveries)
	log.Println("Email consumer started")

	hub := ws.NewHub(quizRepo, accessService, scoreService, redisClient)
	go hub.Run()
	log.Println("WebSocket hub started")

	userHandler := handlers.NewUserHandler(userService)
	adminHandler := handlers.NewAdminHandler(adminService)
	eventHandler := handlers.NewEventHandler(accessService)
	quizHandler := handlers.NewQuizHandler(quizService, scoreService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	auth := middleware.SessionAuth(cfg.JWT.Secret, userService)
	optAuth := middleware.OptionalSessionAuth(cfg.JWT.Secret, userService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staffOnly := middleware.RequireRoles(models.RoleOrganizer, models.RoleAdmin)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(cfg.App.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "inquizitive",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	users := router.Group("/users")
	{
		users.POST("/register", userHandler.Register)
		users.GET("/verify-email/:token", userHandler.VerifyEmail)
		users.POST("/resend-verification", userHandler.ResendVerification)
		users.POST("/login", userHandler.Login)
		users.POST("/logout", auth, userHandler.Logout)
		users.POST("/request-password-reset", userHandler.RequestPasswordReset)
		users.POST("/reset-password", userHandler.ResetPassword)
		users.GET("/readtoken", optAuth, userHandler.ReadToken)
		users.GET("/me", auth, userHandler.ReadToken)
		users.GET("/profile", auth, userHandler.Profile)
		users.PUT("/profile", auth, userHandler.UpdateProfile)
		users.POST("/avatar", auth, userHandler.UploadAvatar)
	}

	admine := router.Group("/admine")
	{
		admine.POST("/login", userHandler.AdminLogin)

		protected := admine.Group("", auth, adminOnly)
		protected.POST("/addMember", adminHandler.AddMember)
		protected.GET("/membersDetail", adminHandler.ListMembers)
		protected.POST("/blockuser", adminHandler.BlockUser)
		protected.POST("/unblockuser", adminHandler.UnblockUser)
	}

	events := router.Group("/events")
	{
		events.POST("/register", eventHandler.RegisterTeam)
		events.POST("/access/request", eventHandler.RequestAccess)
		events.POST("/access/redeem", eventHandler.RedeemAccess)
	}

	router.POST("/organizer-login", userHandler.OrganizerLogin)

	notifications := router.Group("/notifications", auth, adminOnly)
	notifications.POST("/email", notificationHandler.SendEmail)

	quizzes := router.Group("/api/quizzes")
	{
		quizzes.GET("", quizHandler.List)
		quizzes.POST("", auth, staffOnly, quizHandler.Create)
		quizzes.DELETE("/:name", auth, staffOnly, quizHandler.Delete)
		quizzes.PUT("/:name/timer", auth, staffOnly, quizHandler.SetTimer)
		quizzes.GET("/:name/timer", quizHandler.GetTimer)
		quizzes.GET("/:name/questions", quizHandler.ListQuestions)
		quizzes.POST("/:name/questions", auth, staffOnly, quizHandler.AddQuestion)
		quizzes.DELETE("/:name/questions/:questionId", auth, staffOnly, quizHandler.DeleteQuestion)
		quizzes.PUT("/:name/questions/:questionId/media", auth, staffOnly, quizHandler.AttachMedia)
		quizzes.GET("/:name/marks", quizHandler.Leaderboard)
	}

	router.POST("/api/marks", quizHandler.SubmitMarks)

	creating := router.Group("/api/creatingquiz", auth, staffOnly)
	{
		creating.POST("/quizzes", quizHandler.Create)
		creating.GET("/quizzes/:name/questions", quizHandler.ListQuestions)
		creating.POST("/quizzes/:name/questions", quizHandler.AddQuestion)
		creating.DELETE("/quizzes/:name/questions/:questionId", quizHandler.DeleteQuestion)
	}
	router.PATCH("/api/creatingquiz/quizzes/:name/review", auth, adminOnly, quizHandler.Review)

	router.GET("/ws", optAuth, wsHandler.Handle)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("InQuizitive server starting on port %s...", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
