package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/hiyona/orgflow-api/internal/authz"
	"github.com/hiyona/orgflow-api/internal/billing"
	"github.com/hiyona/orgflow-api/internal/config"
	"github.com/hiyona/orgflow-api/internal/constants"
	"github.com/hiyona/orgflow-api/internal/database"
	"github.com/hiyona/orgflow-api/internal/handlers"
	"github.com/hiyona/orgflow-api/internal/middleware"
	"github.com/hiyona/orgflow-api/internal/notifier"
	"github.com/hiyona/orgflow-api/internal/services"

	repo "github.com/hiyona/orgflow-api/internal/repository"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	db := database.GetDB()

	// Repositories
	taskRepo := repo.NewTaskRepository(db)
	projectRepo := repo.NewProjectRepository(db)
	userRepo := repo.NewUserRepository(db)
	orgRepo := repo.NewOrganizationRepository(db)
	invitationRepo := repo.NewInvitationRepository(db)
	subscriptionRepo := repo.NewSubscriptionRepository(db)
	activityRepo := repo.NewActivityRepository(db)
	notificationRepo := repo.NewNotificationRepository(db)

	// Billing gate and policy engine
	gate := billing.NewGate(cfg, subscriptionRepo, taskRepo, projectRepo)
	policy := authz.NewEngine(gate)

	// Notification worker
	queueNotifier := notifier.NewQueueNotifier(notificationRepo, 256)
	queueNotifier.Start()
	defer queueNotifier.Close()

	// Services
	authService := services.NewAuthService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, gate, policy, queueNotifier)
	projectService := services.NewProjectService(projectRepo, policy)
	invitationService := services.NewInvitationService(invitationRepo, userRepo, orgRepo, policy, queueNotifier)
	userService := services.NewUserService(userRepo, policy)
	activityService := services.NewActivityService(activityRepo, policy)
	billingService := services.NewBillingService(gate, policy)
	notificationService := services.NewNotificationService(notificationRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	userHandler := handlers.NewUserHandler(userService)
	activityHandler := handlers.NewActivityHandler(activityService)
	billingHandler := handlers.NewBillingHandler(billingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	requireAuth := middleware.RequireAuth(userRepo)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PATCH("/me", requireAuth, authHandler.UpdateProfile)
		}

		// Invitation accept routes (public, token-addressed)
		api.GET("/invitations/accept/:token", invitationHandler.ShowInvitation)
		api.POST("/invitations/accept/:token", invitationHandler.AcceptInvitation)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/restore", taskHandler.RestoreTask)
			tasks.DELETE("/:id/force", taskHandler.ForceDeleteTask)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/restore", projectHandler.RestoreProject)
		}

		// Member routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListMembers)
			users.DELETE("/:id", userHandler.RemoveMember)
		}

		// Invitation management routes (protected)
		invitations := api.Group("/invitations")
		invitations.Use(requireAuth)
		{
			invitations.GET("", invitationHandler.ListInvitations)
			invitations.POST("", invitationHandler.CreateInvitation)
			invitations.DELETE("/:id", invitationHandler.RevokeInvitation)
		}

		// Activity, billing, notifications (protected)
		api.GET("/activity", requireAuth, activityHandler.ListActivity)
		api.GET("/billing", requireAuth, billingHandler.GetUsage)

		notifications := api.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
