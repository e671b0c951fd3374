package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carries everything the HTTP API needs.
type Options struct {
	DB           *gorm.DB
	SessionStore sessions.Store
	Logger       *zap.Logger
	// AIService is optional; task generation answers 503 without it.
	AIService *services.AIService
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(opts Options) *gin.Engine {
	logger := logging.OrNop(opts.Logger)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// Repositories
	userRepo := repository.NewUserRepository(opts.DB)
	projectRepo := repository.NewProjectRepository(opts.DB)
	taskRepo := repository.NewTaskRepository(opts.DB)
	notificationRepo := repository.NewNotificationRepository(opts.DB)
	reminderRepo := repository.NewReminderRepository(opts.DB)
	activityRepo := repository.NewActivityLogRepository(opts.DB)
	screenSessionRepo := repository.NewScreenSessionRepository(opts.DB)

	// Services
	authService := services.NewAuthService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, reminderRepo, now)
	projectService := services.NewProjectService(projectRepo, userRepo, notificationService, now, logger)
	taskService := services.NewTaskService(taskRepo, opts.AIService, now)
	auditor := services.NewActivityAuditor(activityRepo, logger)
	screenTime := services.NewScreenTimeTracker(screenSessionRepo, now)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, screenTime, logger)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityLogHandler(auditor, authService)
	screenTimeHandler := handlers.NewScreenTimeHandler(screenTime)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.SessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group(constants.APIPrefix)
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Everything below is authenticated and audited
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(), middleware.LogActivity(auditor, authService, logger))

		requireProject := middleware.RequireProjectAccess(projectService)
		projects := protected.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", requireProject, projectHandler.GetProject)
			projects.PUT("/:id", requireProject, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireProject, projectHandler.DeleteProject)
			projects.GET("/:id/members", requireProject, projectHandler.ListMembers)
			projects.POST("/:id/members", requireProject, projectHandler.AddMember)
			projects.DELETE("/:id/members/:user_id", requireProject, projectHandler.RemoveMember)
			projects.GET("/:id/tasks", requireProject, taskHandler.ListTasks)
			projects.POST("/:id/tasks", requireProject, taskHandler.CreateTask)
			projects.POST("/:id/tasks/generate", requireProject, taskHandler.GenerateTasks)
		}

		requireTask := middleware.RequireTaskAccess(taskService, projectService)
		tasks := protected.Group("/tasks")
		{
			tasks.GET("/:id", requireTask, taskHandler.GetTask)
			tasks.PATCH("/:id", requireTask, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireTask, taskHandler.DeleteTask)
			tasks.POST("/:id/assign", requireTask, taskHandler.AssignTask)
			tasks.POST("/:id/unassign", requireTask, taskHandler.UnassignTask)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		reminders := protected.Group("/reminders")
		{
			reminders.GET("", notificationHandler.ListReminders)
			reminders.GET("/pending-count", notificationHandler.PendingReminderCount)
			reminders.POST("/:id/read", notificationHandler.MarkReminderRead)
		}

		protected.GET("/activity-logs", activityHandler.ListActivityLogs)
		protected.POST("/screen-time/heartbeat", screenTimeHandler.Heartbeat)
	}

	return r
}
