package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/handlers"
	"call_quality_app_go/logger"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog := logger.New(cfg.Environment)

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment, cfg.LibsqlURL, cfg.LibsqlAuthToken); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Company{},
		&models.Profile{},
		&models.Session{},
		&models.Call{},
		&models.CallScore{},
		&models.CallEvaluation{},
		&models.CallTag{},
		&models.EvaluationRule{},
		&models.KnowledgeArticle{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize storage (R2 with local fallback)
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			entry := appLog.WithRequest(c.Request()).WithField("status", v.Status)
			if v.Error != nil {
				appLog.WithError(v.Error).Error("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	if cfg.AllowedOrigins != "" {
		e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
			AllowCredentials: true,
		}))
	} else {
		e.Use(echomiddleware.CORS())
	}

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.POST("/login", handlers.LoginHandler)
	e.POST("/logout", handlers.LogoutHandler)

	// Setup wizard routes. Mutating steps are blocked once the initial
	// admin exists.
	setup := e.Group("/api/setup")
	{
		setup.GET("/status", handlers.SetupStatusHandler)
		setup.POST("/db-test", handlers.SetupDBTestHandler)
		setup.POST("/ai-test", handlers.SetupAITestHandler)
		setup.POST("/tables", handlers.SetupTablesHandler, handlers.RequireSetupIncomplete)
		setup.POST("/admin", handlers.SetupAdminHandler, handlers.RequireSetupIncomplete)
	}

	// Protected routes (authentication required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.GetCurrentUserHandler)

		// Setup completion needs the freshly created admin to sign in first.
		// The authenticated ai-test route is the one that may persist
		// provider settings; the open wizard route only probes.
		api.POST("/setup/ai-test", handlers.SetupAITestHandler, middleware.RequireRole(models.RolePlatformAdmin))
		api.POST("/setup/complete", handlers.SetupCompleteHandler, middleware.RequireRole(models.RolePlatformAdmin))

		// Company-scoped routes
		company := api.Group("")
		company.Use(middleware.RequireCompany())
		{
			company.GET("/dashboard/stats", handlers.DashboardStatsHandler)
			company.GET("/dashboard/timeline", handlers.DashboardTimelineHandler)

			company.GET("/calls", handlers.ListCallsHandler)
			company.GET("/calls/:id", handlers.GetCallHandler)
			company.GET("/calls/:id/audio", handlers.GetCallAudioHandler)
			company.POST("/calls/manual", handlers.CreateManualCallHandler)
			company.POST("/calls/urls", handlers.CreateCallsFromURLsHandler)
			company.POST("/calls/upload", handlers.UploadCallFilesHandler)

			company.GET("/rules", handlers.ListRulesHandler)
			company.GET("/knowledge", handlers.ListArticlesHandler)
			company.GET("/knowledge/:id", handlers.GetArticleHandler)
			company.GET("/employees", handlers.ListEmployeesHandler)
			company.GET("/employees/:id", handlers.GetEmployeeHandler)
			company.GET("/company", handlers.GetCompanyHandler)

			company.GET("/reports/summary", handlers.ReportSummaryHandler)
			company.GET("/reports/agents", handlers.ReportAgentsHandler)
			company.GET("/reports/rules", handlers.ReportRulesHandler)
			company.GET("/reports/export", handlers.ExportReportHandler)

			// Supervisor-and-up routes
			managing := company.Group("")
			managing.Use(middleware.RequireRole(models.RolePlatformAdmin, models.RoleClientAdmin, models.RoleSupervisor))
			{
				managing.DELETE("/calls/:id", handlers.DeleteCallHandler)

				managing.POST("/rules", handlers.CreateRuleHandler)
				managing.PUT("/rules/:id", handlers.UpdateRuleHandler)
				managing.DELETE("/rules/:id", handlers.DeleteRuleHandler)

				managing.POST("/knowledge", handlers.CreateArticleHandler)
				managing.PUT("/knowledge/:id", handlers.UpdateArticleHandler)
				managing.DELETE("/knowledge/:id", handlers.DeleteArticleHandler)
			}

			// Admin-only routes
			adminRoutes := company.Group("")
			adminRoutes.Use(middleware.RequireRole(models.RolePlatformAdmin, models.RoleClientAdmin))
			{
				adminRoutes.POST("/employees", handlers.CreateEmployeeHandler)
				adminRoutes.PUT("/employees/:id", handlers.UpdateEmployeeHandler)
				adminRoutes.PATCH("/employees/:id/active", handlers.ToggleEmployeeActiveHandler)
				adminRoutes.DELETE("/employees/:id", handlers.DeleteEmployeeHandler)

				adminRoutes.PUT("/company", handlers.UpdateCompanyHandler)
			}
		}
	}

	// Start background cleanup jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
