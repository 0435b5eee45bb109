package main

import (
	"fmt"
	"net/http"
	"os"

	"clarity/internal/config"
	"clarity/internal/database"
	"clarity/internal/handlers"
	"clarity/internal/logger"
	"clarity/internal/middleware"
	"clarity/internal/scheduler"
	"clarity/internal/services"
	"clarity/internal/validator"

	"github.com/gin-gonic/gin"
)

// @title           Clarity API
// @version         1.0
// @description     Clarity is a period-based ledger for small businesses and households: fiscal periods, recurring rules, budgets, goals, and monthly rollforward reports per workspace.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	workspaceService := services.NewWorkspaceService(db)
	periodService := services.NewPeriodService(db)
	categoryService := services.NewCategoryService(db)
	ledgerService := services.NewLedgerService(db)
	recurringService := services.NewRecurringService(db)
	budgetService := services.NewBudgetService(db)
	goalService := services.NewGoalService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService)
	periodHandler := handlers.NewPeriodHandler(periodService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, goalService)
	recurringHandler := handlers.NewRecurringHandler(recurringService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, periodService)
	goalHandler := handlers.NewGoalHandler(goalService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group; every route requires a verified bearer token
	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware())

	// Workspace routes
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("/:id", workspaceHandler.GetWorkspace)

	// Fiscal calendar routes
	workspaces.POST("/:id/years/:year/periods", periodHandler.InitializeYear)
	workspaces.GET("/:id/years/:year/periods", periodHandler.GetPeriods)
	workspaces.PUT("/:id/periods/:periodId/override", periodHandler.UpsertOverride)
	workspaces.GET("/:id/periods/:periodId/override", periodHandler.GetOverride)

	// Category routes
	workspaces.POST("/:id/categories", categoryHandler.CreateCategory)
	workspaces.GET("/:id/categories", categoryHandler.GetCategories)
	workspaces.GET("/:id/categories/:categoryId", categoryHandler.GetCategory)
	workspaces.PUT("/:id/categories/:categoryId", categoryHandler.UpdateCategory)
	workspaces.DELETE("/:id/categories/:categoryId", categoryHandler.DeleteCategory)

	// Ledger entry routes
	workspaces.POST("/:id/periods/:periodId/entries", ledgerHandler.CreateEntry)
	workspaces.POST("/:id/periods/:periodId/entries/bulk", ledgerHandler.BulkCreateEntries)
	workspaces.GET("/:id/periods/:periodId/entries", ledgerHandler.GetEntries)
	workspaces.PUT("/:id/entries/:entryId", ledgerHandler.UpdateEntry)
	workspaces.POST("/:id/entries/:entryId/post", ledgerHandler.PostEntry)
	workspaces.DELETE("/:id/entries/:entryId", ledgerHandler.DeleteEntry)

	// Recurring rule routes
	workspaces.POST("/:id/recurring-rules", recurringHandler.CreateRule)
	workspaces.GET("/:id/recurring-rules", recurringHandler.GetRules)
	workspaces.GET("/:id/recurring-rules/:ruleId", recurringHandler.GetRule)
	workspaces.PUT("/:id/recurring-rules/:ruleId", recurringHandler.UpdateRule)
	workspaces.DELETE("/:id/recurring-rules/:ruleId", recurringHandler.DeleteRule)
	workspaces.POST("/:id/periods/:periodId/generate", recurringHandler.Generate)

	// Budget routes
	workspaces.PUT("/:id/periods/:periodId/budgets", budgetHandler.UpsertBudget)
	workspaces.GET("/:id/periods/:periodId/budgets", budgetHandler.GetBudgets)
	workspaces.DELETE("/:id/budgets/:budgetId", budgetHandler.DeleteBudget)
	workspaces.GET("/:id/periods/:periodId/reconciliation", budgetHandler.Reconcile)

	// Goal routes
	workspaces.POST("/:id/goals", goalHandler.CreateGoal)
	workspaces.GET("/:id/goals", goalHandler.GetGoals)
	workspaces.POST("/:id/goals/sync", goalHandler.SyncGoals)
	workspaces.PUT("/:id/goals/:goalId", goalHandler.UpdateGoal)
	workspaces.DELETE("/:id/goals/:goalId", goalHandler.DeleteGoal)
	workspaces.POST("/:id/goals/:goalId/sync", goalHandler.SyncGoal)

	// Report routes
	workspaces.GET("/:id/years/:year/summary", reportHandler.GetYearSummary)

	// Period-open scheduler
	if appConfig.SchedulerEnabled {
		sched := scheduler.New(workspaceService, periodService, recurringService)
		if err := sched.Start(appConfig.SchedulerSpec); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
		log.Infof("Period-open scheduler running with spec %q", appConfig.SchedulerSpec)
	}

	log.Infof("Starting Clarity backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
