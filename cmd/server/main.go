package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appaudit "github.com/lindabi/backend/internal/application/audit"
	apptender "github.com/lindabi/backend/internal/application/tender"
	"github.com/lindabi/backend/internal/infrastructure/config"
	"github.com/lindabi/backend/internal/infrastructure/logger"
	"github.com/lindabi/backend/internal/infrastructure/persistence"
	"github.com/lindabi/backend/internal/interfaces/http/handler"
	"github.com/lindabi/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting tender backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	tenderRepo := persistence.NewGormTenderRepository(db.DB)
	journeyRepo := persistence.NewGormJourneyRepository(db.DB)
	// The sequence repository keeps the root connection so counter
	// increments commit independently of tender transactions.
	sequenceRepo := persistence.NewGormNumberSequenceRepository(db.DB)
	contractorDirectory := persistence.NewGormContractorDirectory(db.DB)
	txScope := persistence.NewGormTenderTransactionScope(db.DB)

	// Application services
	journeyService := appaudit.NewJourneyService(journeyRepo, log)
	allocator := apptender.NewNumberAllocator(sequenceRepo, contractorDirectory, log)
	tenderService := apptender.NewService(tenderRepo, txScope, allocator, journeyService, nil, nil, log)
	reconciler := apptender.NewNumberReconciler(tenderRepo, txScope, journeyService, log)

	// HTTP handlers
	tenderHandler := handler.NewTenderHandler(tenderService, reconciler, journeyService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	tenderRoutes := router.NewDomainGroup("tenders", "/tenders")
	tenderRoutes.POST("", tenderHandler.Create)
	tenderRoutes.GET("/numbers/duplicates", tenderHandler.Duplicates)
	tenderRoutes.POST("/numbers/cleanup", tenderHandler.CleanupDuplicates)
	tenderRoutes.GET("/numbers/stats", tenderHandler.NumberStats)
	tenderRoutes.GET("/:id", tenderHandler.Get)
	tenderRoutes.PATCH("/:id", tenderHandler.Update)
	tenderRoutes.DELETE("/:id", tenderHandler.Delete)
	tenderRoutes.POST("/:id/copy", tenderHandler.Copy)
	tenderRoutes.GET("/:id/totals", tenderHandler.Totals)
	tenderRoutes.GET("/:id/journeys", tenderHandler.Journeys)
	tenderRoutes.POST("/:id/items", tenderHandler.AddItem)
	tenderRoutes.POST("/:id/items/copy", tenderHandler.CopyItems)
	tenderRoutes.PATCH("/:id/items/:itemId", tenderHandler.UpdateItem)
	tenderRoutes.DELETE("/:id/items/:itemId", tenderHandler.RemoveItem)
	tenderRoutes.POST("/:id/items/:itemId/move", tenderHandler.MoveItem)
	tenderRoutes.GET("/:id/items/:itemId/journeys", tenderHandler.ItemJourneys)

	r.Register(tenderRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
