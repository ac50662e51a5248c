package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/evergreen-hs/hallpass-api/api/swagger"
	"github.com/evergreen-hs/hallpass-api/internal/handler"
	"github.com/evergreen-hs/hallpass-api/internal/middleware"
	"github.com/evergreen-hs/hallpass-api/internal/repository"
	"github.com/evergreen-hs/hallpass-api/internal/service"
	"github.com/evergreen-hs/hallpass-api/pkg/config"
	"github.com/evergreen-hs/hallpass-api/pkg/logger"
	corsmiddleware "github.com/evergreen-hs/hallpass-api/pkg/middleware/cors"
	reqidmiddleware "github.com/evergreen-hs/hallpass-api/pkg/middleware/requestid"
	"github.com/evergreen-hs/hallpass-api/pkg/storage"
)

// @title Hall Pass API
// @version 1.0.0
// @description Hall pass tracking for class periods
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	roster, err := repository.NewRosterRepository(cfg.Data.RosterFile)
	if err != nil {
		logr.Sugar().Fatalw("failed to load roster", "file", cfg.Data.RosterFile, "error", err)
	}
	logr.Sugar().Infow("roster loaded", "file", cfg.Data.RosterFile, "students", roster.Size())

	passLogRepo := repository.NewPassLogRepository(cfg.Data.PassLogFile)
	auditLogRepo := repository.NewAuditLogRepository(cfg.Data.AuditLogFile)
	credentialRepo := repository.NewCredentialRepository(cfg.Data.CredentialsFile)

	// Unreadable or corrupt logs fall back to empty; the service must start
	// regardless of persisted state.
	events, err := passLogRepo.Load()
	if err != nil {
		logr.Warn("pass log unreadable, starting empty", zap.Error(err))
	}
	audit, err := auditLogRepo.Load()
	if err != nil {
		logr.Warn("audit log unreadable, starting empty", zap.Error(err))
	}

	schedule, err := service.NewScheduleService(cfg.Passes.Windows)
	if err != nil {
		logr.Sugar().Fatalw("invalid schedule table", "error", err)
	}

	metrics := service.NewMetricsService()

	persistence := service.NewPersistenceService(passLogRepo, auditLogRepo, logr, service.PersistenceConfig{
		Retries:    cfg.Data.PersistRetries,
		RetryDelay: cfg.Data.PersistDelay,
	})

	registry := service.NewRegistryService(roster, schedule, persistence, metrics, logr, service.RegistryConfig{
		Slots:  cfg.Passes.Slots,
		Events: events,
		Audit:  audit,
	})
	persistence.Bind(registry)

	exportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	reports := service.NewReportService(registry, roster, exportStore, signer, logr, service.ReportConfig{
		LongThreshold:     cfg.Passes.LongThreshold,
		VeryLongThreshold: cfg.Passes.VeryLongThreshold,
		DownloadPath:      cfg.APIPrefix + "/admin/reports/download",
	})

	auth := service.NewAuthService(credentialRepo, logr, service.AuthConfig{
		JWTSecret:       cfg.Auth.JWTSecret,
		TokenExpiry:     cfg.Auth.TokenExpiry,
		DefaultPassword: cfg.Auth.DefaultPassword,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	persistence.Start(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	passHandler := handler.NewPassHandler(registry, schedule)
	adminHandler := handler.NewAdminHandler(registry)
	reportHandler := handler.NewReportHandler(reports)
	authHandler := handler.NewAuthHandler(auth)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/passes/check", passHandler.Check)
		api.GET("/passes", passHandler.Slots)
		api.GET("/periods/current", passHandler.CurrentPeriod)

		api.POST("/admin/login", authHandler.Login)
		// Downloads authenticate via the signed token in the URL.
		api.GET("/admin/reports/download", reportHandler.Download)

		admin := api.Group("/admin", middleware.AdminJWT(auth))
		{
			admin.PUT("/password", authHandler.ChangePassword)
			admin.GET("/passes", adminHandler.ActivePasses)
			admin.POST("/passes/:slotId/checkin", adminHandler.ForceRelease)
			admin.POST("/passes/admin-slot", adminHandler.ClaimAdminSlot)
			admin.PUT("/passes/notes/:studentId", adminHandler.AttachNote)
			admin.GET("/audit", adminHandler.AuditTrail)
			admin.GET("/reports/summary", reportHandler.Summary)
			admin.GET("/reports/weekly", reportHandler.Weekly)
			admin.GET("/reports/weekly/:studentId", reportHandler.WeeklyByStudent)
			admin.POST("/reports/export", reportHandler.Export)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown", zap.Error(err))
	}

	persistence.Stop()
	if err := persistence.Flush(); err != nil {
		logr.Error("final persistence flush failed", zap.Error(err))
	}
	logr.Info("shutdown complete")
}
